package compiler

import "github.com/cthulhuology/newscript/internal/firth"

// word is one token read from the source stream: up to 16 characters
// packed 4-per-cell MSB-first, plus the running numeric value computed
// alongside it (every word is given a numeric interpretation, used or not
// -- matches nsc.c:word()).
type word struct {
	cells [4]uint32
	n     int // characters actually read; 0 means an empty/whitespace-only word
	number uint32
	hex    bool
	// breakKey is the word-break character (space/tab/newline) that ended
	// this word. Zero only when nextWord reports ok=false (end of input).
	breakKey byte
}

// maxWordChars mirrors nsc.c's fixed input[4] buffer: 4 cells of 4 packed
// characters each.
const maxWordChars = 16

// readKey reads one source byte and translates it through the Firth
// character map. End of input reads as firth.Unknown, the same sentinel
// nsc.c's inkey() gets from getchar() hitting EOF.
func (c *Compiler) readKey() byte {
	b, err := c.in.ReadByte()
	if err != nil {
		return firth.Unknown
	}
	return firth.Encode(rune(b))
}

// nextWord reads one word from the input stream. ok is false at end of
// input or at any character with no Firth code, both of which read as
// firth.Unknown (nsc.c:word() returning 0); a run of word-break characters
// with nothing between them is reported as ok=true with n==0, matching
// the original compiling loop's "empty string, continue" handling.
//
// The numeric value is base 10 unless a '#' appears anywhere in the word,
// in which case every digit is read as base 16. A leading '-' negates it.
func (c *Compiler) nextWord() (word, bool) {
	w := word{cells: [4]uint32{0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff}}
	const minus = 0x2d // '-'
	var dec, hex uint32
	neg := false

	for {
		key := c.readKey()
		if key == firth.Unknown {
			return w, false
		}
		if firth.IsWordBreak(key) {
			if key == firth.Tab {
				c.line++
			}
			w.breakKey = key
			return w, true
		}

		if w.n < maxWordChars {
			idx := w.n / 4
			w.cells[idx] = (w.cells[idx] << 8) | uint32(key)
			switch {
			case key == firth.Hash:
				w.hex = true
			case key == minus && w.n == 0:
				neg = true
			default:
				dec = dec*10 + uint32(key)
				hex = hex*16 + uint32(key)
			}
			w.number = dec
			if w.hex {
				w.number = hex
			}
			if neg {
				w.number = -w.number
			}
			w.n++
		}
		// Characters past maxWordChars are silently dropped; nsc.c's
		// fixed input[4] buffer has the same 16-character ceiling but
		// would overrun it instead, since C never bounds-checks here.
	}
}
