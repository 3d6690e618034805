package compiler

import "github.com/cthulhuology/newscript/internal/firth"

// intern looks up w in the string table and returns its address, copying
// it in if this is the first time it's been seen. Each distinct word
// appears at most once across the whole compile (nsc.c:string()). An
// empty word (no characters read) interns to address 0, which compile's
// dispatch loop treats as "nothing to do" -- address 0 is otherwise
// unreachable since the strings table lives at the very top of the image.
func (c *Compiler) intern(w word) uint32 {
	if w.n == 0 {
		return 0
	}

	for i := c.strings; i < c.stringsEnd; i += 4 {
		if c.img.Cells[i] == w.cells[0] &&
			c.img.Cells[i+1] == w.cells[1] &&
			c.img.Cells[i+2] == w.cells[2] &&
			c.img.Cells[i+3] == w.cells[3] {
			return i
		}
	}

	c.strings -= 4
	c.img.Cells[c.strings] = w.cells[0]
	c.img.Cells[c.strings+1] = w.cells[1]
	c.img.Cells[c.strings+2] = w.cells[2]
	c.img.Cells[c.strings+3] = w.cells[3]
	return c.strings
}

// wordFromString builds a word value from a Go string literal, for
// interning the fixed names the bootstrap step needs (opcode mnemonics,
// "Core") without routing them through the input stream.
func wordFromString(s string) word {
	w := word{cells: [4]uint32{0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff}}
	for _, r := range s {
		if w.n >= maxWordChars {
			break
		}
		key := firth.Encode(r)
		idx := w.n / 4
		w.cells[idx] = (w.cells[idx] << 8) | uint32(key)
		w.n++
	}
	return w
}
