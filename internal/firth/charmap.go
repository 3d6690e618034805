// Package firth implements the compact Firth character set shared by the
// NewScript compiler's token reader and the VM's keyboard back-end.
package firth

// table is the ASCII-to-Firth translation table. Index i maps to the host
// character table[i]; Encode performs the inverse lookup. Reproduced from
// nsc.c's char_map[], which is itself the canonical definition of the Firth
// character set.
const table = "0123456789abcdefghijklmnopqrstuvwxyz,./;'[]\\`-= )!@#$%^&*(ABCDEFGHIJKLMNOPQRSTUVWXYZ<>?:\"{}|~_+\t\n"

// Unknown is the code returned for any host character with no Firth
// representation.
const Unknown byte = 0x66

// Encode translates a host character into its Firth code, or Unknown if r
// has no entry in the table.
func Encode(r rune) byte {
	for i := 0; i < len(table); i++ {
		if rune(table[i]) == r {
			return byte(i)
		}
	}
	return Unknown
}

// Decode translates a Firth code back into its host character. Codes with
// no entry (>= len(table)) return 0.
func Decode(code byte) rune {
	if int(code) >= len(table) {
		return 0
	}
	return rune(table[code])
}

// Space, Tab, Newline are the three word-terminating codes that are not
// Unknown; Tab additionally advances the compiler's line-mode counter.
const (
	Space   byte = 0x2f
	Tab     byte = 0x5f
	Newline byte = 0x60
	Hash    byte = 0x33 // '#', the hexadecimal-literal prefix
)

// IsWordBreak reports whether code terminates the current word, per
// nsc.c's space().
func IsWordBreak(code byte) bool {
	return code == Space || code == Tab || code == Newline
}
