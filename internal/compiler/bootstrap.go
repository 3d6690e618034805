package compiler

import "github.com/cthulhuology/newscript/internal/vm"

// opEntry pairs an opcode's interned mnemonic with its byte value
// (nsc.c's `ops[]` table).
type opEntry struct {
	key   uint32
	value uint32
}

// bootstrapOpcodes interns every opcode mnemonic and records its byte
// value, the table opcodeFor searches (nsc.c:init_strings). This has to
// run before anything else touches the string table, since the dispatch
// loop's opcode lookup depends on every mnemonic already being interned.
func (c *Compiler) bootstrapOpcodes() {
	c.ops = make([]opEntry, len(vm.Mnemonics))
	for i, m := range vm.Mnemonics {
		key := c.intern(wordFromString(m.Name))
		c.ops[i] = opEntry{key: key, value: uint32(m.Op)}
	}
}

// opcodeFor returns the opcode byte value whose mnemonic interned to
// ident, or 0 if ident names no opcode (nsc.c:opcode).
func (c *Compiler) opcodeFor(ident uint32) uint32 {
	for _, op := range c.ops {
		if op.key == ident {
			return op.value
		}
	}
	return 0
}

// bootstrapLexicon lays down the vestigial "Core" object: one pair per
// opcode (name, its own byte value standing in for an address), topped
// by a header claiming all 44 pairs exist (nsc.c:init_lexicon). Because
// method()'s reachable-pair count is half the stored count (see
// lexicon.go), roughly the first half of this table -- by opcode table
// order -- is never actually reachable through Core. Nothing in this
// compiler looks method calls up through Core; it exists only because
// the original image format always carries it.
func (c *Compiler) bootstrapLexicon() {
	for _, op := range c.ops {
		c.lexicon--
		c.img.Cells[c.lexicon] = op.value
		c.lexicon--
		c.img.Cells[c.lexicon] = op.key
	}

	coreKey := c.intern(wordFromString("Core"))
	c.lexicon--
	c.img.Cells[c.lexicon] = uint32(len(c.ops))
	c.lexicon--
	c.img.Cells[c.lexicon] = coreKey
}
