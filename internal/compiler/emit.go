package compiler

import "github.com/cthulhuology/newscript/internal/vm"

// emitByte compiles one opcode byte into the current instruction cell's
// current slot, advancing to the next cell every four bytes
// (nsc.c:byte).
func (c *Compiler) emitByte(b byte) {
	c.img.Cells[c.instr] |= uint32(b) << (8 * c.slot)
	c.slot++
	c.slot &= 3
	if c.slot == 0 {
		c.instr++
	}
}

// pad fills the remainder of the current instruction cell with nops so
// the next thing compiled starts on a fresh cell boundary (nsc.c:pad).
// Needed before compiling a literal or a call target, both of which
// occupy a whole cell rather than a packed byte slot.
func (c *Compiler) pad() {
	for c.slot != 0 {
		c.emitByte(byte(vm.OpNop))
	}
}

// function compiles a call to the method at addr: a literal cell holding
// the target address, immediately followed by the call opcode
// (nsc.c:function).
func (c *Compiler) function(addr uint32) {
	c.pad()
	c.img.Cells[c.instr] = addr
	c.instr++
	c.emitByte(byte(vm.OpCall))
}

// literal compiles the current word's numeric value as a literal cell.
// Negative values (high bit set) are stored with the sign bit cleared and
// followed by a negate opcode, since a literal cell's high bit is reserved
// to distinguish it from a packed instruction cell (nsc.c:literal).
//
// A value of exactly 0x80000000 loses its sign bit under `-number &
// 0x7fffffff` (which computes to 0, not a value a negate can restore) --
// preserved here exactly as nsc.c computes it, not special-cased.
func (c *Compiler) literal() {
	c.pad()
	n := c.number
	if n&0x80000000 != 0 {
		c.img.Cells[c.instr] = (-n) & 0x7fffffff
	} else {
		c.img.Cells[c.instr] = n & 0x7fffffff
	}
	c.instr++
	if n&0x80000000 != 0 {
		c.emitByte(byte(vm.OpNeg))
	}
}
