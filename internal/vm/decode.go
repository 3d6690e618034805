package vm

// Step fetches and fully executes one instruction memory cell: either a
// single literal push, or a pack of up to four opcodes decoded LSB-first
// (spec.md §4.1), matching original_source/ns.c's go() -- one call to
// update() (here, onTick) per cell fetched, not per opcode executed.
//
// It returns false once the fetch loop has stopped (Err() explains why);
// Run calls Step in a loop until that happens.
func (v *VM) Step() bool {
	if v.errcode != nil {
		return false
	}

	v.onTick()
	if v.errcode != nil {
		return false
	}

	v.ip &= imMask
	cell := v.im[v.ip]
	v.ip++

	if cell&0x80000000 == 0 {
		v.push(cell)
		return true
	}

	instr := cell
	for {
		if v.exec(Opcode(instr & 0xff)) {
			// A control-transfer opcode set v.ip directly; abandon
			// the rest of this pack, matching ns.c's `goto fetch`.
			break
		}
		instr >>= 8
		if instr == 0 {
			break
		}
	}
	return v.errcode == nil
}

// Run steps the machine until the fetch loop halts, either voluntarily
// (ErrHalt) or because a device requested it via Halt. It returns the
// final error, which is ErrHalt on a clean stop.
func (v *VM) Run() error {
	for v.Step() {
	}
	return v.errcode
}

// exec executes a single unpacked opcode byte and reports whether it
// transferred control (call/jump/conditional jump), in which case the
// caller must stop decoding the rest of the current pack.
func (v *VM) exec(op Opcode) bool {
	switch op {
	case OpNop:
		// no-op
	case OpCall:
		target := v.top()
		v.dropTop()
		v.pushR(v.ip)
		v.ip = target
		return true
	case OpDrop:
		v.dropTop()
	case OpNip:
		v.setNos(v.top())
		v.dropTop()
	case OpToR:
		v.pushR(v.top())
		v.dropTop()
	case OpNot:
		v.setTop(^v.top())
	case OpAnd:
		v.setNos(v.top() & v.nos())
		v.dropTop()
	case OpOr:
		v.setNos(v.top() | v.nos())
		v.dropTop()
	case OpXor:
		v.setNos(v.top() ^ v.nos())
		v.dropTop()
	case OpFetch:
		v.setTop(v.MemRead(v.top()))
	case OpLess:
		v.setBoolean(v.nos() < v.top())
	case OpEqual:
		v.setBoolean(v.nos() == v.top())
	case OpShl1:
		v.setTop(v.top() << 1)
	case OpShl8:
		v.setTop(v.top() << 8)
	case OpPush0:
		v.push(0)
	case OpPush1:
		v.push(1)
	case OpJump:
		v.ip = v.topR()
		v.popR()
		return true
	case OpCondJump:
		// original_source/ns.c's literal 0x91 case has an unreachable
		// branch after an un-braced if/goto, which would make a
		// conditional jump never jump; the intended (and only
		// coherent) semantics, matching a standard Forth-style
		// `flag addr ?`, are: pop flag (nos) and addr (tos); jump to
		// addr when flag is non-zero, otherwise fall through.
		cond := v.nos()
		target := v.top()
		v.dropTop()
		v.dropTop()
		if cond != 0 {
			v.ip = target
			return true
		}
	case OpDup:
		v.push(v.top())
	case OpOver:
		v.push(v.nos())
	case OpRFrom:
		v.push(v.topR())
		v.popR()
	case OpNeg:
		v.setTop(uint32(-int32(v.top())))
	case OpAdd:
		v.setNos(v.top() + v.nos())
		v.dropTop()
	case OpMul:
		// Deliberately does not drop tos, matching ns.c's 0x97: the
		// product replaces nos, tos is left as-is.
		v.setNos(uint32(int32(v.top()) * int32(v.nos())))
	case OpDivMod:
		a := int32(v.top())
		b := int32(v.nos())
		v.setTop(uint32(a / b))
		v.setNos(uint32(a % b))
	case OpStore:
		addr := v.top()
		value := v.nos()
		v.MemWrite(addr, value)
		v.dropTop()
	case OpGreater:
		v.setBoolean(v.nos() > v.top())
	case OpUnequal:
		v.setBoolean(v.nos() != v.top())
	case OpShr1:
		v.setTop(v.top() >> 1)
	case OpShr8:
		v.setTop(v.top() >> 8)
	case OpUtlFetch:
		v.push(v.utl)
	case OpPushNeg1:
		v.push(0xffffffff)
	case OpDMADown:
		v.MemMove(-1)
	case OpCntFetch:
		v.push(v.cnt)
	case OpSrcFetch:
		v.push(v.src)
	case OpDstFetch:
		v.push(v.dst)
	case OpCmp:
		v.MemCmp()
	case OpCntInc:
		v.cnt++
	case OpSrcRead:
		v.push(0)
		v.setTop(v.MemRead(v.src))
		v.src++
	case OpDstWrite:
		v.MemWrite(v.dst, v.top())
		v.dst++
	case OpDMAUp:
		v.MemMove(1)
	case OpCntStore:
		v.cnt = v.top()
	case OpSrcStore:
		v.src = v.top()
	case OpDstStore:
		v.dst = v.top()
	}
	return false
}

// setBoolean pushes a Forth-style all-bits boolean (-1 true, 0 false) on
// top of the stack. Matches ns.c's comparison opcodes, which push their
// result via up() without popping either operand first.
func (v *VM) setBoolean(cond bool) {
	if cond {
		v.push(0xffffffff)
	} else {
		v.push(0)
	}
}
