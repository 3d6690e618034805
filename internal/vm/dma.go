package vm

// addrSlice resolves addr to an in-process memory slice and index, per the
// same rules mem_read/mem_write use, except that a port address never
// resolves (ok=false), matching original_source/ns.c's
// memory_source_address/memory_destination_address: both functions return
// NULL for any port address.
//
// forDest distinguishes which of the two original functions to emulate:
// false resolves addr < 0x1000 to ROM (source/read role, as
// memory_source_address does); true resolves it to IM (destination/write
// role, as memory_destination_address does). This is also where the
// REDESIGN FLAGS §9 "src < 0x1000 vs dst < 0x1000 typo" is structurally
// impossible to reintroduce: mem_move always calls this once for v.src
// with forDest=false and once for v.dst with forDest=true.
func (v *VM) addrSlice(addr Register, forDest bool) (mem []Register, idx int, ok bool) {
	switch {
	case addr&flashHigh != 0:
		return v.fla, int(flashIndex(addr)), true
	case addr < imMask+1:
		if forDest {
			return v.im[:], int(addr), true
		}
		return v.rom[:], int(addr), true
	default:
		if _, isPort := portIndex(addr); isPort {
			return nil, 0, false
		}
		return v.ram, int(addr), true
	}
}

// MemMove implements the DMA block-transfer engine (spec.md §4.3). When
// both src and dst resolve to real memory, it performs a safe (overlap-
// tolerant) cnt-cell copy; direction +1 copies the block starting at
// src/dst, direction -1 copies the block ending at src/dst. When only src
// is a port, cnt cells are read from it onto the data stack; when only dst
// is a port, cnt cells starting at src are written to it. When both are
// ports, nothing is moved.
func (v *VM) MemMove(direction int) {
	v.utl &^= dmaDoneBit

	srcMem, srcIdx, srcOK := v.addrSlice(v.src, false)
	dstMem, dstIdx, dstOK := v.addrSlice(v.dst, true)
	cnt := int(v.cnt)

	switch {
	case srcOK && dstOK:
		copyCells(dstMem, dstIdx, srcMem, srcIdx, cnt, direction)
	case !srcOK && !dstOK:
		// Both endpoints are ports: no-op.
	case !srcOK:
		// Source is a port: stream cnt cells from it onto the data
		// stack. Callers must keep cnt within the 8-cell stack depth
		// (spec.md §4.3).
		if idx, ok := portIndex(v.src); ok {
			for i := 0; i < cnt; i++ {
				v.push(v.ports[idx].ReadCell())
			}
		}
	default: // destination is a port
		if idx, ok := portIndex(v.dst); ok {
			for i := 0; i < cnt; i++ {
				v.ports[idx].WriteCell(srcMem[srcIdx+i])
			}
		}
	}

	v.utl |= dmaDoneBit
}

// copyCells moves cnt cells from src[srcIdx:] to dst[dstIdx:]. direction<0
// addresses the cnt-cell window ending at the given indices (descending
// copy); direction>=0 addresses the window starting at them (ascending
// copy). Go's builtin copy is memmove-safe for overlapping slices in
// either case, so only the addressed window differs by direction.
func copyCells(dst []Register, dstIdx int, src []Register, srcIdx int, cnt int, direction int) {
	if cnt <= 0 {
		return
	}
	if direction < 0 {
		copy(dst[dstIdx-cnt:dstIdx], src[srcIdx-cnt:srcIdx])
	} else {
		copy(dst[dstIdx:dstIdx+cnt], src[srcIdx:srcIdx+cnt])
	}
}

// MemCmp implements spec.md §4.3's mem_cmp: resolves both src and dst as
// memory only (never ports -- "device comparison is unsupported and
// silently yields 0"), and overwrites cnt with memcmp(src, dst, cnt
// cells)'s three-way result.
func (v *VM) MemCmp() {
	v.utl &^= dmaDoneBit

	srcMem, srcIdx, srcOK := v.addrSlice(v.src, false)
	dstMem, dstIdx, dstOK := v.addrSlice(v.dst, true)

	if srcOK && dstOK {
		v.cnt = uint32(int32(memcmpCells(srcMem[srcIdx:], dstMem[dstIdx:], int(v.cnt))))
	} else {
		// Either side is a port: the comparison reports "equal".
		v.cnt = 0
	}

	v.utl |= dmaDoneBit
}

// memcmpCells compares up to n cells of a and b, returning a negative,
// zero, or positive value the way C's memcmp does on the first differing
// cell.
func memcmpCells(a, b []Register, n int) int {
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
