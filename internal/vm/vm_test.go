package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// pack encodes up to four opcodes into one packed instruction cell,
// LSB-first, matching spec.md §4.1.
func pack(ops ...Opcode) Register {
	var cell Register = 0x80000000
	for i, op := range ops {
		cell |= Register(op) << (8 * uint(i))
	}
	return cell
}

func newTestVM(t *testing.T, program ...Register) *VM {
	t.Helper()
	flash := make([]Register, RomCellsForTest)
	copy(flash, program)
	v, err := New(flash)
	require.NoError(t, err)
	return v
}

// RomCellsForTest mirrors image.RomCells without importing internal/image,
// keeping this package's tests free of the mmap-backed image format.
const RomCellsForTest = 4096

func TestLiteralPush(t *testing.T) {
	v := newTestVM(t, 42)
	require.True(t, v.Step())
	require.Equal(t, Register(42), v.Top())
}

func TestPackedArithmetic(t *testing.T) {
	// 3 4 + -> 7
	v := newTestVM(t, 3, 4, pack(OpAdd))
	require.True(t, v.Step()) // push 3
	require.True(t, v.Step()) // push 4
	require.True(t, v.Step()) // +
	require.Equal(t, Register(7), v.Top())
}

func TestMultiplyLeavesTosOverwritesNos(t *testing.T) {
	// ns.c's 0x97 stores the product into nos and leaves tos untouched.
	v := newTestVM(t, 6, 7, pack(OpMul))
	v.Step()
	v.Step()
	v.Step()
	require.Equal(t, Register(7), v.Top(), "tos must be left as-is")
	require.Equal(t, Register(42), v.nos(), "product lands in nos")
}

func TestDivModOrdering(t *testing.T) {
	// tos=3 (dividend "a"), nos=20 (divisor "b"): a=tos, b=nos, quotient=a/b, remainder=a%b
	v := newTestVM(t, 20, 3, pack(OpDivMod))
	v.Step()
	v.Step()
	v.Step()
	require.Equal(t, Register(0), v.Top(), "3/20 truncates to 0")
	require.Equal(t, Register(3), v.nos(), "3%20 == 3")
}

func TestPackedFourOpcodes(t *testing.T) {
	// push 0, push 1, +, dup -- all packed into one cell.
	v := newTestVM(t, pack(OpPush0, OpPush1, OpAdd, OpDup))
	require.True(t, v.Step())
	require.Equal(t, Register(1), v.Top())
	require.Equal(t, Register(1), v.nos())
}

func TestCallAndJumpRoundTrip(t *testing.T) {
	// cell 0: push target 3
	// cell 1: call                   -> jumps to cell 3, pushes return addr 2 on rstack
	// cell 2: (return lands here)
	// cell 3: push 7
	// cell 4: jump-back (.)          -> pops rstack, resumes at cell 2
	v := newTestVM(t,
		3, pack(OpCall), // cells 0-1: push call target 3, call
		0,               // cell 2: return address, not reached by this test
		7, pack(OpJump), // cells 3-4: push 7, jump back via return stack
	)

	require.True(t, v.Step()) // push 3
	require.True(t, v.Step()) // call -> ip=3, return addr (2) pushed
	require.True(t, v.Step()) // push 7 @ cell 3
	require.True(t, v.Step()) // jump (.) -> pops rstack, ip=2
	require.Equal(t, Register(7), v.Top())
	require.Equal(t, Register(2), v.ip)
}

func TestConditionalJumpTakenAndNotTaken(t *testing.T) {
	v := newTestVM(t)
	v.im[0] = 9 // flag (non-zero)
	v.im[1] = pack(OpPush1, OpCondJump)
	require.True(t, v.Step()) // push flag 9
	require.True(t, v.Step()) // push target 1, then ? with cond=9 (nos), target=1 (tos)

	// exec reads cond = nos() and target = tos(). With stack [..,9,1], nos=9
	// is read as cond (non-zero => taken) and tos=1 as jump target.
	require.Equal(t, Register(1), v.ip, "jump taken to tos value")

	v2 := newTestVM(t)
	v2.im[0] = 0 // cond = 0 -> not taken
	v2.im[1] = pack(OpPush0, OpCondJump)
	require.True(t, v2.Step()) // push 0 (cond)
	require.True(t, v2.Step()) // push 0 (the would-be target), "?" sees nos=0 -> not taken
	require.Equal(t, Register(2), v2.ip, "falls through to next cell when cond is zero")
}

func TestComparisonsAreNonConsuming(t *testing.T) {
	// ns.c's comparison opcodes push their boolean without popping either
	// operand (up() with no matching down()).
	v := newTestVM(t, 2, 3, pack(OpLess))
	v.Step()
	v.Step()
	v.Step()
	require.Equal(t, Register(0xffffffff), v.Top(), "2 < 3 is true")
	ds := v.DS()
	require.Equal(t, []Register{2, 3, 0xffffffff}, ds[5:], "both operands remain below the pushed flag")
}

func TestStoreLeavesValueOnStack(t *testing.T) {
	// mem_write(tos=addr, nos=value); down() drops only the address.
	v := newTestVM(t, 123, 0x1000, pack(OpStore))
	v.Step() // push 123 (value)
	v.Step() // push 0x1000 (addr)
	v.Step() // !
	require.Equal(t, Register(123), v.ram[0x1000])
	require.Equal(t, Register(123), v.Top(), "value remains on stack after store")
}

func TestPushNeg1AndUtlFetch(t *testing.T) {
	v := newTestVM(t, pack(OpPushNeg1, OpUtlFetch))
	v.Step()
	ds := v.DS()
	require.Equal(t, Register(0xffffffff), ds[len(ds)-2], "push -1 landed below the utl snapshot")
	require.Equal(t, v.utl, ds[len(ds)-1])
}

func TestDMAMoveForward(t *testing.T) {
	v := newTestVM(t)
	v.ram[0x2000] = 11
	v.ram[0x2001] = 22
	v.ram[0x2002] = 33
	v.src = 0x2000
	v.dst = 0x3000
	v.cnt = 3
	v.MemMove(1)
	require.Equal(t, Register(11), v.ram[0x3000])
	require.Equal(t, Register(22), v.ram[0x3001])
	require.Equal(t, Register(33), v.ram[0x3002])
	require.NotZero(t, v.utl&dmaDoneBit, "dma-complete bit set after move")
}

func TestDMAMoveBackwardAddressesTrailingWindow(t *testing.T) {
	v := newTestVM(t)
	v.ram[0x2000] = 1
	v.ram[0x2001] = 2
	v.ram[0x2002] = 3
	// direction -1 copies the cnt-cell window *ending* at src/dst.
	v.src = 0x2003
	v.dst = 0x3003
	v.cnt = 3
	v.MemMove(-1)
	require.Equal(t, Register(1), v.ram[0x3000])
	require.Equal(t, Register(2), v.ram[0x3001])
	require.Equal(t, Register(3), v.ram[0x3002])
}

func TestDMACompare(t *testing.T) {
	v := newTestVM(t)
	v.ram[0x2000], v.ram[0x2001] = 5, 5
	v.ram[0x3000], v.ram[0x3001] = 5, 9
	v.src, v.dst, v.cnt = 0x2000, 0x3000, 2
	v.MemCmp()
	require.Equal(t, uint32(0xffffffff), v.cnt, "memcmp-style negative result for a < b")
}

type fakePort struct {
	reads  []Register
	writes []Register
}

func (p *fakePort) ReadCell() Register {
	if len(p.reads) == 0 {
		return 0
	}
	c := p.reads[0]
	p.reads = p.reads[1:]
	return c
}
func (p *fakePort) WriteCell(c Register) { p.writes = append(p.writes, c) }
func (p *fakePort) Tick(uint64)          {}

func TestDMADeviceReadStreamsToStack(t *testing.T) {
	net := &fakePort{reads: []Register{7, 8, 9}}
	var ports [numPorts]Port
	ports[0] = net // PortNet is slot 0
	flash := make([]Register, RomCellsForTest)
	v, err := New(flash, WithPorts(ports))
	require.NoError(t, err)

	v.src = PortNet
	v.dst = 0x3000 // real memory, so only !srcOK branch triggers
	v.cnt = 3
	v.MemMove(1)
	ds := v.DS()
	require.Equal(t, []Register{7, 8, 9}, ds[len(ds)-3:])
}

func TestDMADeviceWriteStreamsFromMemory(t *testing.T) {
	video := &fakePort{}
	var ports [numPorts]Port
	ports[1] = video // PortVideo is slot 1
	flash := make([]Register, RomCellsForTest)
	v, err := New(flash, WithPorts(ports))
	require.NoError(t, err)

	v.ram[0x2000], v.ram[0x2001] = 111, 222
	v.src = 0x2000
	v.dst = PortVideo
	v.cnt = 2
	v.MemMove(1)
	require.Equal(t, []Register{111, 222}, video.writes)
}

func TestHaltSentinel(t *testing.T) {
	v := newTestVM(t)
	v.Halt()
	require.ErrorIs(t, v.Err(), ErrHalt)
	require.False(t, v.Step(), "halted VM must not step further")
}
