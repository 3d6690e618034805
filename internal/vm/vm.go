// Package vm implements the NewScript VM core: the decoder/ALU loop, the
// dual-stack execution model, the memory map (ROM/RAM/IM/flash/ports), and
// the DMA engine. Grounded on KTStephano-GVM/vm's struct-and-switch-loop
// shape; the decode table and addressing semantics themselves come from
// spec.md §4 and original_source/ns.c's go()/mem_read/mem_write/mem_move.
package vm

import (
	"log/slog"
)

// Register is a single 32-bit VM cell. Aliased rather than newtype'd so
// arithmetic on it needs no casts, matching KTStephano-GVM/vm/vm.go's
// `type register = uint32`.
type Register = uint32

const (
	ramBase    Register = 0x1000
	portBase   Register = 0x7fffFFF9
	flashHigh  Register = 0x80000000
	imMask     Register = 0x0fff
	dmaDoneBit Register = 0x08
)

// VM holds every piece of mutable state a NewScript machine has: the two
// stacks, the DMA registers, the four memory regions (ROM, IM, RAM, flash),
// and the port table.
// There is exactly one of these per running machine; nothing here is
// process-global, unlike original_source/ns.c.
type VM struct {
	ip Register

	ds  [8]Register
	dsi uint8

	rs  [8]Register
	rsi uint8

	cnt, src, dst, utl Register

	rom [4096]Register // read-only after boot
	im  [4096]Register // executable + DMA-writable
	ram []Register      // 0x1000 .. 0x7ffffff8
	fla []Register      // flash image, index = addr & 0x7fffffff

	ports [numPorts]Port // indexed by portIndex(addr)

	ticks    uint64
	interval InterruptInterval

	// errcode records why the fetch loop stopped; nil means "still
	// running". ip wraps within instruction memory, so the loop has no
	// end-of-program stop. Runtime opcode faults never populate this
	// (spec.md §7) -- only Halt does.
	errcode error

	log *slog.Logger
}

// ErrHalt is the sentinel a device (or any other caller) requests by
// calling (*VM).Halt. It is the only way the fetch loop stops; ip wraps
// within IM rather than running off its end.
var ErrHalt = newHaltError()

type haltError struct{}

func newHaltError() error { return haltError{} }
func (haltError) Error() string { return "vm: halted" }

// InterruptInterval configures the tick periods for the interrupt pump and
// the display refresh (spec.md §4.5).
type InterruptInterval struct {
	// Events is how many fetch cycles elapse between host-event pumps.
	// Defaults to 10kHz-equivalent (spec.md default: every 100 ticks at a
	// nominal 1MHz fetch rate -- here simply "every N fetches").
	Events uint64
	// Refresh is how many fetch cycles elapse between display refreshes.
	Refresh uint64
}

// DefaultInterruptInterval matches spec.md §4.5's defaults (~10kHz events,
// ~1Hz refresh), expressed as fetch-cycle counts the way
// original_source/ns.c's INTERRUPT_RATE/REFRESH_RATE do.
var DefaultInterruptInterval = InterruptInterval{
	Events:  10000,
	Refresh: 1000000,
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithPorts attaches device back-ends to the seven port addresses
// (0x7FFFFFF9..0x7FFFFFFF), in descending address order: net, video, audio,
// mouse, key, and two reserved ports. A nil entry is replaced with a
// no-op port.
func WithPorts(ports [numPorts]Port) Option {
	return func(v *VM) {
		for i, p := range ports {
			if p == nil {
				p = nopPort{}
			}
			v.ports[i] = p
		}
	}
}

// WithInterruptInterval overrides the default tick periods.
func WithInterruptInterval(interval InterruptInterval) Option {
	return func(v *VM) { v.interval = interval }
}

// WithLogger stores a structured logger on the VM. Defaults to
// slog.Default(). No code in this package writes to it.
func WithLogger(log *slog.Logger) Option {
	return func(v *VM) { v.log = log }
}

// ramCells is the number of addressable RAM cells: spec.md's RAM range is
// 0x1000..0x7FFFFFF8 inclusive, addressed directly (not offset from
// ramBase) so that a RAM address can be used as a slice index without
// translation -- mirrors ns.c's flat `ram[addr]` indexing.
const ramCells = 0x7ffffff9

// New constructs a VM over an already-open flash image (its first RomCells
// cells become both ROM and the initial contents of instruction memory,
// per spec.md §4.4) and wires up the given ports.
func New(flash []Register, opts ...Option) (*VM, error) {
	if len(flash) < len(VM{}.rom) {
		return nil, errNoROM
	}

	v := &VM{
		ram:      make([]Register, ramCells),
		fla:      flash,
		interval: DefaultInterruptInterval,
		log:      slog.Default(),
	}
	for i := range v.ports {
		v.ports[i] = nopPort{}
	}

	copy(v.rom[:], flash[:len(v.rom)])
	copy(v.im[:], flash[:len(v.im)])

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Halt requests that the fetch loop stop after the current instruction.
// Safe to call from a Port's Tick callback.
func (v *VM) Halt() { v.errcode = ErrHalt }

// Err returns the reason the fetch loop most recently stopped, or nil if
// it is still running (or hasn't run yet).
func (v *VM) Err() error { return v.errcode }

// UTL returns the current value of the status/utility register, primarily
// for tests and debug tooling.
func (v *VM) UTL() Register { return v.utl }

// DS returns a snapshot of the data stack's logical contents, oldest first,
// for debugging/testing; it does not reflect wraparound history.
func (v *VM) DS() []Register {
	out := make([]Register, 0, 8)
	for i := 0; i < 8; i++ {
		out = append(out, v.ds[(int(v.dsi)+1+i)&7])
	}
	return out
}

// Top returns the current top of the data stack.
func (v *VM) Top() Register { return v.ds[v.dsi] }

func (v *VM) push(c Register) {
	v.dsi = (v.dsi + 1) & 7
	v.ds[v.dsi] = c
}

func (v *VM) pop() Register {
	c := v.ds[v.dsi]
	v.dsi = (v.dsi - 1) & 7
	return c
}

func (v *VM) top() Register { return v.ds[v.dsi] }
func (v *VM) nos() Register { return v.ds[(v.dsi-1)&7] }

func (v *VM) setTop(c Register)  { v.ds[v.dsi] = c }
func (v *VM) setNos(c Register)  { v.ds[(v.dsi-1)&7] = c }
func (v *VM) dropTop()           { v.dsi = (v.dsi - 1) & 7 }

func (v *VM) pushR(c Register) {
	v.rsi = (v.rsi + 1) & 7
	v.rs[v.rsi] = c
}

func (v *VM) popR() Register {
	c := v.rs[v.rsi]
	v.rsi = (v.rsi - 1) & 7
	return c
}

func (v *VM) topR() Register { return v.rs[v.rsi] }
