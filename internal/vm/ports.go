package vm

// Port is the capability interface spec.md §9 calls for: "devices are
// attached through a small capability trait (read_cell, write_cell,
// tick)". The VM never knows anything about a port's back-end beyond
// this interface -- display, audio, network, keyboard and mouse are all
// external collaborators per spec.md §1.
type Port interface {
	// ReadCell returns the next cell from this port. Output-only ports
	// return 0.
	ReadCell() Register
	// WriteCell writes a cell to this port. Input-only ports discard it.
	WriteCell(v Register)
	// Tick is called once per interrupt-pump cycle (spec.md §4.5) so a
	// port can drain host events into its own buffers. May no-op.
	Tick(ticks uint64)
}

// Port addresses, per spec.md §6, high to low. The range is
// 0x7FFFFFF9..0x7FFFFFFF inclusive -- seven addresses, the last two of
// which are always-reserved (read 0, write no-op).
const (
	PortNet   Register = 0x7fffffff
	PortVideo Register = 0x7ffffffe
	PortAudio Register = 0x7ffffffd
	PortMouse Register = 0x7ffffffc
	PortKey   Register = 0x7ffffffb
	portResv2 Register = 0x7ffffffa
	portResv1 Register = 0x7ffffff9
)

// numPorts is the width of the port address window.
const numPorts = int(PortNet - portResv1 + 1)

// portIndex maps a port address to its slot in VM.ports (0 = PortNet ..
// numPorts-1 = lowest reserved address), or false if addr is not a port
// address.
func portIndex(addr Register) (int, bool) {
	if addr < portResv1 || addr > PortNet {
		return 0, false
	}
	return int(PortNet - addr), true
}

// nopPort is the default back-end for any port address with nothing
// attached: reads return 0, writes are discarded, ticks are ignored.
// Matches spec.md §3's "Device reads return 0 for output-only ports;
// writes to input-only ports are no-ops" for a port that is neither.
type nopPort struct{}

func (nopPort) ReadCell() Register  { return 0 }
func (nopPort) WriteCell(Register)  {}
func (nopPort) Tick(uint64)         {}
