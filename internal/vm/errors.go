package vm

import "errors"

// Runtime faults are never raised as Go errors during the fetch loop --
// spec.md §7 is explicit that a VM image is the sole source of safety.
// errcode below exists purely so boot-time and host-resource failures
// (which *are* fatal) have somewhere to land.
var (
	errNoRAM        = errors.New("vm: could not reserve RAM segment")
	errNoFile       = errors.New("vm: could not open image file")
	errNoMap        = errors.New("vm: could not map image file")
	errNoROM        = errors.New("vm: image file too small for ROM")
	errNoDisplay    = errors.New("vm: could not initialize display device")
	errNoAudio      = errors.New("vm: could not initialize audio device")
	errNoNetDevice  = errors.New("vm: could not initialize network device")
	errNoNetAddr    = errors.New("vm: could not resolve network address")
	errNoCapture    = errors.New("vm: could not start packet capture")
)

// ExitCode maps a boot error to the process exit code specified in
// spec.md §6. Returns 0 for a nil error (success) and 3 for any
// unrecognized error reaching a boot path.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNoRAM):
		return 1
	case errors.Is(err, errNoFile):
		return 2
	case errors.Is(err, errNoMap):
		return 3
	case errors.Is(err, errNoROM):
		return 4
	case errors.Is(err, errNoDisplay):
		return 5
	case errors.Is(err, errNoAudio):
		return 6
	case errors.Is(err, errNoNetDevice):
		return 7
	case errors.Is(err, errNoNetAddr):
		return 8
	case errors.Is(err, errNoCapture):
		return 9
	default:
		return 3
	}
}
