package cmd

import (
	"errors"
	"io/fs"

	"github.com/cthulhuology/newscript/internal/device/network"
	"github.com/cthulhuology/newscript/internal/image"
)

// Exit codes, per spec.md §6.
const (
	exitOK          = 0
	exitNoRAM       = 1
	exitNoFile      = 2
	exitNoMap       = 3
	exitNoROM       = 4
	exitNoDisplay   = 5
	exitNoAudio     = 6
	exitNoNetDevice = 7
	exitNoNetAddr   = 8
	exitNoCapture   = 9
)

// errNoDisplay and errNoAudio wrap display.New/speaker.Init failures so
// exitCodeFor can classify them without those packages needing their own
// exported sentinels.
var (
	errNoDisplay = errors.New("ns: could not initialize display device")
	errNoAudio   = errors.New("ns: could not initialize audio device")
)

// exitCodeFor classifies a boot-time failure from any of image.Open,
// network.Dial, display.New, or beep's speaker.Init into the process exit
// code spec.md §6 assigns it. Runtime opcode faults never reach here --
// spec.md §7 makes the image itself the sole source of safety once the
// fetch loop starts.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, image.ErrTooSmall):
		return exitNoROM
	case errors.Is(err, fs.ErrNotExist):
		return exitNoFile
	case errors.Is(err, network.ErrNoAddr):
		return exitNoNetAddr
	case errors.Is(err, network.ErrNoDevice):
		return exitNoNetDevice
	case errors.Is(err, errNoDisplay):
		return exitNoDisplay
	case errors.Is(err, errNoAudio):
		return exitNoAudio
	default:
		// image.Open's only other failure mode is the mmap call itself.
		return exitNoMap
	}
}
