package input

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/cthulhuology/newscript/internal/vm"
)

// Keyboard is a vm.Port backed by a pixelgl.Window's key events: reads
// return the most recently pressed key's Firth code, latched until the
// next press (nsc.c's key_buffer/key_read -- there is no "key released"
// event on this port, only "last key seen").
type Keyboard struct {
	win *pixelgl.Window
	buf vm.Register
}

// NewKeyboard returns a Keyboard polling win.
func NewKeyboard(win *pixelgl.Window) *Keyboard {
	return &Keyboard{win: win}
}

func (k *Keyboard) ReadCell() vm.Register { return k.buf }
func (k *Keyboard) WriteCell(vm.Register) {}

// Tick polls the window's just-pressed keys once per interrupt cycle and
// latches the first match found into the buffer. Escape closes the
// window (spec.md §5, "Escape key is treated as quit where implemented"),
// checked ahead of the ordinary key table since it never needs latching.
func (k *Keyboard) Tick(uint64) {
	if k.win.JustPressed(pixelgl.KeyEscape) {
		k.win.SetClosed(true)
		return
	}

	shift := k.win.Pressed(pixelgl.KeyLeftShift) || k.win.Pressed(pixelgl.KeyRightShift)
	for _, e := range table {
		if k.win.JustPressed(e.key) {
			if shift {
				k.buf = vm.Register(0x30 + e.firth)
			} else {
				k.buf = vm.Register(e.firth)
			}
			return
		}
	}
	metaKeys := []pixelgl.Button{
		pixelgl.KeyEnter, pixelgl.KeyTab, pixelgl.KeyBackspace,
		pixelgl.KeyLeftSuper, pixelgl.KeyRightSuper,
		pixelgl.KeyLeftAlt, pixelgl.KeyRightAlt,
		pixelgl.KeyLeftControl, pixelgl.KeyRightControl,
	}
	for _, mk := range metaKeys {
		if k.win.JustPressed(mk) {
			if code, ok := metaFirth(mk); ok {
				k.buf = vm.Register(code)
				return
			}
		}
	}
}

// PendingStatus reports bit 0 (key event pending) whenever any tracked
// key transitioned to pressed this frame, implementing vm.StatusReporter
// for the interrupt pump's utl low-nibble bits (nsc.c:interrupt).
func (k *Keyboard) PendingStatus() vm.Register {
	for _, e := range table {
		if k.win.JustPressed(e.key) {
			return 0x1
		}
	}
	return 0
}
