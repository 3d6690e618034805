package input

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/cthulhuology/newscript/internal/vm"
)

// Mouse is a vm.Port backed by a pixelgl.Window's cursor position and
// button state: reads cycle through a 3-cell buffer (button, x, y),
// matching nsc.c's mouse_buffer/mouse_read cyclic read.
type Mouse struct {
	win *pixelgl.Window
	buf [3]vm.Register
	idx int
}

// NewMouse returns a Mouse polling win.
func NewMouse(win *pixelgl.Window) *Mouse {
	return &Mouse{win: win}
}

// ReadCell returns the next of the three buffered cells, cycling back to
// 0 after the third (nsc.c:mouse_read).
func (m *Mouse) ReadCell() vm.Register {
	v := m.buf[m.idx]
	m.idx = (m.idx + 1) % 3
	return v
}

func (m *Mouse) WriteCell(vm.Register) {}

// Tick refreshes the buffer from the window's current pointer position
// and button state.
func (m *Mouse) Tick(uint64) {
	pos := m.win.MousePosition()
	var button vm.Register
	if m.win.Pressed(pixelgl.MouseButtonLeft) {
		button = 1
	}
	m.buf = [3]vm.Register{button, vm.Register(int32(pos.X)), vm.Register(int32(pos.Y))}
}

// PendingStatus reports bit 1 (mouse event pending) whenever the pointer
// moved or a button changed since the last tick.
func (m *Mouse) PendingStatus() vm.Register {
	if m.win.JustPressed(pixelgl.MouseButtonLeft) || m.win.JustReleased(pixelgl.MouseButtonLeft) ||
		m.win.MousePosition() != m.win.MousePreviousPosition() {
		return 0x2
	}
	return 0
}
