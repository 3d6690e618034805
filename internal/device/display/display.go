// Package display implements the VGDD video port: a three-cell command
// buffer that drives a pixelgl window via imdraw primitives, matching
// original_source/ns.c's vid_write state machine.
package display

import (
	"math"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/cthulhuology/newscript/internal/vm"
)

const (
	width  = 1280
	height = 720
)

// command tags, per ns.c:vid_write's switch on video_command[0].
const (
	cmdClear = 0x0
	cmdAt    = 0x1
	cmdTo    = 0x2
	cmdBy    = 0x3
	cmdLine  = 0x4
	cmdArc   = 0x5
	cmdRect  = 0x6
	cmdColor = 0x7
	cmdFill  = 0x8
	cmdDraw  = 0x9
	cmdBlit  = 0xa
)

// Display is a vm.Port that interprets cells written to it as a VGDD
// command stream and draws into a pixelgl.Window.
type Display struct {
	Win *pixelgl.Window

	draw *imdraw.IMDraw

	// cmd buffers the 1-3 cells of the command currently being
	// assembled, mirroring ns.c's video_command/video_index.
	cmd [3]vm.Register
	idx int

	// x, y, dx, dy are the VGDD state machine's cursor position and
	// pending delta, per ns.c's x,y,dx,dy globals.
	x, y, dx, dy int32

	lineColor, fillColor vm.Register

	// onClose, once set via SetOnClose, is called the first time the
	// host window is observed closed, so the owning VM can stop its
	// fetch loop (spec.md §5, window-close behaves like power-off).
	onClose func()
	closed  bool
}

// New opens a width x height pixelgl window titled title.
func New(title string) (*Display, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, width, height),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, err
	}
	win.Clear(colornames.White)
	return &Display{Win: win, draw: imdraw.New(nil)}, nil
}

func (d *Display) ReadCell() vm.Register { return 0 }

// WriteCell appends val to the in-progress command, dispatching once the
// command's full cell count has arrived (ns.c:vid_write).
func (d *Display) WriteCell(val vm.Register) {
	d.idx %= 3
	d.cmd[d.idx] = val
	d.idx++

	switch d.cmd[0] {
	case cmdClear:
		if d.idx == 1 {
			d.clear()
		}
	case cmdAt:
		if d.idx == 3 {
			d.x = int32(d.cmd[1] & 0xffff)
			d.y = int32(d.cmd[2] & 0xffff)
			d.idx = 0
		}
	case cmdTo:
		if d.idx == 3 {
			d.x += int32(d.cmd[1] & 0xffff)
			d.y += int32(d.cmd[2] & 0xffff)
			d.idx = 0
		}
	case cmdBy:
		if d.idx == 3 {
			d.dx = int32(d.cmd[1] & 0xffff)
			d.dy = int32(d.cmd[2] & 0xffff)
			d.idx = 0
		}
	case cmdLine:
		if d.idx == 1 {
			d.line()
		}
	case cmdArc:
		if d.idx == 2 {
			d.arc(d.cmd[1] != 0)
		}
	case cmdRect:
		if d.idx == 1 {
			d.rect()
		}
	case cmdColor:
		if d.idx == 2 {
			d.lineColor = d.cmd[1]
			d.idx = 0
		}
	case cmdFill:
		if d.idx == 2 {
			d.fillColor = d.cmd[1]
			d.idx = 0
		}
	case cmdDraw:
		if d.idx == 1 {
			d.x += d.dx
			d.y += d.dy
			d.idx = 0
		}
	case cmdBlit:
		if d.idx == 1 {
			d.idx = 0
		}
	}
}

func (d *Display) clear() {
	d.Win.Clear(colornames.White)
	d.idx = 0
}

func rgba(c vm.Register) pixel.RGBA {
	return pixel.RGBA{
		R: float64(c&0xff) / 255,
		G: float64((c>>8)&0xff) / 255,
		B: float64((c>>16)&0xff) / 255,
		A: float64((c>>24)&0xff) / 255,
	}
}

func (d *Display) line() {
	d.draw.Color = rgba(d.lineColor)
	d.draw.Push(pixel.V(float64(d.x), float64(d.y)), pixel.V(float64(d.x+d.dx), float64(d.y+d.dy)))
	d.draw.Line(1)
	d.x += d.dx
	d.y += d.dy
	d.idx = 0
}

// arc draws the tangential arc ns.c:vid_arc traces from (x,y) to
// (x+dx,y+dy), in one of two sweep directions selected by cw.
func (d *Display) arc(cw bool) {
	d.draw.Color = rgba(d.lineColor)
	dis := math.Hypot(float64(d.dx), float64(d.dy))
	if dis == 0 {
		d.idx = 0
		return
	}
	const tau = 355.0 / 226
	step := 355.0 / (113 * dis)
	x0, y0 := float64(d.x), float64(d.y)
	dx, dy := float64(d.dx), float64(d.dy)
	for t := 0.0; t < tau; t += step {
		var px, py float64
		if cw {
			px, py = x0+dx*math.Sin(t), y0+dy*(1-math.Cos(t))
		} else {
			px, py = x0+dx*(1-math.Sin(t)), y0+dy*math.Cos(t)
		}
		d.draw.Push(pixel.V(px, py))
	}
	d.draw.Line(1)
	d.x += d.dx
	d.y += d.dy
	d.idx = 0
}

func (d *Display) rect() {
	d.draw.Color = rgba(d.fillColor)
	d.draw.Push(
		pixel.V(float64(d.x), float64(d.y+d.dy)),
		pixel.V(float64(d.x+d.dx), float64(d.y+d.dy)),
		pixel.V(float64(d.x+d.dx), float64(d.y)),
		pixel.V(float64(d.x), float64(d.y)),
	)
	d.draw.Polygon(0)
	d.x += d.dx
	d.y += d.dy
	d.idx = 0
}

// CursorFrame draws a small diamond marker centered on the VGDD cursor's
// current position, implementing vm.CursorFramer. Adapted from
// ns.c:update()'s vid_frame pulse, which redrew a fixed debug-cursor
// shape anchored at the host mouse position every refresh tick; this
// marks the VGDD command stream's own drawing cursor instead, since
// ns.c's fixed geometry was tuned for one specific demo.
func (d *Display) CursorFrame() {
	const r = 10
	d.draw.Color = colornames.Yellow
	d.draw.Push(
		pixel.V(float64(d.x), float64(d.y+r)),
		pixel.V(float64(d.x+r), float64(d.y)),
		pixel.V(float64(d.x), float64(d.y-r)),
		pixel.V(float64(d.x-r), float64(d.y)),
	)
	d.draw.Polygon(1)
}

// Refresh flushes the accumulated primitives to the window and swaps
// buffers, implementing vm.Refresher for the interrupt pump's
// refresh-cadence hook (nsc.c's REFRESH_RATE tick, minus the bundled demo
// animation -- see DESIGN.md).
func (d *Display) Refresh() {
	d.draw.Draw(d.Win)
	d.draw = imdraw.New(nil)
	d.Win.Update()
}

// SetOnClose registers fn to be called once, the first tick after the
// host window reports itself closed (by the window manager, or by
// input.Keyboard's Escape handling).
func (d *Display) SetOnClose(fn func()) { d.onClose = fn }

func (d *Display) Tick(uint64) {
	if !d.closed && d.Win.Closed() && d.onClose != nil {
		d.closed = true
		d.onClose()
	}
}
