package vm

// StatusReporter lets a port contribute event-activity bits to the utl
// status register (spec.md §4.5) without widening the base Port
// interface every back-end has to implement. Only the key/mouse/network
// ports are expected to implement it; a port that doesn't is simply
// assumed quiet.
type StatusReporter interface {
	// PendingStatus returns the bits this port wants ORed into utl on
	// the next event pump: bit 0 keyboard activity, bit 1 mouse
	// activity, bit 2 network activity, matching
	// original_source/ns.c's interrupt().
	PendingStatus() Register
}

// Refresher lets a port do periodic work on the slower display-refresh
// cadence (spec.md §4.5's ~1Hz-equivalent tick), e.g. swapping a
// double-buffered frame or resetting a command-stream cursor. Grounded on
// original_source/ns.c's update(), which performs its display work once
// per REFRESH_RATE ticks rather than every fetch.
type Refresher interface {
	Refresh()
}

// CursorFramer lets the video port draw its own periodic cursor pulse once
// per refresh tick, before the frame is handed to Refresh. Adapted from
// original_source/ns.c's update(), which DMA-copied a fixed vid_frame cell
// sequence to the video port anchored at the current mouse position every
// REFRESH_RATE ticks; that exact geometry was a hand-tuned debug cursor
// for one specific demo, so here the video port owns and draws its own
// cursor shape instead of the VM replaying a hardcoded command table.
type CursorFramer interface {
	CursorFrame()
}

// onTick advances the system clock by one fetch cycle and drives the two
// periodic pumps spec.md §4.5 describes. It is called once per Step, the
// same granularity as original_source/ns.c's update() being called once
// per cell fetched.
func (v *VM) onTick() {
	v.ticks++

	if v.interval.Events != 0 && v.ticks%v.interval.Events == 0 {
		for i := range v.ports {
			v.ports[i].Tick(v.ticks)
		}
		v.pumpEvents()
	}
	if v.interval.Refresh != 0 && v.ticks%v.interval.Refresh == 0 {
		v.pumpRefresh()
	}
}

// pumpEvents clears the low status nibble and rebuilds it from whichever
// ports report pending activity, matching ns.c's `utl &= 0xfffffff0`
// followed by per-event-type `utl |= ...`.
func (v *VM) pumpEvents() {
	v.utl &^= 0x0f
	for _, p := range v.ports {
		if sr, ok := p.(StatusReporter); ok {
			v.utl |= sr.PendingStatus() & 0x0f
		}
	}
}

// pumpRefresh signals every Refresher-capable port that a display-refresh
// interval has elapsed, giving CursorFramer ports a chance to draw their
// pulse first so it lands in the same frame Refresh hands to the screen.
func (v *VM) pumpRefresh() {
	for _, p := range v.ports {
		if c, ok := p.(CursorFramer); ok {
			c.CursorFrame()
		}
		if r, ok := p.(Refresher); ok {
			r.Refresh()
		}
	}
}
