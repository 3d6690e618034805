// Package audio implements the PCM audio port: a 44100-cell ring buffer
// fed by VM writes and drained by a beep.Streamer, matching
// original_source/ns.c's audio_memory/aud_write/audio_callback.
package audio

import (
	"sync"

	"github.com/faiface/beep"

	"github.com/cthulhuology/newscript/internal/vm"
)

// SampleRate matches ns.c's fixed 44100Hz audio_init spec.
const SampleRate = 44100

// bufCells matches audio_memory[44100]'s one-second buffer.
const bufCells = 44100

// Port is a vm.Port and a beep.Streamer: the VM writes PCM cells into it,
// beep's speaker goroutine drains them via Stream.
type Port struct {
	mu     sync.Mutex
	buf    [bufCells]vm.Register
	index  int // next write position
	cursor int // next read position for the streamer
}

// New returns an empty ring-buffer Port.
func New() *Port {
	return &Port{}
}

func (p *Port) ReadCell() vm.Register { return 0 }

// WriteCell appends one cell to the ring buffer (nsc.c:aud_write, which
// either appends a single cell or copies a whole DMA block depending on
// the status register -- the DMA engine already reduces both cases to a
// per-cell WriteCell loop by the time it reaches a port, so this method
// only ever needs to handle one cell at a time).
func (p *Port) WriteCell(v vm.Register) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf[p.index%bufCells] = v
	p.index++
}

func (p *Port) Tick(uint64) {}

// Stream implements beep.Streamer, draining buffered cells as 16-bit
// stereo PCM samples normalized to beep's [-1,1] float range.
func (p *Port) Stream(samples [][2]float64) (n int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for n = 0; n < len(samples); n++ {
		if p.cursor >= p.index {
			break
		}
		cell := p.buf[p.cursor%bufCells]
		p.cursor++
		left := int16(cell & 0xffff)
		right := int16((cell >> 16) & 0xffff)
		samples[n][0] = float64(left) / 32768
		samples[n][1] = float64(right) / 32768
	}
	return n, n > 0 || p.cursor < p.index
}

func (p *Port) Err() error { return nil }

var _ beep.Streamer = (*Port)(nil)
