// Package network implements the packet port: reads drain the most
// recently received datagram cell-by-cell, writes accumulate into an
// outgoing buffer flushed on demand, matching
// original_source/ns.c's net_read/net_write/net_read_callback/
// net_write_callback. See DESIGN.md for why this is a plain UDP socket
// rather than a raw-capture library.
package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cthulhuology/newscript/internal/vm"
)

// bufCells matches ns.c's NET_SIZE (4096 cells).
const bufCells = 4096

// Port is a vm.Port backed by a UDP socket.
type Port struct {
	conn *net.UDPConn
	peer *net.UDPAddr

	mu       sync.Mutex
	readBuf  []vm.Register
	readIdx  int
	writeBuf []vm.Register
}

// ErrNoAddr wraps a failure to resolve either the local or peer address
// passed to Dial.
var ErrNoAddr = errors.New("network: could not resolve address")

// ErrNoDevice wraps a failure to open the local UDP socket itself.
var ErrNoDevice = errors.New("network: could not open socket")

// Dial opens a UDP socket bound to localAddr (for receiving) and sending
// to peer, mirroring ns.c:network_init's promiscuous capture with a
// connectionless socket instead of libpcap.
func Dial(localAddr, peerAddr string) (*Port, error) {
	local, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoAddr, localAddr, err)
	}
	peer, err := net.ResolveUDPAddr("udp", peerAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoAddr, peerAddr, err)
	}
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	return &Port{conn: conn, peer: peer}, nil
}

func (p *Port) Close() error { return p.conn.Close() }

// ReadCell returns the next cell of the most recently received datagram,
// or 0 once it's been fully drained (nsc.c:net_read).
func (p *Port) ReadCell() vm.Register {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readIdx >= len(p.readBuf) {
		return 0
	}
	v := p.readBuf[p.readIdx]
	p.readIdx++
	return v
}

// WriteCell appends val to the outgoing buffer, wrapping at bufCells
// (nsc.c:net_write).
func (p *Port) WriteCell(val vm.Register) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.writeBuf) >= bufCells {
		p.writeBuf = p.writeBuf[:0]
	}
	p.writeBuf = append(p.writeBuf, val)
}

// Tick polls for one pending datagram, waiting at most one millisecond,
// replacing
// net_read_callback's synchronous pcap_next call.
func (p *Port) Tick(uint64) {
	buf := make([]byte, bufCells*4)
	_ = p.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	n, _, err := p.conn.ReadFromUDP(buf)
	if err != nil || n == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.readBuf = p.readBuf[:0]
	for i := 0; i+4 <= n; i += 4 {
		p.readBuf = append(p.readBuf, vm.Register(binary.LittleEndian.Uint32(buf[i:i+4])))
	}
	p.readIdx = 0
}

// Flush sends the accumulated outgoing buffer as one datagram to peer and
// resets it, matching net_write_callback's pcap_inject call. Writes never
// flush implicitly, and neither the VM nor cmd/ns calls Flush, so
// outgoing cells are sent only when the Port's owner calls it.
func (p *Port) Flush() error {
	p.mu.Lock()
	buf := make([]byte, len(p.writeBuf)*4)
	for i, c := range p.writeBuf {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(c))
	}
	p.writeBuf = p.writeBuf[:0]
	p.mu.Unlock()

	_, err := p.conn.WriteToUDP(buf, p.peer)
	return err
}

// PendingStatus reports bit 2 (network event pending) whenever a
// datagram is buffered and not yet fully drained.
func (p *Port) PendingStatus() vm.Register {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readIdx < len(p.readBuf) {
		return 0x4
	}
	return 0
}
