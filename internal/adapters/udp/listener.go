package udp

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/bft-labs/posebridge/internal/ports"
)

// Listener opens discovery sockets bound to Addr.
type Listener struct {
	// Addr is the local bind address. Empty means any address, ephemeral port.
	Addr string
}

// NewListener creates a Listener bound to an ephemeral port.
func NewListener() *Listener {
	return &Listener{}
}

// ListenPacket opens an IPv4 UDP socket.
func (l *Listener) ListenPacket(ctx context.Context) (ports.PacketConn, error) {
	addr := l.Addr
	if addr == "" {
		addr = ":0"
	}

	lc := net.ListenConfig{Control: control}
	pc, err := lc.ListenPacket(ctx, "udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &packetConn{conn: pc.(*net.UDPConn)}, nil
}

// packetConn adapts *net.UDPConn to ports.PacketConn.
type packetConn struct {
	conn *net.UDPConn
}

func (c *packetConn) WriteTo(b []byte, addr netip.AddrPort) (int, error) {
	return c.conn.WriteToUDPAddrPort(b, addr)
}

// ReadFrom returns an error wrapping os.ErrDeadlineExceeded on timeout.
func (c *packetConn) ReadFrom(b []byte, timeout time.Duration) (int, netip.AddrPort, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, netip.AddrPort{}, err
	}
	n, from, err := c.conn.ReadFromUDPAddrPort(b)
	if err != nil {
		return 0, netip.AddrPort{}, err
	}
	return n, netip.AddrPortFrom(from.Addr().Unmap(), from.Port()), nil
}

func (c *packetConn) Close() error {
	return c.conn.Close()
}

