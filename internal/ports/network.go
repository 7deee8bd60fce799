package ports

import (
	"context"
	"io"
	"net/netip"
	"time"

	"github.com/bft-labs/posebridge/internal/domain"
)

// PacketConn is an unconnected UDP socket owned by the discovery worker.
type PacketConn interface {
	// WriteTo sends one datagram to addr.
	WriteTo(b []byte, addr netip.AddrPort) (int, error)

	// ReadFrom waits up to timeout for one datagram. Implementations return
	// an error satisfying os.ErrDeadlineExceeded on timeout.
	ReadFrom(b []byte, timeout time.Duration) (int, netip.AddrPort, error)

	// Close releases the socket.
	Close() error
}

// PacketListener opens discovery sockets.
type PacketListener interface {
	ListenPacket(ctx context.Context) (PacketConn, error)
}

// LocalAddrResolver determines which local IPv4 address the OS would use
// for outbound traffic.
type LocalAddrResolver interface {
	LocalAddr(ctx context.Context) (netip.Addr, error)
}

// Connection is a connected UDP association to the tracking server.
// Each Write sends exactly one datagram.
type Connection interface {
	io.WriteCloser
}

// Dialer opens streaming connections.
type Dialer interface {
	Dial(ctx context.Context, endpoint domain.Endpoint) (Connection, error)
}

// MulticastPermission is a platform capability that must be held for the
// OS to deliver broadcast and multicast datagrams (e.g. a Wi-Fi multicast
// lock on mobile). Most platforms need nothing.
type MulticastPermission interface {
	Acquire() error
	Release() error
}
