package app

import (
	"context"
	"errors"
	"net/netip"
	"os"
	"sync"
	"time"

	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// reply is a datagram queued on a fakeConn.
type reply struct {
	from    netip.AddrPort
	payload []byte
}

// fakeConn implements ports.PacketConn. Replies are released only after a
// full sweep has been written, mirroring a real server answering probes.
type fakeConn struct {
	mu      sync.Mutex
	writes  []netip.AddrPort
	probes  [][]byte
	replies []reply
	// replyAfterSweep delays replies until this many sweeps have completed.
	replyAfterSweep int
	sweepSize       int
	writeErr        func(netip.AddrPort) error
	closed          bool
}

func (c *fakeConn) WriteTo(b []byte, addr netip.AddrPort) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		if err := c.writeErr(addr); err != nil {
			return 0, err
		}
	}
	c.writes = append(c.writes, addr)
	c.probes = append(c.probes, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConn) ReadFrom(b []byte, timeout time.Duration) (int, netip.AddrPort, error) {
	c.mu.Lock()
	sweeps := 0
	if c.sweepSize > 0 {
		sweeps = len(c.writes) / c.sweepSize
	}
	if len(c.replies) > 0 && sweeps >= c.replyAfterSweep {
		r := c.replies[0]
		c.replies = c.replies[1:]
		c.mu.Unlock()
		return copy(b, r.payload), r.from, nil
	}
	c.mu.Unlock()

	time.Sleep(timeout)
	return 0, netip.AddrPort{}, os.ErrDeadlineExceeded
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) Writes() []netip.AddrPort {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]netip.AddrPort(nil), c.writes...)
}

func (c *fakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeListener hands out a single fakeConn.
type fakeListener struct {
	conn *fakeConn
	err  error
}

func (l *fakeListener) ListenPacket(ctx context.Context) (ports.PacketConn, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.conn, nil
}

// fakeResolver returns a fixed address, or fails the first failures calls.
type fakeResolver struct {
	mu       sync.Mutex
	addr     netip.Addr
	failures int
	calls    int
}

func (r *fakeResolver) LocalAddr(ctx context.Context) (netip.Addr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.failures {
		return netip.Addr{}, errors.New("network is unreachable")
	}
	return r.addr, nil
}

func (r *fakeResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeSource implements ports.PoseSource.
type fakeSource struct {
	active   bool
	position domain.Vec3
	rotation domain.Vec3
	reads    int
}

func (s *fakeSource) Active() bool { return s.active }

func (s *fakeSource) Position() domain.Vec3 {
	s.reads++
	return s.position
}

func (s *fakeSource) RotationEuler() domain.Vec3 { return s.rotation }

// fakeProvider implements ports.PoseProvider over a map.
type fakeProvider map[domain.SourceName]*fakeSource

func (p fakeProvider) Source(name domain.SourceName) (ports.PoseSource, bool) {
	s, ok := p[name]
	if !ok {
		return nil, false
	}
	return s, true
}

// fakeConnection records written datagrams.
type fakeConnection struct {
	datagrams [][]byte
	writeErr  error
	closed    bool
}

func (c *fakeConnection) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.datagrams = append(c.datagrams, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

// fakeDialer returns conn and records dialed endpoints.
type fakeDialer struct {
	conn   *fakeConnection
	err    error
	dialed []domain.Endpoint
}

func (d *fakeDialer) Dial(ctx context.Context, ep domain.Endpoint) (ports.Connection, error) {
	d.dialed = append(d.dialed, ep)
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

// staticEndpoint implements EndpointSource.
type staticEndpoint struct {
	ep domain.Endpoint
	ok bool
}

func (s *staticEndpoint) Endpoint() (domain.Endpoint, bool) { return s.ep, s.ok }

// recordingEmitter records resolutions.
type recordingEmitter struct {
	mu    sync.Mutex
	local []netip.Addr
	eps   []domain.Endpoint
}

func (e *recordingEmitter) OnServerResolved(local netip.Addr, ep domain.Endpoint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.local = append(e.local, local)
	e.eps = append(e.eps, ep)
}
