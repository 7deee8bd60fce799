package app

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

// Discovery defaults.
const (
	DefaultProbePort      = 6969
	DefaultStreamPort     = 9001
	DefaultListenWindow   = 2 * time.Second
	DefaultReceiveTimeout = 100 * time.Millisecond
	DefaultRetryCooldown  = 3 * time.Second
)

// maxReplySize bounds a single handshake reply read.
const maxReplySize = 1500

// DiscoveryConfig contains configuration for the discovery worker.
type DiscoveryConfig struct {
	// ProbePort is the UDP port every host in the subnet is probed on.
	ProbePort uint16

	// StreamPort is recorded as the server's port once it answers.
	StreamPort uint16

	// ListenWindow is how long replies are collected after each sweep.
	ListenWindow time.Duration

	// ReceiveTimeout bounds each receive call, and so the latency of
	// noticing cancellation while listening.
	ReceiveTimeout time.Duration

	// RetryCooldown is the pause between an unanswered sweep and the next.
	RetryCooldown time.Duration

	// Signature is the ASCII substring identifying a text handshake reply.
	Signature string

	// RetryLocalAddr keeps retrying local address resolution with backoff
	// instead of giving up on the first failure.
	RetryLocalAddr bool
}

// DefaultDiscoveryConfig returns a DiscoveryConfig with the protocol defaults.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		ProbePort:      DefaultProbePort,
		StreamPort:     DefaultStreamPort,
		ListenWindow:   DefaultListenWindow,
		ReceiveTimeout: DefaultReceiveTimeout,
		RetryCooldown:  DefaultRetryCooldown,
		Signature:      DefaultSignature,
	}
}

// ResolvedEmitter is called once when a server is found.
type ResolvedEmitter interface {
	OnServerResolved(local netip.Addr, endpoint domain.Endpoint)
}

// Discovery sweeps the local /24 subnet with handshake probes until a
// tracking server answers.
type Discovery struct {
	config   DiscoveryConfig
	listener ports.PacketListener
	resolver ports.LocalAddrResolver
	state    *DiscoveryState
	logger   ports.Logger
	emitter  ResolvedEmitter
}

// NewDiscovery creates a discovery worker that publishes into state.
func NewDiscovery(
	config DiscoveryConfig,
	listener ports.PacketListener,
	resolver ports.LocalAddrResolver,
	state *DiscoveryState,
	logger ports.Logger,
	emitter ResolvedEmitter,
) *Discovery {
	return &Discovery{
		config:   config,
		listener: listener,
		resolver: resolver,
		state:    state,
		logger:   logger,
		emitter:  emitter,
	}
}

// Run executes the discovery loop: sweep, listen, cool down, repeat.
// It returns nil once a server has been resolved, ctx.Err() on cancellation,
// or an error wrapping domain.ErrNoLocalAddress if this host's address
// cannot be determined.
func (d *Discovery) Run(ctx context.Context) error {
	local, err := d.localAddr(ctx)
	if err != nil {
		return err
	}
	d.state.setLocal(local)
	_, subnet := d.state.LocalAddr()

	conn, err := d.listener.ListenPacket(ctx)
	if err != nil {
		return fmt.Errorf("open discovery socket: %w", err)
	}
	defer conn.Close()

	d.logger.Info("searching for tracking server",
		ports.String("local", local.String()),
		ports.String("subnet", subnet.String()),
		ports.Int("port", int(d.config.ProbePort)),
	)

	buf := make([]byte, maxReplySize)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		sent := d.sweep(ctx, conn, local, subnet)
		d.logger.Debug("sweep complete",
			ports.Int("attempt", attempt),
			ports.Int("probes", sent),
		)

		if ep, ok := d.listen(ctx, conn, buf); ok {
			if d.state.resolve(ep) {
				d.logger.Info("tracking server found", ports.String("endpoint", ep.String()))
				if d.emitter != nil {
					d.emitter.OnServerResolved(local, ep)
				}
			}
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		d.logger.Info("tracking server not found, retrying",
			ports.Int("attempt", attempt),
			ports.Duration("cooldown", d.config.RetryCooldown),
		)
		if !sleepCtx(ctx, d.config.RetryCooldown) {
			return ctx.Err()
		}
	}
}

// localAddr resolves this host's IPv4 address, optionally retrying.
func (d *Discovery) localAddr(ctx context.Context) (netip.Addr, error) {
	b := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)
	for {
		addr, err := d.resolver.LocalAddr(ctx)
		if err == nil && !addr.Unmap().Is4() {
			err = fmt.Errorf("%s is not an IPv4 address", addr)
		}
		if err == nil {
			return addr.Unmap(), nil
		}

		if !d.config.RetryLocalAddr {
			d.logger.Error("cannot determine local address, discovery aborted", ports.Err(err))
			return netip.Addr{}, fmt.Errorf("%w: %v", domain.ErrNoLocalAddress, err)
		}

		d.logger.Warn("cannot determine local address, retrying",
			ports.Err(err),
			ports.Duration("backoff", b.Current()),
		)
		if !b.Sleep(ctx) {
			return netip.Addr{}, ctx.Err()
		}
	}
}

// sweep sends one probe to every host of subnet except local and returns
// the number of probes handed to the socket. Send errors are expected for
// unreachable hosts and ignored.
func (d *Discovery) sweep(ctx context.Context, conn ports.PacketConn, local netip.Addr, subnet netip.Prefix) int {
	probe := NewProbe()
	host := subnet.Addr().As4()
	sent := 0

	for i := 1; i <= 254; i++ {
		if ctx.Err() != nil {
			return sent
		}
		host[3] = byte(i)
		target := netip.AddrFrom4(host)
		if target == local {
			continue
		}
		if _, err := conn.WriteTo(probe[:], netip.AddrPortFrom(target, d.config.ProbePort)); err != nil {
			continue
		}
		sent++
	}
	return sent
}

// listen collects replies for the listen window and returns the first
// server that sent a valid handshake reply.
func (d *Discovery) listen(ctx context.Context, conn ports.PacketConn, buf []byte) (domain.Endpoint, bool) {
	deadline := time.Now().Add(d.config.ListenWindow)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return domain.Endpoint{}, false
		}

		n, from, err := conn.ReadFrom(buf, d.config.ReceiveTimeout)
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				d.logger.Debug("discovery receive failed", ports.Err(err))
			}
			continue
		}

		if !IsValidReply(buf[:n], d.config.Signature) {
			d.logger.Debug("ignoring datagram",
				ports.String("from", from.String()),
				ports.Int("bytes", n),
			)
			continue
		}

		return domain.Endpoint{Addr: from.Addr().Unmap(), Port: d.config.StreamPort}, true
	}
	return domain.Endpoint{}, false
}
