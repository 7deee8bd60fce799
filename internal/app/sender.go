package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/osc"
	"github.com/bft-labs/posebridge/internal/ports"
)

// EndpointSource reports the resolved server, if any.
// *DiscoveryState satisfies this interface.
type EndpointSource interface {
	Endpoint() (domain.Endpoint, bool)
}

// Sender streams entity poses to the resolved server, one Tick per frame.
// A Sender is confined to the goroutine that drives its frames.
type Sender struct {
	entities  []domain.Entity
	provider  ports.PoseProvider
	dialer    ports.Dialer
	endpoints EndpointSource
	logger    ports.Logger

	conn       ports.Connection
	endpoint   domain.Endpoint
	dialFailed bool
	closed     bool

	buf [osc.MaxMessageSize]byte
}

// NewSender creates a Sender for the given entities. Every entity address
// must be a valid OSC address whose pose message fits in one buffer.
func NewSender(
	entities []domain.Entity,
	provider ports.PoseProvider,
	dialer ports.Dialer,
	endpoints EndpointSource,
	logger ports.Logger,
) (*Sender, error) {
	for _, e := range entities {
		if err := osc.ValidateAddress(e.Address); err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		if size := osc.Size(e.Address, domain.PoseArgs); size > osc.MaxMessageSize {
			return nil, fmt.Errorf("entity %s: message of %d bytes exceeds %d", e.Name, size, osc.MaxMessageSize)
		}
	}

	return &Sender{
		entities:  entities,
		provider:  provider,
		dialer:    dialer,
		endpoints: endpoints,
		logger:    logger,
	}, nil
}

// Tick runs one frame: it connects if the server has just been resolved,
// then sends one pose message per entity with an active source.
// Returns the number of messages written. Never blocks on the network.
func (s *Sender) Tick(ctx context.Context) int {
	if s.closed {
		return 0
	}
	if s.conn == nil && !s.connect(ctx) {
		return 0
	}

	sent := 0
	for _, e := range s.entities {
		src, ok := SelectSource(s.provider, e)
		if !ok {
			continue
		}

		pose := domain.Pose{Position: src.Position(), Rotation: src.RotationEuler()}
		args := e.Args(pose)
		n := osc.Put(s.buf[:], e.Address, args[:]...)

		if _, err := s.conn.Write(s.buf[:n]); err != nil {
			s.logger.Debug("pose send failed",
				ports.String("entity", e.Name),
				ports.Err(err),
			)
			continue
		}
		sent++
	}
	return sent
}

// connect opens the connection once discovery has resolved a server.
func (s *Sender) connect(ctx context.Context) bool {
	ep, ok := s.endpoints.Endpoint()
	if !ok {
		return false
	}

	conn, err := s.dialer.Dial(ctx, ep)
	if err != nil {
		if !s.dialFailed {
			s.logger.Warn("connect to tracking server failed",
				ports.String("endpoint", ep.String()),
				ports.Err(err),
			)
			s.dialFailed = true
		}
		return false
	}

	s.conn = conn
	s.endpoint = ep
	s.logger.Info("connected to tracking server", ports.String("endpoint", ep.String()))
	return true
}

// Connected reports whether the streaming connection is open.
func (s *Sender) Connected() bool {
	return s.conn != nil
}

// Close closes the streaming connection if one was opened. Later ticks
// send nothing.
func (s *Sender) Close() error {
	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.logger.Info("disconnected from tracking server", ports.String("endpoint", s.endpoint.String()))
	return err
}

// SelectSource picks the source for e: the primary if it is active,
// otherwise the fallback if it is active. The fallback is not consulted
// when the primary is active.
func SelectSource(provider ports.PoseProvider, e domain.Entity) (ports.PoseSource, bool) {
	if src, ok := provider.Source(e.Primary); ok && src.Active() {
		return src, true
	}
	if e.Fallback == "" {
		return nil, false
	}
	if src, ok := provider.Source(e.Fallback); ok && src.Active() {
		return src, true
	}
	return nil, false
}
