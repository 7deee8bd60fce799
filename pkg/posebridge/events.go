package posebridge

import (
	"context"
	"net/netip"
	"time"

	"github.com/bft-labs/posebridge/internal/app"
	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

// State is the lifecycle state of a Bridge.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ServerResolvedEvent is emitted once per run when discovery finds a server.
type ServerResolvedEvent struct {
	LocalAddr  netip.Addr
	Endpoint   Endpoint
	ResolvedAt time.Time
}

// EventHandler receives bridge notifications. Methods are called
// synchronously from bridge goroutines and should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnServerResolved(event ServerResolvedEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to
// override only the events you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)       {}
func (BaseEventHandler) OnServerResolved(ServerResolvedEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces
// and records resolutions in the status repository.
type eventEmitterWrapper struct {
	handler EventHandler
	status  ports.StatusRepository
	logger  ports.Logger
	now     func() time.Time
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: State(previous),
		Current:  State(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnServerResolved(local netip.Addr, endpoint domain.Endpoint) {
	at := e.now()

	if e.status != nil {
		status := domain.Status{
			LocalAddr:  local.String(),
			ServerAddr: endpoint.Addr.String(),
			ServerPort: endpoint.Port,
			ResolvedAt: at.UTC(),
		}
		if err := e.status.Save(context.Background(), status); err != nil {
			e.logger.Warn("failed to save status", ports.Err(err))
		}
	}

	if e.handler != nil {
		e.handler.OnServerResolved(ServerResolvedEvent{
			LocalAddr:  local,
			Endpoint:   endpoint,
			ResolvedAt: at,
		})
	}
}
