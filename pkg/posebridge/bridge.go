package posebridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/posebridge/internal/app"
	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

// Bridge discovers a tracking server on the local subnet and streams poses
// to it. Use New to create an instance, then Start.
type Bridge struct {
	config    Config
	opts      options
	provider  ports.PoseProvider
	entities  []domain.Entity
	lifecycle *app.Lifecycle
	emitter   *eventEmitterWrapper
	logger    ports.Logger

	// mu serializes Start and Stop.
	mu sync.Mutex

	// frameMu guards the per-run state and confines the sender to one
	// caller at a time.
	frameMu  sync.Mutex
	state    *app.DiscoveryState
	sender   *app.Sender
	permHeld bool

	errMu   sync.Mutex
	lastErr error
}

// New creates a Bridge in StateStopped reading poses from provider.
// Returns an error if the configuration is invalid.
func New(cfg Config, provider PoseProvider, opts ...Option) (*Bridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: pose provider is required", domain.ErrInvalidConfig)
	}

	o := defaultOptions(cfg)
	for _, opt := range opts {
		opt(&o)
	}

	emitter := &eventEmitterWrapper{
		handler: o.eventHandler,
		status:  o.status,
		logger:  o.logger,
		now:     time.Now,
	}

	return &Bridge{
		config:    cfg,
		opts:      o,
		provider:  provider,
		entities:  domain.DefaultEntities(),
		lifecycle: app.NewLifecycle(o.logger, emitter),
		emitter:   emitter,
		logger:    o.logger,
	}, nil
}

// Start launches discovery and, if Config.FrameRate is set, the frame
// ticker. It returns immediately. The context bounds the whole run.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if b.lifecycle.State() == app.StateCrashed {
		b.lifecycle.Cancel()
		_ = b.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
		b.teardown()
	}
	if err := b.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	state := app.NewDiscoveryState()
	sender, err := app.NewSender(b.entities, b.provider, b.opts.dialer, state, b.logger)
	if err != nil {
		_ = b.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		return err
	}

	permHeld := true
	if err := b.opts.permission.Acquire(); err != nil {
		b.logger.Warn("multicast permission not granted, replies may be missed", ports.Err(err))
		permHeld = false
	}

	b.setErr(nil)

	b.frameMu.Lock()
	b.state = state
	b.sender = sender
	b.permHeld = permHeld
	b.frameMu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	b.lifecycle.SetCancel(cancel)

	if err := b.lifecycle.TransitionTo(app.StateRunning, "workers started"); err != nil {
		cancel()
		return err
	}

	discovery := app.NewDiscovery(b.config.discoveryConfig(), b.opts.listener, b.opts.resolver, state, b.logger, b.emitter)
	b.lifecycle.Go(func() {
		err := discovery.Run(runCtx)
		if err == nil || runCtx.Err() != nil {
			return
		}
		b.logger.Error("discovery failed", ports.Err(err))
		b.setErr(err)
		_ = b.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		cancel()
	})

	if b.config.FrameRate > 0 {
		interval := time.Second / time.Duration(b.config.FrameRate)
		b.lifecycle.Go(func() { b.frameLoop(runCtx, interval) })
	}

	return nil
}

// frameLoop drives Tick at a fixed rate until ctx is canceled.
func (b *Bridge) frameLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick(ctx)
		}
	}
}

// Tick sends one frame of poses and returns the number of messages written.
// Before the server is resolved, and after Stop, it sends nothing. Hosts
// that render their own frames call Tick once per frame with FrameRate 0.
func (b *Bridge) Tick(ctx context.Context) int {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	if b.sender == nil {
		return 0
	}
	return b.sender.Tick(ctx)
}

// Stop cancels discovery and the frame ticker, waits for them, then closes
// the connection and releases the multicast permission. After a crash Stop
// only releases resources and returns nil. If discovery crashes while Stop
// is in progress, Stop returns the cause.
// Returns ErrShutdownTimeout if workers did not exit in time.
func (b *Bridge) Stop() error {
	b.mu.Lock()

	if b.lifecycle.State() == app.StateCrashed {
		b.mu.Unlock()
		b.lifecycle.Cancel()
		err := b.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
		b.teardown()
		return err
	}

	if !b.lifecycle.CanStop() {
		b.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := b.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		b.mu.Unlock()
		return err
	}
	b.lifecycle.Cancel()
	b.mu.Unlock()

	err := b.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	b.teardown()

	// Discovery may have crashed between Stopping and Cancel.
	if b.lifecycle.State() == app.StateCrashed {
		if err != nil {
			return err
		}
		return b.Err()
	}

	if err != nil {
		_ = b.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = b.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// teardown closes the connection and releases the permission once per run.
func (b *Bridge) teardown() {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	if b.sender != nil {
		if err := b.sender.Close(); err != nil {
			b.logger.Debug("close connection", ports.Err(err))
		}
	}
	if b.permHeld {
		if err := b.opts.permission.Release(); err != nil {
			b.logger.Warn("failed to release multicast permission", ports.Err(err))
		}
		b.permHeld = false
	}
}

// Err returns the error that crashed the current or last run, or nil.
func (b *Bridge) Err() error {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.lastErr
}

func (b *Bridge) setErr(err error) {
	b.errMu.Lock()
	b.lastErr = err
	b.errMu.Unlock()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (b *Bridge) Status() State {
	return State(b.lifecycle.State())
}

// Searching reports whether discovery is still looking for a server.
// A stopped bridge that never ran reports true.
func (b *Bridge) Searching() bool {
	b.frameMu.Lock()
	state := b.state
	b.frameMu.Unlock()

	return state == nil || state.Searching()
}

// Connected reports whether the streaming connection is open.
func (b *Bridge) Connected() bool {
	b.frameMu.Lock()
	defer b.frameMu.Unlock()

	return b.sender != nil && b.sender.Connected()
}

// Endpoint returns the server found in the current or last run.
func (b *Bridge) Endpoint() (Endpoint, bool) {
	b.frameMu.Lock()
	state := b.state
	b.frameMu.Unlock()

	if state == nil {
		return Endpoint{}, false
	}
	return state.Endpoint()
}

// Wait blocks until ctx is done or the bridge leaves the running states.
// It returns the bridge state observed last.
func (b *Bridge) Wait(ctx context.Context) State {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		s := b.Status()
		if s != StateStarting && s != StateRunning {
			return s
		}
		select {
		case <-ctx.Done():
			return b.Status()
		case <-ticker.C:
		}
	}
}

