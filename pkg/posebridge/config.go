package posebridge

import (
	"fmt"
	"time"

	"github.com/bft-labs/posebridge/internal/adapters/udp"
	"github.com/bft-labs/posebridge/internal/app"
	"github.com/bft-labs/posebridge/internal/domain"
)

// MaxFrameRate bounds the internal frame ticker.
const MaxFrameRate = 1000

// Config holds the configuration of a Bridge.
// Zero fields are filled in by SetDefaults.
type Config struct {
	// StreamPort is the server port pose messages are sent to.
	// Default: 9001
	StreamPort uint16

	// ProbePort is the port every subnet host is probed on.
	// Default: 6969
	ProbePort uint16

	// ListenWindow is how long replies are collected after each sweep.
	// Default: 2 seconds
	ListenWindow time.Duration

	// ReceiveTimeout bounds a single receive while listening.
	// Default: 100 milliseconds
	ReceiveTimeout time.Duration

	// RetryCooldown is the pause between unanswered sweeps.
	// Default: 3 seconds
	RetryCooldown time.Duration

	// Signature is the text a handshake reply must contain, unless its
	// fourth byte is the protocol marker.
	// Default: "Hey OVR"
	Signature string

	// RouteProbe is the address used to pick the outbound interface.
	// Nothing is sent to it.
	// Default: 8.8.8.8:65530
	RouteProbe string

	// RetryLocalAddr retries local address resolution with backoff instead
	// of crashing the bridge.
	RetryLocalAddr bool

	// FrameRate is how many frames per second the bridge sends on its own.
	// Zero leaves frame driving to the host, which calls Bridge.Tick.
	FrameRate int

	// StateDir holds status.json with the last resolved server.
	// Empty disables the status file.
	StateDir string
}

// DefaultConfig returns a Config streaming at 60 frames per second with
// the protocol defaults.
func DefaultConfig() Config {
	cfg := Config{FrameRate: 60}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero fields with protocol defaults.
func (c *Config) SetDefaults() {
	if c.StreamPort == 0 {
		c.StreamPort = app.DefaultStreamPort
	}
	if c.ProbePort == 0 {
		c.ProbePort = app.DefaultProbePort
	}
	if c.ListenWindow == 0 {
		c.ListenWindow = app.DefaultListenWindow
	}
	if c.ReceiveTimeout == 0 {
		c.ReceiveTimeout = app.DefaultReceiveTimeout
	}
	if c.RetryCooldown == 0 {
		c.RetryCooldown = app.DefaultRetryCooldown
	}
	if c.Signature == "" {
		c.Signature = app.DefaultSignature
	}
	if c.RouteProbe == "" {
		c.RouteProbe = udp.DefaultRouteProbe
	}
}

// Validate reports configuration errors wrapped in domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.StreamPort == 0:
		return fmt.Errorf("%w: stream port is required", domain.ErrInvalidConfig)
	case c.ProbePort == 0:
		return fmt.Errorf("%w: probe port is required", domain.ErrInvalidConfig)
	case c.ListenWindow < 0 || c.ReceiveTimeout < 0 || c.RetryCooldown < 0:
		return fmt.Errorf("%w: durations must not be negative", domain.ErrInvalidConfig)
	case c.ReceiveTimeout > c.ListenWindow:
		return fmt.Errorf("%w: receive timeout %v exceeds listen window %v",
			domain.ErrInvalidConfig, c.ReceiveTimeout, c.ListenWindow)
	case c.FrameRate < 0 || c.FrameRate > MaxFrameRate:
		return fmt.Errorf("%w: frame rate %d outside 0..%d", domain.ErrInvalidConfig, c.FrameRate, MaxFrameRate)
	}
	return nil
}

func (c *Config) discoveryConfig() app.DiscoveryConfig {
	return app.DiscoveryConfig{
		ProbePort:      c.ProbePort,
		StreamPort:     c.StreamPort,
		ListenWindow:   c.ListenWindow,
		ReceiveTimeout: c.ReceiveTimeout,
		RetryCooldown:  c.RetryCooldown,
		Signature:      c.Signature,
		RetryLocalAddr: c.RetryLocalAddr,
	}
}
