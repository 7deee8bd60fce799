package posebridge

import (
	"github.com/bft-labs/posebridge/internal/adapters/fs"
	logAdapter "github.com/bft-labs/posebridge/internal/adapters/log"
	"github.com/bft-labs/posebridge/internal/adapters/multicast"
	"github.com/bft-labs/posebridge/internal/adapters/udp"
	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

// Re-exported types so embedders need only this package.
type (
	// Logger is the interface for structured logging.
	Logger = ports.Logger

	// LogField represents a structured log field.
	LogField = ports.Field

	// PoseProvider looks up pose sources by name.
	PoseProvider = ports.PoseProvider

	// PoseSource is one tracked transform.
	PoseSource = ports.PoseSource

	// MulticastPermission is the platform hook held while discovering.
	MulticastPermission = ports.MulticastPermission

	// Vec3 is a position in meters or an Euler rotation in degrees.
	Vec3 = domain.Vec3

	// SourceName identifies a pose source.
	SourceName = domain.SourceName

	// Endpoint is a resolved tracking server address.
	Endpoint = domain.Endpoint

	// Status is the persisted record of the last resolution.
	Status = domain.Status
)

// Well-known source names.
const (
	SourceHead            = domain.SourceHead
	SourceLeftHand        = domain.SourceLeftHand
	SourceLeftController  = domain.SourceLeftController
	SourceRightHand       = domain.SourceRightHand
	SourceRightController = domain.SourceRightController
)

// Option configures optional behavior of a Bridge.
type Option func(*options)

// options holds the optional configuration for a Bridge instance.
type options struct {
	logger       ports.Logger
	permission   ports.MulticastPermission
	dialer       ports.Dialer
	listener     ports.PacketListener
	resolver     ports.LocalAddrResolver
	status       ports.StatusRepository
	eventHandler EventHandler
}

// defaultOptions returns options backed by real sockets and files.
func defaultOptions(cfg Config) options {
	o := options{
		logger:     logAdapter.NewNoopLogger(),
		permission: multicast.Noop{},
		dialer:     udp.Dialer{},
		listener:   udp.NewListener(),
		resolver:   udp.NewRouteResolver(cfg.RouteProbe),
	}
	if cfg.StateDir != "" {
		o.status = fs.NewStatusFileRepository(cfg.StateDir)
	}
	return o
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMulticastPermission sets the platform permission acquired on Start
// and released on Stop.
func WithMulticastPermission(p MulticastPermission) Option {
	return func(o *options) {
		o.permission = p
	}
}

// WithEventHandler sets a handler for bridge events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithDialer replaces the UDP dialer used for streaming.
func WithDialer(d ports.Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// WithPacketListener replaces the socket factory used for discovery.
func WithPacketListener(l ports.PacketListener) Option {
	return func(o *options) {
		o.listener = l
	}
}

// WithLocalAddrResolver replaces the route-based local address lookup.
func WithLocalAddrResolver(r ports.LocalAddrResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithStatusRepository replaces the status file named by Config.StateDir.
func WithStatusRepository(r ports.StatusRepository) Option {
	return func(o *options) {
		o.status = r
	}
}
