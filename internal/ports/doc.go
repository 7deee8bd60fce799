// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [PoseProvider]: Supplies the current pose of named tracking sources
//   - [PacketConn], [PacketListener]: Unconnected UDP socket used by discovery
//   - [LocalAddrResolver]: Finds this host's outbound IPv4 address
//   - [Connection], [Dialer]: Connected UDP association used for streaming
//   - [MulticastPermission]: Platform hook for receiving broadcast traffic
//   - [StatusRepository]: Persists the last resolved server
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (UDP sockets, TOML pose files, zerolog, etc.).
package ports
