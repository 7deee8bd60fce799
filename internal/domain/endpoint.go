package domain

import (
	"net/netip"
	"time"
)

// Endpoint is a resolved tracking server address.
type Endpoint struct {
	Addr netip.Addr
	Port uint16
}

// AddrPort returns the endpoint as a netip.AddrPort.
func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.Addr, e.Port)
}

// IsValid reports whether the endpoint has an address and a port.
func (e Endpoint) IsValid() bool {
	return e.Addr.IsValid() && e.Port != 0
}

// String returns "addr:port".
func (e Endpoint) String() string {
	return e.AddrPort().String()
}

// Status is the persisted record of the last successful discovery.
type Status struct {
	// LocalAddr is this host's outbound IPv4 address at resolution time
	LocalAddr string `json:"local_addr"`

	// ServerAddr is the address of the server that answered the handshake
	ServerAddr string `json:"server_addr"`

	// ServerPort is the streaming port used for that server
	ServerPort uint16 `json:"server_port"`

	// ResolvedAt is when the server was found
	ResolvedAt time.Time `json:"resolved_at"`
}

// IsEmpty returns true if no server has been recorded.
func (s Status) IsEmpty() bool {
	return s.ServerAddr == ""
}
