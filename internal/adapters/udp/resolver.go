package udp

import (
	"context"
	"fmt"
	"net"
	"net/netip"
)

// DefaultRouteProbe is a public address used only to select a route.
// Nothing is sent to it.
const DefaultRouteProbe = "8.8.8.8:65530"

// RouteResolver finds the local address the OS would use to reach Probe.
// Connecting a UDP socket selects a route and binds a source address
// without putting a packet on the wire.
type RouteResolver struct {
	Probe string
}

// NewRouteResolver creates a resolver for probe, or DefaultRouteProbe if empty.
func NewRouteResolver(probe string) *RouteResolver {
	if probe == "" {
		probe = DefaultRouteProbe
	}
	return &RouteResolver{Probe: probe}
}

// LocalAddr implements ports.LocalAddrResolver.
func (r *RouteResolver) LocalAddr(ctx context.Context) (netip.Addr, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp4", r.Probe)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("route to %s: %w", r.Probe, err)
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return netip.Addr{}, fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	addr := local.AddrPort().Addr().Unmap()
	if addr.IsUnspecified() {
		return netip.Addr{}, fmt.Errorf("no route to %s", r.Probe)
	}
	return addr, nil
}
