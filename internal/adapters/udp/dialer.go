package udp

import (
	"context"
	"fmt"
	"net"

	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

// Dialer opens connected UDP sockets to the tracking server.
type Dialer struct{}

// Dial implements ports.Dialer. Every Write on the returned connection is
// one datagram.
func (Dialer) Dial(ctx context.Context, endpoint domain.Endpoint) (ports.Connection, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", endpoint.String())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return conn, nil
}
