//go:build !unix

package udp

import "syscall"

// control leaves socket options at their defaults.
func control(network, address string, c syscall.RawConn) error {
	return nil
}
