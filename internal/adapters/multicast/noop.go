// Package multicast provides ports.MulticastPermission implementations.
//
// Desktop platforms need no permission to receive broadcast or multicast
// replies, so [Noop] is the default. Hosts that must hold a platform lock
// (a Wi-Fi multicast lock, for example) supply their own implementation.
package multicast

// Noop grants permission unconditionally.
type Noop struct{}

// Acquire implements ports.MulticastPermission.
func (Noop) Acquire() error { return nil }

// Release implements ports.MulticastPermission.
func (Noop) Release() error { return nil }
