package app

import (
	"net/netip"
	"sync/atomic"

	"github.com/bft-labs/posebridge/internal/domain"
)

// DiscoveryState is the handoff between the discovery worker (sole writer)
// and the frame driver. Searching starts true and becomes false exactly once,
// after the endpoint has been published; the endpoint never changes again.
type DiscoveryState struct {
	searching atomic.Bool
	endpoint  atomic.Pointer[domain.Endpoint]
	local     atomic.Pointer[netip.Prefix]
}

// NewDiscoveryState returns a state that is searching.
func NewDiscoveryState() *DiscoveryState {
	s := &DiscoveryState{}
	s.searching.Store(true)
	return s
}

// Searching reports whether no server has been resolved yet.
func (s *DiscoveryState) Searching() bool {
	return s.searching.Load()
}

// Endpoint returns the resolved server. ok is false while searching.
func (s *DiscoveryState) Endpoint() (ep domain.Endpoint, ok bool) {
	if s.searching.Load() {
		return domain.Endpoint{}, false
	}
	return *s.endpoint.Load(), true
}

// LocalAddr returns this host's address and its /24 subnet once discovery
// has initialized. Both are zero before that.
func (s *DiscoveryState) LocalAddr() (addr netip.Addr, subnet netip.Prefix) {
	p := s.local.Load()
	if p == nil {
		return netip.Addr{}, netip.Prefix{}
	}
	return p.Addr(), p.Masked()
}

func (s *DiscoveryState) setLocal(addr netip.Addr) {
	p := netip.PrefixFrom(addr, 24)
	s.local.Store(&p)
}

// resolve publishes ep and stops searching. Only the first call has any
// effect; it returns false for every later call.
func (s *DiscoveryState) resolve(ep domain.Endpoint) bool {
	if !s.endpoint.CompareAndSwap(nil, &ep) {
		return false
	}
	s.searching.Store(false)
	return true
}
