package app

import "bytes"

// ProbeSize is the length of the discovery handshake probe.
const ProbeSize = 37

// ProtocolMarker is the protocol/version byte at offset 3 of both the probe
// and binary handshake replies.
const ProtocolMarker = 3

// DefaultSignature is the ASCII greeting carried by text handshake replies.
const DefaultSignature = "Hey OVR"

// NewProbe returns the handshake probe: {0, 0, 0, 3} followed by zeros.
func NewProbe() [ProbeSize]byte {
	var p [ProbeSize]byte
	p[3] = ProtocolMarker
	return p
}

// IsValidReply reports whether a datagram is a handshake reply from a
// tracking server. Both reply shapes are accepted: a payload containing the
// text signature, or a binary packet whose fourth byte is ProtocolMarker.
func IsValidReply(b []byte, signature string) bool {
	if len(b) == 0 {
		return false
	}
	if signature != "" && bytes.Contains(b, []byte(signature)) {
		return true
	}
	return len(b) >= 4 && b[3] == ProtocolMarker
}
