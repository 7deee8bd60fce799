// Package osc encodes OSC 1.0 messages whose arguments are all float32.
//
// Only the subset used for pose streaming is supported: one address, a
// ",fff..." type tag and big-endian float32 arguments. Bundles and other
// argument types are not implemented.
//
// Messages are written into caller-owned buffers so the per-frame path does
// not allocate:
//
//	var buf [osc.MaxMessageSize]byte
//	n := osc.Put(buf[:], "/tracking/vrsystem/head/pose", x, y, z, rx, ry, rz)
//	conn.Write(buf[:n])
package osc

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bft-labs/posebridge/internal/domain"
)

// MaxMessageSize is the buffer size callers are expected to allocate for a
// single message.
const MaxMessageSize = 256

// floatTag is the type tag letter for a 32-bit float argument.
const floatTag = 'f'

// padded returns n rounded up to the next multiple of 4, always adding at
// least one byte so the string stays null terminated.
func padded(n int) int {
	return (n + 4) &^ 3
}

// Size returns the encoded length of a message with the given address and
// number of float arguments. The result is always a multiple of 4.
func Size(address string, nargs int) int {
	return padded(len(address)) + padded(1+nargs) + 4*nargs
}

// Put encodes the message into buf and returns the number of bytes written.
// buf must hold at least Size(address, len(args)) bytes; a shorter buffer
// is a programming error and Put panics.
func Put(buf []byte, address string, args ...float32) int {
	size := Size(address, len(args))
	if len(buf) < size {
		panic(fmt.Sprintf("osc: buffer too small: need %d bytes, have %d", size, len(buf)))
	}

	off := putString(buf, 0, address)

	tagStart := off
	buf[off] = ','
	off++
	for range args {
		buf[off] = floatTag
		off++
	}
	off = pad(buf, off, off-tagStart)

	for _, f := range args {
		binary.BigEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	return off
}

// Append encodes the message onto dst, growing it as needed, and returns the
// extended slice.
func Append(dst []byte, address string, args ...float32) []byte {
	size := Size(address, len(args))
	start := len(dst)
	if cap(dst)-start < size {
		grown := make([]byte, start, start+size)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:start+size]
	Put(dst[start:], address, args...)
	return dst
}

// Encode returns a newly allocated encoding of the message.
func Encode(address string, args ...float32) []byte {
	return Append(nil, address, args...)
}

// ValidateAddress checks that address is a usable OSC address: non-empty,
// starting with '/', and ASCII only.
func ValidateAddress(address string) error {
	if address == "" || address[0] != '/' {
		return fmt.Errorf("%w: %q must start with '/'", domain.ErrInvalidAddress, address)
	}
	for i := 0; i < len(address); i++ {
		if c := address[i]; c == 0 || c > 0x7f {
			return fmt.Errorf("%w: %q has non-ASCII byte at %d", domain.ErrInvalidAddress, address, i)
		}
	}
	return nil
}

func putString(buf []byte, off int, s string) int {
	n := copy(buf[off:], s)
	return pad(buf, off+n, n)
}

// pad zero-fills buf from off so that the element of length n ends on a
// 4-byte boundary, and returns the new offset.
func pad(buf []byte, off, n int) int {
	for i := n; i < padded(n); i++ {
		buf[off] = 0
		off++
	}
	return off
}
