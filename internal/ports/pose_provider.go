package ports

import "github.com/bft-labs/posebridge/internal/domain"

// PoseSource is a single tracked transform owned by the host (a head
// tracker, a hand, a controller). The bridge only reads it.
type PoseSource interface {
	// Active reports whether the source is currently tracked and enabled.
	Active() bool

	// Position returns the world position in meters.
	Position() domain.Vec3

	// RotationEuler returns the orientation as Euler angles in degrees.
	RotationEuler() domain.Vec3
}

// PoseProvider looks up pose sources by name.
// Source is called from the frame driver once per entity per frame and
// must not block.
type PoseProvider interface {
	// Source returns the named source, or false if the provider has none.
	Source(name domain.SourceName) (PoseSource, bool)
}
