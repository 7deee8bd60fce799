package domain

import "fmt"

// AddressFormat is the OSC address template for VR-system pose updates.
const AddressFormat = "/tracking/vrsystem/%s/pose"

// PoseArgs is the number of float arguments in a pose message.
const PoseArgs = 6

// Entity is a tracked body part streamed to the server.
type Entity struct {
	// Name is the path segment used in the OSC address (e.g. "leftwrist").
	Name string

	// Address is the full OSC address for this entity.
	Address string

	// Mirrored negates the X and Z rotation components before sending.
	// Wrist trackers use a mirrored convention relative to the head.
	Mirrored bool

	// Primary is preferred whenever it is active.
	Primary SourceName

	// Fallback is used when Primary is inactive. Empty means no fallback.
	Fallback SourceName
}

// NewEntity creates an Entity with the standard VR-system address.
func NewEntity(name string, mirrored bool, primary, fallback SourceName) Entity {
	return Entity{
		Name:     name,
		Address:  fmt.Sprintf(AddressFormat, name),
		Mirrored: mirrored,
		Primary:  primary,
		Fallback: fallback,
	}
}

// DefaultEntities returns the head and both wrists. Hand tracking is
// preferred over controllers for the wrists.
func DefaultEntities() []Entity {
	return []Entity{
		NewEntity("head", false, SourceHead, ""),
		NewEntity("leftwrist", true, SourceLeftHand, SourceLeftController),
		NewEntity("rightwrist", true, SourceRightHand, SourceRightController),
	}
}

// Args returns the six OSC arguments for p: position x, y, z followed by
// rotation x, y, z. Mirrored entities negate rotation X and Z; Y is never
// negated.
func (e Entity) Args(p Pose) [PoseArgs]float32 {
	rot := p.Rotation
	if e.Mirrored {
		rot.X = -rot.X
		rot.Z = -rot.Z
	}
	return [PoseArgs]float32{
		p.Position.X, p.Position.Y, p.Position.Z,
		rot.X, rot.Y, rot.Z,
	}
}
