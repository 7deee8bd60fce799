package domain

// Vec3 is an x, y, z triple. Used for positions (meters) and Euler
// rotations (degrees).
type Vec3 struct {
	X, Y, Z float32
}

// Pose is the position and Euler orientation of a tracked source for one frame.
type Pose struct {
	Position Vec3
	Rotation Vec3
}

// SourceName identifies a pose source exposed by a pose provider.
type SourceName string

// Well-known source names.
const (
	SourceHead            SourceName = "head"
	SourceLeftHand        SourceName = "left_hand"
	SourceLeftController  SourceName = "left_controller"
	SourceRightHand       SourceName = "right_hand"
	SourceRightController SourceName = "right_controller"
)
