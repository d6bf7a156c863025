package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a rigid placement in 3D space: a rotation followed
// by a translation.
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates a transform with the given position and rotation
func NewTransformAt(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	rotation = rotation.Normalize()
	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// Apply maps a point from local space to world space: R*p + t
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(point))
}

// ApplyInverse maps a point from world space back to local space
func (t Transform) ApplyInverse(point mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(point.Sub(t.Position))
}

// Mul composes two transforms, t applied after other
func (t Transform) Mul(other Transform) Transform {
	rotation := t.Rotation.Mul(other.Rotation).Normalize()
	return Transform{
		Position:        t.Apply(other.Position),
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// Inverse returns the transform mapping world space back to local space
func (t Transform) Inverse() Transform {
	return Transform{
		Position:        t.InverseRotation.Rotate(t.Position.Mul(-1)),
		Rotation:        t.InverseRotation,
		InverseRotation: t.Rotation,
	}
}
