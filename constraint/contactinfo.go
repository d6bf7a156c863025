package constraint

import (
	"github.com/avencourt/mantle/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactInfo is the immutable snapshot the narrow phase emits for one
// contact point between two bodies.
type ContactInfo struct {
	// Normal is a unit vector from Body1 toward Body2, in world space
	Normal mgl64.Vec3

	// PenetrationDepth is how far the bodies overlap along Normal, >= 0
	PenetrationDepth float64

	// Contact point in each body's local frame
	LocalPointOnBody1 mgl64.Vec3
	LocalPointOnBody2 mgl64.Vec3

	Body1 *actor.RigidBody
	Body2 *actor.RigidBody
}
