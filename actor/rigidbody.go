package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation.
//
// The contact layer only reads from it: the current world transform, the
// inverse mass and the inverse inertia tensor in world space, and the
// linear/angular velocities. Integration and collision shapes live with
// the simulation world that owns the body.
type RigidBody struct {
	Id int

	// Spatial properties
	Transform Transform

	// Linear motion
	Velocity mgl64.Vec3 // Linear velocity (m/s)

	// Angular motion
	AngularVelocity mgl64.Vec3 // rad/s

	// Inertia tensor in local space
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static
}

// NewRigidBody creates a new rigid body with the given mass properties.
// The mass and local inertia tensor come from whoever owns the body's
// collision geometry; they are ignored for static bodies.
func NewRigidBody(transform Transform, mass float64, inertiaLocal mgl64.Mat3, bodyType BodyType) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{
			mass: math.Inf(1),
		}
		return rb
	}

	rb.Material = Material{
		mass: mass,
	}
	rb.InertiaLocal = inertiaLocal
	rb.InverseInertiaLocal = inertiaLocal.Inv()

	return rb
}

// InverseMass returns 1/mass, or 0 for a static body
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}
	return 1.0 / rb.Material.mass
}

// InertiaWorld returns the inertia tensor in world space
func (rb *RigidBody) InertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// InverseInertiaWorld returns the inverse inertia tensor in world space.
// Static bodies report a zero tensor.
func (rb *RigidBody) InverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
