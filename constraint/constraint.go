package constraint

import (
	"math"

	"github.com/avencourt/mantle/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// JacobianRow is one row of the sparse constraint Jacobian: a 1x6 block
// per body, split into its linear and angular parts.
type JacobianRow struct {
	Linear1  mgl64.Vec3
	Angular1 mgl64.Vec3
	Linear2  mgl64.Vec3
	Angular2 mgl64.Vec3
}

// Constraint is the capability set the solver consumes. A Contact is one
// implementation; joint types plug in the same way.
type Constraint interface {
	// NbConstraints returns the number of mathematical constraint rows
	NbConstraints() int

	// ComputeJacobian fills rows[0:NbConstraints()] with the Jacobian blocks
	ComputeJacobian(rows []JacobianRow)

	// ComputeLowerBounds fills v[0:NbConstraints()] with the impulse lower bounds
	ComputeLowerBounds(v []float64)

	// ComputeUpperBounds fills v[0:NbConstraints()] with the impulse upper bounds
	ComputeUpperBounds(v []float64)

	// ComputeErrorValues fills v[0:NbConstraints()] with the positional error terms
	ComputeErrorValues(v []float64)

	Body1() *actor.RigidBody
	Body2() *actor.RigidBody
}

// Tuning carries the physical parameters stamped into contacts at
// construction time. The zero value is unusable; start from DefaultTuning.
type Tuning struct {
	// Gravity magnitude (m/s²), used for the static friction coupling limit
	Gravity float64

	// FrictionCoefficient is used when the combined static friction of the
	// two materials is zero, i.e. when either material has none
	FrictionCoefficient float64

	// BaumgarteBias scales the positional error fed back to the solver
	BaumgarteBias float64

	// ContactSlop is the penetration allowed before positional error kicks in
	ContactSlop float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:             9.81,
		FrictionCoefficient: 0.3,
		BaumgarteBias:       0.2,
		ContactSlop:         0.005,
	}
}

func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

// ComputeStaticFriction combines the two materials' static friction
// coefficients with a geometric mean.
func ComputeStaticFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.StaticFriction * matB.StaticFriction)
}

func ComputeDynamicFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.DynamicFriction * matB.DynamicFriction)
}

// OneOrthogonal returns a unit vector perpendicular to the given unit
// vector. The axis of smallest absolute component is crossed with the
// input, which stays numerically stable for any direction; crossing with
// a fixed axis would collapse when the input is nearly parallel to it.
func OneOrthogonal(v mgl64.Vec3) mgl64.Vec3 {
	ax, ay, az := math.Abs(v.X()), math.Abs(v.Y()), math.Abs(v.Z())

	var axis mgl64.Vec3
	switch {
	case ax <= ay && ax <= az:
		axis = mgl64.Vec3{1, 0, 0}
	case ay <= az:
		axis = mgl64.Vec3{0, 1, 0}
	default:
		axis = mgl64.Vec3{0, 0, 1}
	}

	return axis.Cross(v).Normalize()
}
