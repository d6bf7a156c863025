package constraint

import (
	"math"

	"github.com/avencourt/mantle/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// NbContactConstraints is the number of mathematical constraint rows per
// contact point: one non-penetration row along the normal, two friction
// rows along the tangent basis.
const NbContactConstraints = 3

// Contact represents a collision contact point between two bodies.
//
// The normal and the two local anchor points are frozen at construction.
// The world anchors and the penetration depth are refreshed every step by
// the owning manifold from the bodies' current transforms; the manifold
// discards the contact once the refreshed depth or tangential drift says
// it no longer represents the same physical touch. The normal is never
// recomputed: a stale normal shows up as tangential drift and the point
// is culled through that path instead.
type Contact struct {
	body1 *actor.RigidBody
	body2 *actor.RigidBody

	normal            mgl64.Vec3
	penetrationDepth  float64
	localPointOnBody1 mgl64.Vec3
	localPointOnBody2 mgl64.Vec3
	worldPointOnBody1 mgl64.Vec3
	worldPointOnBody2 mgl64.Vec3

	// Two unit vectors spanning the tangential friction plane,
	// right-handed with the normal: t1 x t2 = normal
	frictionVectors [2]mgl64.Vec3

	// Static friction coupling limit mu*m_c*g; the solver re-clamps each
	// iteration with mu*lambda_n
	muMcG float64

	baumgarteBias float64
	contactSlop   float64
}

// NewContact builds a contact from a narrow-phase snapshot. The world
// anchor points stay undefined until the owning manifold's first Update.
func NewContact(info *ContactInfo, tuning Tuning) *Contact {
	c := &Contact{}
	c.init(info, tuning)
	return c
}

// init (re)initialises a contact in place, so pooled storage can be recycled
func (c *Contact) init(info *ContactInfo, tuning Tuning) {
	c.body1 = info.Body1
	c.body2 = info.Body2
	c.normal = info.Normal
	c.penetrationDepth = info.PenetrationDepth
	c.localPointOnBody1 = info.LocalPointOnBody1
	c.localPointOnBody2 = info.LocalPointOnBody2
	c.worldPointOnBody1 = mgl64.Vec3{}
	c.worldPointOnBody2 = mgl64.Vec3{}
	c.computeFrictionVectors()
	c.muMcG = frictionLimit(info.Body1, info.Body2, tuning)
	c.baumgarteBias = tuning.BaumgarteBias
	c.contactSlop = tuning.ContactSlop
}

// computeFrictionVectors computes the two unit orthogonal vectors t1 and
// t2 that span the tangential friction plane, such that t1 x t2 = normal
func (c *Contact) computeFrictionVectors() {
	t1 := OneOrthogonal(c.normal)
	c.frictionVectors[0] = t1
	c.frictionVectors[1] = c.normal.Cross(t1)
}

// frictionLimit computes mu*m_c*g where m_c is the contact mass of the
// pair. A pair of static bodies has no finite contact mass; friction is
// then unbounded.
func frictionLimit(body1, body2 *actor.RigidBody, tuning Tuning) float64 {
	mu := ComputeStaticFriction(body1.Material, body2.Material)
	if mu == 0 {
		mu = tuning.FrictionCoefficient
	}

	invMassSum := body1.InverseMass() + body2.InverseMass()
	if invMassSum == 0 {
		return math.Inf(1)
	}

	return mu * (1.0 / invMassSum) * tuning.Gravity
}

func (c *Contact) Body1() *actor.RigidBody { return c.body1 }
func (c *Contact) Body2() *actor.RigidBody { return c.body2 }

// Normal returns the contact normal (from body1 toward body2, world space)
func (c *Contact) Normal() mgl64.Vec3 { return c.normal }

func (c *Contact) PenetrationDepth() float64 { return c.penetrationDepth }

func (c *Contact) SetPenetrationDepth(penetrationDepth float64) {
	c.penetrationDepth = penetrationDepth
}

func (c *Contact) LocalPointOnBody1() mgl64.Vec3 { return c.localPointOnBody1 }
func (c *Contact) LocalPointOnBody2() mgl64.Vec3 { return c.localPointOnBody2 }
func (c *Contact) WorldPointOnBody1() mgl64.Vec3 { return c.worldPointOnBody1 }
func (c *Contact) WorldPointOnBody2() mgl64.Vec3 { return c.worldPointOnBody2 }

func (c *Contact) SetWorldPointOnBody1(worldPoint mgl64.Vec3) {
	c.worldPointOnBody1 = worldPoint
}

func (c *Contact) SetWorldPointOnBody2(worldPoint mgl64.Vec3) {
	c.worldPointOnBody2 = worldPoint
}

// FrictionVectors returns the tangent basis (t1, t2) of the contact
func (c *Contact) FrictionVectors() (mgl64.Vec3, mgl64.Vec3) {
	return c.frictionVectors[0], c.frictionVectors[1]
}

func (c *Contact) NbConstraints() int { return NbContactConstraints }

// ComputeJacobian fills the three constraint rows of the contact. Row 0
// is the non-penetration constraint along the normal, rows 1 and 2 the
// friction constraints along the tangent basis. For a row direction n,
// the body1 block is (-n, -r1 x n) and the body2 block is (n, r2 x n),
// with r_i the offset from body i's centre of mass to the world anchor.
func (c *Contact) ComputeJacobian(rows []JacobianRow) {
	_ = rows[NbContactConstraints-1]

	r1 := c.worldPointOnBody1.Sub(c.body1.Transform.Position)
	r2 := c.worldPointOnBody2.Sub(c.body2.Transform.Position)

	directions := [NbContactConstraints]mgl64.Vec3{
		c.normal,
		c.frictionVectors[0],
		c.frictionVectors[1],
	}

	for i, n := range directions {
		rows[i] = JacobianRow{
			Linear1:  n.Mul(-1),
			Angular1: r1.Cross(n).Mul(-1),
			Linear2:  n,
			Angular2: r2.Cross(n),
		}
	}
}

// ComputeLowerBounds reports [0, +inf) for the normal row and the static
// friction limits for the tangent rows
func (c *Contact) ComputeLowerBounds(v []float64) {
	_ = v[NbContactConstraints-1]
	v[0] = 0
	v[1] = -c.muMcG
	v[2] = -c.muMcG
}

func (c *Contact) ComputeUpperBounds(v []float64) {
	_ = v[NbContactConstraints-1]
	v[0] = math.Inf(1)
	v[1] = c.muMcG
	v[2] = c.muMcG
}

// ComputeErrorValues reports the Baumgarte positional error: the
// slop-thresholded, bias-scaled penetration depth on the normal row,
// zero on the friction rows
func (c *Contact) ComputeErrorValues(v []float64) {
	_ = v[NbContactConstraints-1]

	depthError := c.penetrationDepth - c.contactSlop
	if depthError < 0 {
		depthError = 0
	}

	v[0] = c.baumgarteBias * depthError
	v[1] = 0
	v[2] = 0
}
