package constraint

import (
	"math"
	"testing"

	"github.com/avencourt/mantle/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// createDynamicBody creates a dynamic body with the given mass at a position
func createDynamicBody(position mgl64.Vec3, mass float64) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.NewTransformAt(position, mgl64.QuatIdent()),
		mass,
		mgl64.Ident3(),
		actor.BodyTypeDynamic,
	)
}

func createStaticBody(position mgl64.Vec3) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.NewTransformAt(position, mgl64.QuatIdent()),
		0.0,
		mgl64.Ident3(),
		actor.BodyTypeStatic,
	)
}

func stackedContactInfo(body1, body2 *actor.RigidBody, depth float64) *ContactInfo {
	return &ContactInfo{
		Normal:            mgl64.Vec3{0, 1, 0},
		PenetrationDepth:  depth,
		LocalPointOnBody1: mgl64.Vec3{0.5, 0.5, 0.5},
		LocalPointOnBody2: mgl64.Vec3{0.5, -0.5, 0.5},
		Body1:             body1,
		Body2:             body2,
	}
}

func TestOneOrthogonal(t *testing.T) {
	inputs := []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{-1, 0, 0},
		mgl64.Vec3{1, 1, 1}.Normalize(),
		mgl64.Vec3{0.999, 0.001, 0.001}.Normalize(),
		mgl64.Vec3{1e-8, 1, 1e-8}.Normalize(),
	}

	for _, v := range inputs {
		ortho := OneOrthogonal(v)

		if math.Abs(ortho.Len()-1.0) > 1e-12 {
			t.Errorf("OneOrthogonal(%v) is not unit length: %v", v, ortho.Len())
		}
		if math.Abs(ortho.Dot(v)) > 1e-12 {
			t.Errorf("OneOrthogonal(%v) is not perpendicular: dot = %v", v, ortho.Dot(v))
		}
	}
}

func TestContact_FrictionBasisRightHanded(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 1.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 1.0)

	normals := []mgl64.Vec3{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, -1},
		mgl64.Vec3{1, 2, 3}.Normalize(),
		mgl64.Vec3{-0.3, 0.9, 0.2}.Normalize(),
	}

	for _, normal := range normals {
		info := &ContactInfo{
			Normal:            normal,
			PenetrationDepth:  0.01,
			LocalPointOnBody1: mgl64.Vec3{0, 0.5, 0},
			LocalPointOnBody2: mgl64.Vec3{0, -0.5, 0},
			Body1:             body1,
			Body2:             body2,
		}
		c := NewContact(info, DefaultTuning())

		t1, t2 := c.FrictionVectors()

		if math.Abs(t1.Len()-1) > 1e-12 || math.Abs(t2.Len()-1) > 1e-12 {
			t.Errorf("normal %v: friction vectors are not unit length", normal)
		}
		if math.Abs(t1.Dot(normal)) > 1e-12 || math.Abs(t2.Dot(normal)) > 1e-12 {
			t.Errorf("normal %v: friction vectors are not tangent", normal)
		}
		if !t1.Cross(t2).ApproxEqualThreshold(normal, 1e-12) {
			t.Errorf("normal %v: t1 x t2 = %v, want the normal", normal, t1.Cross(t2))
		}
	}
}

func TestContact_FrozenAttributes(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 1.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 1.0)

	info := stackedContactInfo(body1, body2, 0.01)
	c := NewContact(info, DefaultTuning())

	c.SetWorldPointOnBody1(mgl64.Vec3{9, 9, 9})
	c.SetWorldPointOnBody2(mgl64.Vec3{8, 8, 8})
	c.SetPenetrationDepth(-0.5)

	if c.Normal() != info.Normal {
		t.Errorf("normal changed after refresh setters")
	}
	if c.LocalPointOnBody1() != info.LocalPointOnBody1 || c.LocalPointOnBody2() != info.LocalPointOnBody2 {
		t.Errorf("local anchors changed after refresh setters")
	}
	if c.PenetrationDepth() != -0.5 {
		t.Errorf("PenetrationDepth = %v, want -0.5", c.PenetrationDepth())
	}
}

func TestContact_ComputeJacobian(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 2.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 2.0)

	c := NewContact(stackedContactInfo(body1, body2, 0.01), DefaultTuning())
	c.SetWorldPointOnBody1(mgl64.Vec3{0.5, 0.5, 0.5})
	c.SetWorldPointOnBody2(mgl64.Vec3{0.5, 0.5, 0.5})

	rows := make([]JacobianRow, c.NbConstraints())
	c.ComputeJacobian(rows)

	// Row 0: non-penetration along the normal
	normal := mgl64.Vec3{0, 1, 0}
	if !rows[0].Linear1.ApproxEqualThreshold(normal.Mul(-1), 1e-12) {
		t.Errorf("row 0 Linear1 = %v, want %v", rows[0].Linear1, normal.Mul(-1))
	}
	if !rows[0].Linear2.ApproxEqualThreshold(normal, 1e-12) {
		t.Errorf("row 0 Linear2 = %v, want %v", rows[0].Linear2, normal)
	}

	// r1 = (0.5,0.5,0.5), r1 x n = (-0.5, 0, 0.5)
	if !rows[0].Angular1.ApproxEqualThreshold(mgl64.Vec3{0.5, 0, -0.5}, 1e-12) {
		t.Errorf("row 0 Angular1 = %v, want (0.5, 0, -0.5)", rows[0].Angular1)
	}
	// r2 = (0.5,-0.5,0.5), r2 x n = (-0.5, 0, 0.5)
	if !rows[0].Angular2.ApproxEqualThreshold(mgl64.Vec3{-0.5, 0, 0.5}, 1e-12) {
		t.Errorf("row 0 Angular2 = %v, want (-0.5, 0, 0.5)", rows[0].Angular2)
	}

	// Rows 1 and 2 run along the tangent basis
	t1, t2 := c.FrictionVectors()
	if !rows[1].Linear2.ApproxEqualThreshold(t1, 1e-12) {
		t.Errorf("row 1 Linear2 = %v, want t1 %v", rows[1].Linear2, t1)
	}
	if !rows[2].Linear2.ApproxEqualThreshold(t2, 1e-12) {
		t.Errorf("row 2 Linear2 = %v, want t2 %v", rows[2].Linear2, t2)
	}
	if !rows[1].Linear1.ApproxEqualThreshold(t1.Mul(-1), 1e-12) {
		t.Errorf("row 1 Linear1 = %v, want -t1", rows[1].Linear1)
	}
}

func TestContact_ComputeBounds(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 2.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 2.0)

	c := NewContact(stackedContactInfo(body1, body2, 0.01), DefaultTuning())

	lower := make([]float64, c.NbConstraints())
	upper := make([]float64, c.NbConstraints())
	c.ComputeLowerBounds(lower)
	c.ComputeUpperBounds(upper)

	if lower[0] != 0 {
		t.Errorf("normal row lower bound = %v, want 0", lower[0])
	}
	if !math.IsInf(upper[0], 1) {
		t.Errorf("normal row upper bound = %v, want +Inf", upper[0])
	}

	// mu = 0.3 (tuning fallback), contact mass 1/(1/2+1/2) = 1, g = 9.81
	wantLimit := 0.3 * 1.0 * 9.81
	for _, i := range []int{1, 2} {
		if math.Abs(lower[i]+wantLimit) > 1e-12 {
			t.Errorf("friction row %d lower bound = %v, want %v", i, lower[i], -wantLimit)
		}
		if math.Abs(upper[i]-wantLimit) > 1e-12 {
			t.Errorf("friction row %d upper bound = %v, want %v", i, upper[i], wantLimit)
		}
	}
}

func TestContact_ComputeBounds_MaterialFriction(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 1.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 1.0)
	body1.Material.StaticFriction = 0.5
	body2.Material.StaticFriction = 0.2

	c := NewContact(stackedContactInfo(body1, body2, 0.01), DefaultTuning())

	upper := make([]float64, c.NbConstraints())
	c.ComputeUpperBounds(upper)

	// Geometric mean of the material coefficients, contact mass 0.5
	wantLimit := math.Sqrt(0.5*0.2) * 0.5 * 9.81
	if math.Abs(upper[1]-wantLimit) > 1e-12 {
		t.Errorf("friction upper bound = %v, want %v", upper[1], wantLimit)
	}
}

func TestContact_ComputeBounds_StaticPair(t *testing.T) {
	body1 := createStaticBody(mgl64.Vec3{0, 0, 0})
	body2 := createStaticBody(mgl64.Vec3{0, 1, 0})

	c := NewContact(stackedContactInfo(body1, body2, 0.01), DefaultTuning())

	upper := make([]float64, c.NbConstraints())
	c.ComputeUpperBounds(upper)

	// Two static bodies have no finite contact mass: friction is unbounded
	if !math.IsInf(upper[1], 1) {
		t.Errorf("friction upper bound = %v, want +Inf for a static pair", upper[1])
	}
}

func TestContact_ComputeErrorValues(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 1.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 1.0)

	c := NewContact(stackedContactInfo(body1, body2, 0.105), DefaultTuning())

	v := make([]float64, c.NbConstraints())
	c.ComputeErrorValues(v)

	// bias 0.2 * (0.105 - slop 0.005)
	if math.Abs(v[0]-0.02) > 1e-12 {
		t.Errorf("normal row error = %v, want 0.02", v[0])
	}
	if v[1] != 0 || v[2] != 0 {
		t.Errorf("friction rows error = (%v, %v), want zero", v[1], v[2])
	}
}

func TestContact_ComputeErrorValues_WithinSlop(t *testing.T) {
	body1 := createDynamicBody(mgl64.Vec3{0, 0, 0}, 1.0)
	body2 := createDynamicBody(mgl64.Vec3{0, 1, 0}, 1.0)

	c := NewContact(stackedContactInfo(body1, body2, 0.003), DefaultTuning())

	v := make([]float64, c.NbConstraints())
	c.ComputeErrorValues(v)

	if v[0] != 0 {
		t.Errorf("normal row error = %v, want 0 for penetration within the slop", v[0])
	}
}
