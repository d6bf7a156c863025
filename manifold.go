package mantle

import (
	"github.com/avencourt/mantle/actor"
	"github.com/avencourt/mantle/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// PersistentContactManifold caches up to MaxContactsInCache contact
// points for one pair of bodies across simulation steps.
//
// The narrow phase re-emits contacts every step, but feeding raw,
// frame-by-frame points to the solver makes stacks jitter: the cache
// keeps points alive as long as they still describe the same physical
// touch, rejects near-duplicate newcomers, and when full evicts the
// point whose removal leaves the largest support polygon in the tangent
// plane.
//
// The manifold holds non-owning references to its two bodies and must
// not outlive either. It has no internal synchronisation; the world
// steps manifolds so that no two goroutines touch manifolds sharing a
// body.
type PersistentContactManifold struct {
	body1 *actor.RigidBody
	body2 *actor.RigidBody

	contacts   [MaxContactsInCache]*constraint.Contact
	nbContacts int

	allocator constraint.ContactAllocator

	distThreshold float64

	// Consecutive world steps the manifold has been empty, for pruning
	emptySteps int
}

// NewManifold creates an empty manifold for the given body pair. Contacts
// are constructed and released through the given allocator, which the
// manifold does not own.
func NewManifold(body1, body2 *actor.RigidBody, allocator constraint.ContactAllocator) *PersistentContactManifold {
	return &PersistentContactManifold{
		body1:         body1,
		body2:         body2,
		allocator:     allocator,
		distThreshold: PersistentContactDistThreshold,
	}
}

// SetDistThreshold overrides the tangential drift distance above which a
// cached contact is dropped
func (m *PersistentContactManifold) SetDistThreshold(threshold float64) {
	m.distThreshold = threshold
}

func (m *PersistentContactManifold) Body1() *actor.RigidBody { return m.body1 }
func (m *PersistentContactManifold) Body2() *actor.RigidBody { return m.body2 }

// NbContacts returns the number of live contacts, in [0, MaxContactsInCache]
func (m *PersistentContactManifold) NbContacts() int { return m.nbContacts }

// Contact returns the live contact at index i
func (m *PersistentContactManifold) Contact(i int) *constraint.Contact {
	if i < 0 || i >= m.nbContacts {
		panic("manifold: contact index out of range")
	}
	return m.contacts[i]
}

// AddContact inserts a contact into the cache, taking ownership of it.
//
// A newcomer whose local anchor on body 1 matches a cached point is a
// duplicate and is released immediately; the cached point wins. When the
// cache is full, one existing point is evicted: the deepest penetration
// is protected, and among the rest the eviction that maximises the
// tangential area spanned by the surviving points plus the newcomer is
// chosen.
func (m *PersistentContactManifold) AddContact(contact *constraint.Contact) {
	if contact == nil {
		panic("manifold: add of nil contact")
	}

	for i := 0; i < m.nbContacts; i++ {
		if sameContactPoint(contact.LocalPointOnBody1(), m.contacts[i].LocalPointOnBody1()) {
			m.allocator.Release(contact)
			return
		}
	}

	if m.nbContacts == MaxContactsInCache {
		indexMaxPenetration := m.indexOfDeepestPenetration(contact)
		index := m.indexToRemove(indexMaxPenetration, contact.LocalPointOnBody1())
		m.allocator.Release(m.contacts[index])
		m.contacts[index] = contact
		return
	}

	m.contacts[m.nbContacts] = contact
	m.nbContacts++
}

// removeContact releases the contact at the given index and swaps the
// last live contact into its slot. Contact order carries no meaning for
// the solver.
func (m *PersistentContactManifold) removeContact(index int) {
	if index < 0 || index >= m.nbContacts {
		panic("manifold: remove index out of range")
	}

	m.allocator.Release(m.contacts[index])

	if index < m.nbContacts-1 {
		m.contacts[index] = m.contacts[m.nbContacts-1]
	}
	m.contacts[m.nbContacts-1] = nil
	m.nbContacts--
}

// Update refreshes the cache from the bodies' current transforms.
//
// World anchors are recomputed from the frozen local anchors and the
// penetration depth re-derived along the frozen normal. Contacts whose
// bodies have separated (depth <= 0) and contacts whose anchors have
// drifted too far apart in the plane orthogonal to the normal no longer
// represent the same persistent touch and are dropped. The normal itself
// is never recomputed: a normal made stale by rotation shows up as
// tangential drift and the point leaves through that cull.
func (m *PersistentContactManifold) Update(transform1, transform2 actor.Transform) {
	if m.nbContacts == 0 {
		return
	}

	for i := 0; i < m.nbContacts; i++ {
		c := m.contacts[i]
		c.SetWorldPointOnBody1(transform1.Apply(c.LocalPointOnBody1()))
		c.SetWorldPointOnBody2(transform2.Apply(c.LocalPointOnBody2()))
		c.SetPenetrationDepth(c.WorldPointOnBody1().Sub(c.WorldPointOnBody2()).Dot(c.Normal()))
	}

	// Iterate from the back so swap-removals stay index-safe
	for i := m.nbContacts - 1; i >= 0; i-- {
		c := m.contacts[i]

		if c.PenetrationDepth() <= 0.0 {
			m.removeContact(i)
			continue
		}

		// Distance of the two anchors in the plane orthogonal to the normal
		projOfPoint1 := c.WorldPointOnBody1().Sub(c.Normal().Mul(c.PenetrationDepth()))
		projDifference := c.WorldPointOnBody2().Sub(projOfPoint1)

		if projDifference.Dot(projDifference) > m.distThreshold*m.distThreshold {
			m.removeContact(i)
		}
	}
}

// Clear releases every live contact
func (m *PersistentContactManifold) Clear() {
	for i := 0; i < m.nbContacts; i++ {
		m.allocator.Release(m.contacts[i])
		m.contacts[i] = nil
	}
	m.nbContacts = 0
}

// indexOfDeepestPenetration returns the index of the cached contact with
// a strictly larger penetration depth than the new contact. That index is
// protected from eviction, keeping the physically most informative point.
// Returns -1 when the new contact is itself the deepest, in which case no
// cache index is protected.
func (m *PersistentContactManifold) indexOfDeepestPenetration(newContact *constraint.Contact) int {
	indexMaxPenetrationDepth := -1
	maxPenetrationDepth := newContact.PenetrationDepth()

	for i := 0; i < m.nbContacts; i++ {
		if m.contacts[i].PenetrationDepth() > maxPenetrationDepth {
			maxPenetrationDepth = m.contacts[i].PenetrationDepth()
			indexMaxPenetrationDepth = i
		}
	}

	return indexMaxPenetrationDepth
}

// indexToRemove scores each eviction candidate by the tangential area of
// the quadrilateral formed by the new point and the three surviving cache
// points, and returns the candidate whose removal leaves the largest
// area. The protected deepest index scores zero. Local anchors on body 1
// are used so the score holds still under rigid motion of the body, and
// the squared cross product magnitude avoids a square root on this hot
// path.
func (m *PersistentContactManifold) indexToRemove(indexMaxPenetration int, newPoint mgl64.Vec3) int {
	var area0, area1, area2, area3 float64

	if indexMaxPenetration != 0 {
		// Area of contacts 1,2,3 and the new point
		vector1 := newPoint.Sub(m.contacts[1].LocalPointOnBody1())
		vector2 := m.contacts[3].LocalPointOnBody1().Sub(m.contacts[2].LocalPointOnBody1())
		crossProduct := vector1.Cross(vector2)
		area0 = crossProduct.Dot(crossProduct)
	}
	if indexMaxPenetration != 1 {
		// Area of contacts 0,2,3 and the new point
		vector1 := newPoint.Sub(m.contacts[0].LocalPointOnBody1())
		vector2 := m.contacts[3].LocalPointOnBody1().Sub(m.contacts[2].LocalPointOnBody1())
		crossProduct := vector1.Cross(vector2)
		area1 = crossProduct.Dot(crossProduct)
	}
	if indexMaxPenetration != 2 {
		// Area of contacts 0,1,3 and the new point
		vector1 := newPoint.Sub(m.contacts[0].LocalPointOnBody1())
		vector2 := m.contacts[3].LocalPointOnBody1().Sub(m.contacts[1].LocalPointOnBody1())
		crossProduct := vector1.Cross(vector2)
		area2 = crossProduct.Dot(crossProduct)
	}
	if indexMaxPenetration != 3 {
		// Area of contacts 0,1,2 and the new point
		vector1 := newPoint.Sub(m.contacts[0].LocalPointOnBody1())
		vector2 := m.contacts[2].LocalPointOnBody1().Sub(m.contacts[1].LocalPointOnBody1())
		crossProduct := vector1.Cross(vector2)
		area3 = crossProduct.Dot(crossProduct)
	}

	return maxAreaIndex(area0, area1, area2, area3)
}

// maxAreaIndex returns the index of the maximum area
func maxAreaIndex(area0, area1, area2, area3 float64) int {
	if area0 < area1 {
		if area1 < area2 {
			if area2 < area3 {
				return 3
			}
			return 2
		}
		if area1 < area3 {
			return 3
		}
		return 1
	}
	if area0 < area2 {
		if area2 < area3 {
			return 3
		}
		return 2
	}
	if area0 < area3 {
		return 3
	}
	return 0
}

// sameContactPoint reports whether two local anchor points are the same
// contact point under the dedup tolerance
func sameContactPoint(a, b mgl64.Vec3) bool {
	diff := a.Sub(b)
	return diff.Dot(diff) <= ContactEqualityTolerance
}
