package mantle

const (
	// MaxContactsInCache is the fixed capacity of a persistent contact
	// manifold. Four well-spread points are enough for a stable support
	// polygon.
	MaxContactsInCache = 4

	// PersistentContactDistThreshold is the allowed distance, in the plane
	// orthogonal to the contact normal, between the two anchors of a cached
	// contact before it is dropped (world units).
	PersistentContactDistThreshold = 0.02

	// ContactEqualityTolerance is the squared distance between two local
	// anchor points under which two contacts count as the same point.
	ContactEqualityTolerance = 1e-6
)
