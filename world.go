package mantle

import (
	"github.com/avencourt/mantle/actor"
	"github.com/avencourt/mantle/config"
	"github.com/avencourt/mantle/constraint"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

// World owns the rigid bodies and the persistent contact manifolds of a
// simulation. It sits between the external narrow phase, which feeds it
// ContactInfo snapshots through NotifyContact, and the external solver,
// which reads the surviving constraints after Step.
//
// Per step the ordering is: NotifyContact* -> Step -> Constraints read.
// Adds must not be interleaved with Step.
type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody

	Workers int

	// RemovalWindow is the number of consecutive empty steps after which a
	// pair's manifold is destroyed
	RemovalWindow int

	Events Events

	pool      *constraint.ContactPool
	manifolds map[pairKey]*PersistentContactManifold

	distThreshold float64
	nextBodyId    int

	log *zap.Logger
}

// NewWorld creates a world from the given tuning configuration. A nil
// logger disables logging.
func NewWorld(cfg *config.Config, log *zap.Logger) *World {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	tuning := constraint.Tuning{
		Gravity:             cfg.Contact.Gravity,
		FrictionCoefficient: cfg.Contact.FrictionCoefficient,
		BaumgarteBias:       cfg.Contact.BaumgarteBias,
		ContactSlop:         cfg.Contact.Slop,
	}

	return &World{
		Workers:       cfg.World.Workers,
		RemovalWindow: cfg.World.RemovalWindow,
		pool:          constraint.NewContactPool(tuning),
		manifolds:     make(map[pairKey]*PersistentContactManifold),
		distThreshold: cfg.Contact.DistThreshold,
		log:           log,
	}
}

// Pool returns the world's contact allocator
func (w *World) Pool() *constraint.ContactPool {
	return w.pool
}

// AddBody adds a rigid body to the world and assigns its id
func (w *World) AddBody(body *actor.RigidBody) {
	body.Id = w.nextBodyId
	w.nextBodyId++
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world and destroys every
// manifold referencing it; manifolds must never outlive their bodies
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k == -1 {
		return
	}
	w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)

	for key, manifold := range w.manifolds {
		if key.a == body.Id || key.b == body.Id {
			w.destroyManifold(key, manifold)
		}
	}
	w.Events.flush()
}

// Manifold returns the manifold for the given pair, if the pair is active
func (w *World) Manifold(bodyA, bodyB *actor.RigidBody) (*PersistentContactManifold, bool) {
	m, ok := w.manifolds[makePairKey(bodyA, bodyB)]
	return m, ok
}

// NbManifolds returns the number of active body pairs
func (w *World) NbManifolds() int {
	return len(w.manifolds)
}

// NotifyContact routes a narrow-phase contact snapshot to the manifold of
// its body pair, creating the manifold when the pair first touches. The
// contact is constructed through the world's allocator and handed to the
// cache, which may discard it immediately as a duplicate.
func (w *World) NotifyContact(info *constraint.ContactInfo) {
	key := makePairKey(info.Body1, info.Body2)

	manifold, ok := w.manifolds[key]
	if !ok {
		manifold = NewManifold(info.Body1, info.Body2, w.pool)
		manifold.SetDistThreshold(w.distThreshold)
		w.manifolds[key] = manifold

		w.Events.push(PairBeginEvent{BodyA: manifold.body1, BodyB: manifold.body2})
		w.log.Debug("manifold created",
			zap.Int("body1", info.Body1.Id),
			zap.Int("body2", info.Body2.Id),
		)
	}

	manifold.AddContact(w.pool.Construct(info))
}

// Step refreshes every manifold from its bodies' current transforms and
// prunes pairs that have stayed separated for the removal window.
//
// Manifold refresh is fanned out island by island: no two workers ever
// touch manifolds sharing a body.
func (w *World) Step() {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	task(w.Workers, w.islands(), func(island []*PersistentContactManifold) {
		for _, manifold := range island {
			manifold.Update(manifold.body1.Transform, manifold.body2.Transform)
		}
	})

	for key, manifold := range w.manifolds {
		if manifold.NbContacts() > 0 {
			manifold.emptySteps = 0
			continue
		}

		manifold.emptySteps++
		if manifold.emptySteps >= w.RemovalWindow {
			w.destroyManifold(key, manifold)
		}
	}

	w.Events.flush()
}

// Constraints gathers the live contacts of every manifold for the solver
func (w *World) Constraints() []constraint.Constraint {
	constraints := make([]constraint.Constraint, 0, len(w.manifolds))
	for _, manifold := range w.manifolds {
		for i := 0; i < manifold.NbContacts(); i++ {
			constraints = append(constraints, manifold.Contact(i))
		}
	}
	return constraints
}

func (w *World) destroyManifold(key pairKey, manifold *PersistentContactManifold) {
	manifold.Clear()
	delete(w.manifolds, key)

	w.Events.push(PairEndEvent{BodyA: manifold.body1, BodyB: manifold.body2})
	w.log.Debug("manifold destroyed",
		zap.Int("body1", manifold.body1.Id),
		zap.Int("body2", manifold.body2.Id),
	)
}
