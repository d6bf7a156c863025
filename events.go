package mantle

import "github.com/avencourt/mantle/actor"

const (
	PAIR_BEGIN EventType = iota
	PAIR_END
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// PairBeginEvent is emitted when a body pair first produces a contact and
// its manifold is created
type PairBeginEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e PairBeginEvent) Type() EventType { return PAIR_BEGIN }

// PairEndEvent is emitted when a pair is broken and its manifold destroyed:
// the bodies stayed separated for the removal window, or one of them was
// removed from the world
type PairEndEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e PairEndEvent) Type() EventType { return PAIR_END }

// Events queues pair lifecycle events during a step and delivers them to
// the registered listeners when the step flushes
type Events struct {
	queue     []Event
	listeners []func(Event)
}

// RegisterListener adds a callback invoked for every event at flush time
func (e *Events) RegisterListener(listener func(Event)) {
	e.listeners = append(e.listeners, listener)
}

func (e *Events) push(event Event) {
	if len(e.listeners) == 0 {
		return
	}
	e.queue = append(e.queue, event)
}

func (e *Events) flush() {
	for _, event := range e.queue {
		for _, listener := range e.listeners {
			listener(event)
		}
	}
	e.queue = e.queue[:0]
}

// pairKey identifies a body pair independently of argument order
type pairKey struct {
	a, b int
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	if bodyB.Id < bodyA.Id {
		bodyA, bodyB = bodyB, bodyA
	}
	return pairKey{a: bodyA.Id, b: bodyB.Id}
}
