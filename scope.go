package rookery

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/casualjim/rookery/pkg/reflectx"
)

// Scope is a delegating view over a parent node (the hub or another scope)
// with the same operation set. Every primitive call flows up to the hub;
// the scope records which listeners and subscriptions it personally caused
// to exist, plus which child scopes it spawned, so Destroy reverses exactly
// those effects and nothing else.
type Scope struct {
	id           string
	parent       Node
	hub          *Hub
	ownSubs      []*Subscription
	ownListeners []listenerRef
	children     []*Scope
	destroyed    bool
}

func newScope(parent Node, hub *Hub) *Scope {
	return &Scope{
		id:     uuid.Must(uuid.NewV7()).String(),
		parent: parent,
		hub:    hub,
	}
}

// On registers fn for event at the hub, tagged as owned by this scope.
func (s *Scope) On(event string, fn Listener) Node {
	if s.destroyed {
		return s
	}
	s.parent.addListener(s.id, event, fn)
	s.ownListeners = append(s.ownListeners, listenerRef{event: event, fn: fn})
	return s
}

// Off removes this scope's first registration of fn for event. Listeners
// registered by other nodes are untouched, even when they are the same
// function.
func (s *Scope) Off(event string, fn Listener) Node {
	if s.destroyed {
		return s
	}
	if !s.parent.removeListener(s.id, event, fn) {
		return s
	}
	key := reflectx.Key(fn)
	for i, ref := range s.ownListeners {
		if ref.event == event && reflectx.Key(ref.fn) == key {
			s.ownListeners = slices.Delete(s.ownListeners, i, i+1)
			break
		}
	}
	return s
}

// Emit passes the event through to the parent unchanged.
func (s *Scope) Emit(event string, args ...any) Node {
	s.parent.Emit(event, args...)
	return s
}

// Publish passes the publish through to the parent unchanged.
func (s *Scope) Publish(topic string, args ...any) Node {
	s.parent.Publish(topic, args...)
	return s
}

// Subscribe creates a subscription for topic at the hub, owned by this
// scope. On a destroyed scope it returns an already-cancelled handle that
// was never registered.
func (s *Scope) Subscribe(topic string, fn Handler) *Subscription {
	if s.destroyed {
		dead := newSubscription(topic, fn)
		dead.cancelled = true
		return dead
	}
	sub := s.parent.createSubscription(topic, fn)
	s.ownSubs = append(s.ownSubs, sub)
	return sub
}

// Unsubscribe cancels every subscription for topic owned by this scope
// specifically. Subscriptions with the same topic owned by the parent or by
// sibling and child scopes are untouched.
func (s *Scope) Unsubscribe(topic string) Node {
	if s.destroyed {
		return s
	}
	for _, sub := range slices.Clone(s.ownSubs) {
		if sub.topic == topic {
			sub.Cancel()
		}
	}
	s.ownSubs = slices.DeleteFunc(s.ownSubs, func(sub *Subscription) bool { return sub.cancelled })
	return s
}

// Scope returns a new child scope delegating to this scope.
func (s *Scope) Scope() *Scope {
	child := newScope(s, s.hub)
	s.children = append(s.children, child)
	return child
}

// Count returns the live subscription census of the subtree rooted at this
// scope: its own subscriptions plus, recursively, every child's.
func (s *Scope) Count() *Census {
	c := newCensus()
	s.collect(c)
	return c
}

// CountAll returns Count merged with each ancestor's own subscriptions up
// to and including the hub. Sibling subtrees are excluded.
func (s *Scope) CountAll() *Census {
	c := s.Count()
	for n := s.parentNode(); n != nil; n = n.parentNode() {
		n.ownCensus(c)
	}
	return c
}

// Destroy tears the scope down in two phases: children first, then every
// subscription this scope owns, in creation order, and only after all of
// them are cancelled the listeners this scope registered. A cancel listener
// registered on this very scope therefore still fires for the scope's own
// subscriptions before it is removed. Destroying an already-destroyed scope
// is a no-op.
func (s *Scope) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	for _, child := range slices.Clone(s.children) {
		child.Destroy()
	}
	s.children = nil

	for _, sub := range s.ownSubs {
		sub.Cancel()
	}
	s.ownSubs = nil

	for _, ref := range s.ownListeners {
		s.parent.removeListener(s.id, ref.event, ref.fn)
	}
	s.ownListeners = nil

	s.parent.detachChild(s)
	s.hub.log.Debug("scope destroyed", slog.String("scope", s.id))
}

// Destroyed reports whether Destroy has run on this scope.
func (s *Scope) Destroyed() bool {
	return s.destroyed
}

// collect folds this scope's live subscriptions and, recursively, every
// child's into c.
func (s *Scope) collect(c *Census) {
	s.ownCensus(c)
	for _, child := range s.children {
		child.collect(c)
	}
}

func (s *Scope) addListener(owner, event string, fn Listener) {
	s.parent.addListener(owner, event, fn)
}

func (s *Scope) removeListener(owner, event string, fn Listener) bool {
	return s.parent.removeListener(owner, event, fn)
}

func (s *Scope) createSubscription(topic string, fn Handler) *Subscription {
	return s.parent.createSubscription(topic, fn)
}

func (s *Scope) ownCensus(c *Census) {
	for _, sub := range s.ownSubs {
		if !sub.cancelled {
			c.Add(sub.topic, 1)
		}
	}
}

func (s *Scope) parentNode() Node { return s.parent }

func (s *Scope) detachChild(child *Scope) {
	s.children = slices.DeleteFunc(s.children, func(sc *Scope) bool { return sc == child })
}
