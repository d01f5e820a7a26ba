package rookery

import (
	"log/slog"
	"slices"

	"github.com/fogfish/opts"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/casualjim/rookery/internal/registry"
	"github.com/casualjim/rookery/pkg/reflectx"
	"github.com/casualjim/rookery/pkg/slogx"
)

// Hub is the root of a scope tree: a generic named-event emitter plus the
// topic registry every node in the tree publishes through. It has no parent
// and requires no configuration.
//
// The hub owns all shared state. Scopes created from it (or from each
// other) delegate every primitive operation here while keeping their own
// ownership records, so tearing a scope down never disturbs subscriptions
// or listeners created elsewhere in the tree.
type Hub struct {
	id        string
	name      string
	log       *slog.Logger
	listeners *registry.Registry[Listener]
	topics    *orderedmap.OrderedMap[string, []*Subscription]
	ownSubs   []*Subscription
	children  []*Scope
}

// New creates a Hub. All options are optional; a zero-option hub is fully
// functional.
func New(options ...opts.Option[Hub]) *Hub {
	h := &Hub{
		id:        uuid.Must(uuid.NewV7()).String(),
		name:      "hub",
		listeners: registry.New[Listener](),
		topics:    orderedmap.New[string, []*Subscription](),
	}
	if err := opts.Apply(h, options); err != nil {
		panic(err)
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	h.log = h.log.With(slogx.LoggerName(h.name))
	return h
}

// Name returns the hub name.
func (h *Hub) Name() string {
	return h.name
}

// On registers fn for event. The same function may be registered multiple
// times and fires once per registration.
func (h *Hub) On(event string, fn Listener) Node {
	h.addListener(h.id, event, fn)
	return h
}

// Off removes the hub's first registration of fn for event, if present.
func (h *Hub) Off(event string, fn Listener) Node {
	h.removeListener(h.id, event, fn)
	return h
}

// Emit invokes every listener registered for event, in registration order,
// with args passed through unchanged. The listener list is snapshotted
// first, so listeners may register or remove listeners while the emission
// is in flight.
func (h *Hub) Emit(event string, args ...any) Node {
	for _, e := range h.listeners.Snapshot(event) {
		e.Fn(args...)
	}
	return h
}

// Publish emits EventMessage with the full (topic, args...) argument list,
// then invokes the handler of every live subscription registered for
// exactly topic with the first argument as payload.
func (h *Hub) Publish(topic string, args ...any) Node {
	h.Emit(EventMessage, append([]any{topic}, args...)...)

	subs, ok := h.topics.Get(topic)
	if !ok {
		return h
	}
	var payload any
	if len(args) > 0 {
		payload = args[0]
	}
	for _, sub := range slices.Clone(subs) {
		if sub.cancelled || sub.handler == nil {
			continue
		}
		sub.handler(payload, topic)
	}
	return h
}

// Subscribe creates a subscription for topic, owned by the hub itself.
func (h *Hub) Subscribe(topic string, fn Handler) *Subscription {
	sub := h.createSubscription(topic, fn)
	h.ownSubs = append(h.ownSubs, sub)
	return sub
}

// Unsubscribe cancels every subscription registered for topic, regardless
// of which node owns it, in insertion order. A topic with no subscriptions
// is not an error.
func (h *Hub) Unsubscribe(topic string) Node {
	subs, ok := h.topics.Get(topic)
	if !ok {
		return h
	}
	for _, sub := range slices.Clone(subs) {
		sub.Cancel()
	}
	h.ownSubs = slices.DeleteFunc(h.ownSubs, func(s *Subscription) bool { return s.cancelled })
	return h
}

// Scope returns a new scope whose parent is this hub.
func (h *Hub) Scope() *Scope {
	s := newScope(h, h)
	h.children = append(h.children, s)
	return s
}

// Count returns the live subscription census of the whole tree, grouped by
// topic.
func (h *Hub) Count() *Census {
	c := newCensus()
	h.ownCensus(c)
	for _, child := range h.children {
		child.collect(c)
	}
	return c
}

// CountAll is identical to Count: the hub has no ancestors to aggregate.
func (h *Hub) CountAll() *Census {
	return h.Count()
}

func (h *Hub) addListener(owner, event string, fn Listener) {
	h.listeners.Add(event, registry.Entry[Listener]{
		Owner: owner,
		Key:   reflectx.Key(fn),
		Fn:    fn,
	})
	h.log.Debug("listener added",
		slog.String("event", event),
		slog.String("listener", reflectx.Name(fn)),
	)
}

func (h *Hub) removeListener(owner, event string, fn Listener) bool {
	key := reflectx.Key(fn)
	return h.listeners.RemoveFirst(event, func(e registry.Entry[Listener]) bool {
		return e.Owner == owner && e.Key == key
	})
}

// createSubscription registers a subscription in the topic registry without
// recording ownership; the issuing node keeps the ownership record.
func (h *Hub) createSubscription(topic string, fn Handler) *Subscription {
	sub := newSubscription(topic, fn)
	sub.onCancel = func(s *Subscription) {
		h.dropSubscription(s)
		h.log.Debug("subscription cancelled", slogx.Stringer("subscription", s))
		h.Emit(EventCancel, s)
	}

	subs, _ := h.topics.Get(topic)
	h.topics.Set(topic, append(subs, sub))
	h.log.Debug("subscription created", slogx.Stringer("subscription", sub))
	h.Emit(EventNewTopic, topic, sub)
	return sub
}

// dropSubscription removes sub from the topic registry.
func (h *Hub) dropSubscription(sub *Subscription) {
	subs, ok := h.topics.Get(sub.topic)
	if !ok {
		return
	}
	subs = slices.DeleteFunc(subs, func(s *Subscription) bool { return s == sub })
	if len(subs) == 0 {
		h.topics.Delete(sub.topic)
		return
	}
	h.topics.Set(sub.topic, subs)
}

func (h *Hub) ownCensus(c *Census) {
	for _, sub := range h.ownSubs {
		if !sub.cancelled {
			c.Add(sub.topic, 1)
		}
	}
}

func (h *Hub) parentNode() Node { return nil }

func (h *Hub) detachChild(child *Scope) {
	h.children = slices.DeleteFunc(h.children, func(s *Scope) bool { return s == child })
}
