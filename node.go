package rookery

// Hub-level event names emitted by the bus itself.
const (
	// EventMessage fires on every publish with the full original argument
	// list (topic first), before any subscription handler runs.
	EventMessage = "message"
	// EventNewTopic fires once per subscribe call with the topic and the
	// new Subscription.
	EventNewTopic = "new topic"
	// EventCancel fires once per subscription cancellation with the
	// cancelled Subscription.
	EventCancel = "cancel"
)

// Listener receives a generic emitter event. Arguments arrive exactly as
// they were passed to Emit, or to Publish for EventMessage.
type Listener func(args ...any)

// Handler receives the payload of one published message for a single
// subscription: the first publish argument (nil when the publish carried
// none) and the topic it arrived on.
type Handler func(payload any, topic string)

// Node is the uniform surface shared by the Hub and every Scope. Callers
// interact with any node the same way; publishes and emissions flow up to
// the hub while ownership of listeners and subscriptions stays with the
// node that issued the call.
//
// The unexported methods carry delegation and bookkeeping between nodes,
// which confines implementations to this package: the Hub is the terminal
// variant that owns the registries, the Scope the delegating one.
type Node interface {
	// On registers fn for event and returns the node for chaining. The
	// same function may be registered any number of times; it fires once
	// per registration.
	On(event string, fn Listener) Node
	// Off removes this node's first registration of fn for event, if any.
	// A missing registration is not an error.
	Off(event string, fn Listener) Node
	// Emit invokes every listener registered for event, in registration
	// order, with args passed through unchanged. Listener panics are not
	// intercepted.
	Emit(event string, args ...any) Node
	// Publish emits EventMessage with the full (topic, args...) list and
	// then invokes the handler of every live subscription whose topic is
	// exactly equal to topic.
	Publish(topic string, args ...any) Node
	// Subscribe registers a subscription for topic, owned by this node.
	// fn may be nil for a handle-only subscription.
	Subscribe(topic string, fn Handler) *Subscription
	// Unsubscribe cancels subscriptions for topic. On the hub it cancels
	// every subscription for the topic regardless of owner; on a scope
	// only the scope's own.
	Unsubscribe(topic string) Node
	// Scope returns a new child scope delegating to this node.
	Scope() *Scope
	// Count returns the live subscription census of the subtree rooted at
	// this node, grouped by topic.
	Count() *Census
	// CountAll returns Count merged with each ancestor's own
	// subscriptions, excluding sibling subtrees.
	CountAll() *Census

	addListener(owner, event string, fn Listener)
	removeListener(owner, event string, fn Listener) bool
	createSubscription(topic string, fn Handler) *Subscription
	ownCensus(c *Census)
	parentNode() Node
	detachChild(child *Scope)
}

var (
	_ Node = (*Hub)(nil)
	_ Node = (*Scope)(nil)
)

// listenerRef records one (event, listener) registration issued by a node,
// in registration order.
type listenerRef struct {
	event string
	fn    Listener
}
