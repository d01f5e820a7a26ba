/*
Package rookery provides an in-process, topic-addressed publish/subscribe hub
with hierarchical scoping: any consumer can obtain a scoped view of the
shared hub, use it exactly like the hub itself, and later tear that scope
down as a single operation that reverses exactly the effects the scope
caused.

The package is built around three cooperating abstractions:

  - Hub: the root node, owning the topic registry and a generic named-event
    emitter (On/Off/Emit)
  - Scope: a delegating node bound to a parent (hub or another scope),
    tracking only what it itself created, supporting isolated teardown
  - Subscription: a cancellable handle representing one Subscribe call

# Basic Usage

A hub requires no configuration. Scopes nest to arbitrary depth, and every
node shares the same operation set:

	hub := rookery.New()
	hub.On(rookery.EventMessage, func(args ...any) {
		// raw bus feed: (topic, args...) of every publish
	})

	worker := hub.Scope()
	worker.Subscribe("jobs.completed", func(payload any, topic string) {
		// simplified view: first publish argument plus topic
	})

	hub.Publish("jobs.completed", result)

	// cancels the scope's subscriptions and removes its listeners,
	// leaving everything registered elsewhere untouched
	worker.Destroy()

# Ownership

Publish and Emit calls flow upward, unmodified, until they reach the hub
where matching happens and listeners fire. Subscribe and On also flow up to
create the underlying registration at the hub, but the record of who asked
for it stays with the node that issued the call. Destroy, Count, CountAll,
and Unsubscribe operate on those local records: destruction of one scope
never leaks into, or erases, sibling or ancestor state.

Count reports the live subscription census of a node's subtree grouped by
topic; CountAll adds each ancestor's own subscriptions, excluding sibling
subtrees.

# Delivery

Topic matching is exact string equality; dotted names like "c.d.e" carry no
hierarchy. Dispatch is synchronous and single-threaded: every operation
runs to completion before returning, and listener panics propagate to the
caller that triggered the emission. The hub emits three events of its own:
EventMessage for every publish (full argument list), EventNewTopic per
subscribe call, and EventCancel per subscription cancellation.
*/
package rookery
