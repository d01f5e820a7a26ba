package rookery

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Subscription is the cancellable handle returned by one Subscribe call.
// It is bound to exactly one topic and one owning node, and carries its own
// tiny emitter so holders can observe its cancellation.
type Subscription struct {
	id        string
	topic     string
	handler   Handler
	createdAt strfmt.DateTime
	cancelled bool
	cancels   []Listener
	onCancel  func(*Subscription)
}

func newSubscription(topic string, fn Handler) *Subscription {
	return &Subscription{
		id:        uuid.Must(uuid.NewV7()).String(),
		topic:     topic,
		handler:   fn,
		createdAt: strfmt.DateTime(time.Now()),
	}
}

// ID returns the unique identifier of this subscription.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the topic this subscription was created for, fixed at
// creation.
func (s *Subscription) Topic() string {
	return s.topic
}

// CreatedAt returns the time the subscription was created.
func (s *Subscription) CreatedAt() strfmt.DateTime {
	return s.createdAt
}

// Cancelled reports whether this subscription has been cancelled. Once true
// it never reverts.
func (s *Subscription) Cancelled() bool {
	return s.cancelled
}

// On registers fn to fire when this subscription is cancelled. Only
// EventCancel is recognized; any other event name is ignored. Returns the
// subscription for chaining.
func (s *Subscription) On(event string, fn Listener) *Subscription {
	if event == EventCancel && fn != nil {
		s.cancels = append(s.cancels, fn)
	}
	return s
}

// Cancel marks the subscription cancelled, fires its own cancel listeners,
// and reports the cancellation upward so the hub can deregister it and emit
// EventCancel. Cancelling an already-cancelled subscription is a no-op.
func (s *Subscription) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	for _, fn := range s.cancels {
		fn()
	}
	s.cancels = nil
	if s.onCancel != nil {
		s.onCancel(s)
	}
}

func (s *Subscription) String() string {
	return fmt.Sprintf("subscription %s on %q", s.id, s.topic)
}
