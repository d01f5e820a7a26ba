package rookery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDelegation(t *testing.T) {
	t.Run("publish reaches the hub with identical arguments", func(t *testing.T) {
		h := New()
		s := h.Scope()
		var got []any
		h.On(EventMessage, func(args ...any) { got = args })

		extra := map[string]string{"a": "b"}
		s.Publish("a", "b", extra)
		require.Len(t, got, 3)
		assert.Equal(t, "a", got[0])
		assert.Equal(t, "b", got[1])
		assert.Equal(t, extra, got[2])
	})

	t.Run("emit reaches hub listeners through any depth", func(t *testing.T) {
		h := New()
		deep := h.Scope().Scope().Scope()
		var got []any
		h.On("tick", func(args ...any) { got = args })

		deep.Emit("tick", 1, 2)
		assert.Equal(t, []any{1, 2}, got)
	})

	t.Run("scope listeners fire for hub-level publishes", func(t *testing.T) {
		h := New()
		s := h.Scope()
		fired := false
		s.On(EventMessage, func(args ...any) { fired = true })

		h.Publish("a", "x")
		assert.True(t, fired)
	})

	t.Run("scope subscriptions receive hub-level publishes", func(t *testing.T) {
		h := New()
		s := h.Scope()
		var payload any
		s.Subscribe("a", func(p any, tp string) { payload = p })

		h.Publish("a", "hello")
		assert.Equal(t, "hello", payload)
	})
}

func TestScopeOwnership(t *testing.T) {
	t.Run("parent subscriptions are invisible to the scope census", func(t *testing.T) {
		h := New()
		h.Subscribe("a", nil)
		s := h.Scope()

		assert.Equal(t, 0, s.Count().Len())
	})

	t.Run("unsubscribe cancels only the scope's own subscriptions", func(t *testing.T) {
		h := New()
		s := h.Scope()
		scopeFired := false
		hubFired := false
		s.Subscribe("a", func(any, string) { scopeFired = true })
		h.Subscribe("a", func(any, string) { hubFired = true })

		s.Unsubscribe("a")
		h.Publish("a")
		assert.False(t, scopeFired)
		assert.True(t, hubFired)
	})

	t.Run("sibling scopes do not interfere", func(t *testing.T) {
		h := New()
		left := h.Scope()
		right := h.Scope()
		leftSub := left.Subscribe("a", nil)
		rightSub := right.Subscribe("a", nil)

		left.Unsubscribe("a")
		assert.True(t, leftSub.Cancelled())
		assert.False(t, rightSub.Cancelled())
		assert.Equal(t, 1, right.Count().Get("a"))
	})

	t.Run("off leaves an identical listener owned by the parent alone", func(t *testing.T) {
		h := New()
		s := h.Scope()
		count := 0
		fn := func(args ...any) { count++ }
		h.On("tick", fn)
		s.On("tick", fn)

		s.Off("tick", fn)
		h.Emit("tick")
		assert.Equal(t, 1, count)
	})
}

func TestScopeCount(t *testing.T) {
	t.Run("census of the subtree", func(t *testing.T) {
		h := New()
		h.Subscribe("a", nil)
		h.Subscribe("b", nil)
		s := h.Scope()
		s.Subscribe("a", nil)
		s.Subscribe("a", nil)
		s.Subscribe("b", nil)
		s.Subscribe("c.d.e", nil)

		assert.Equal(t, map[string]int{"a": 2, "b": 1, "c.d.e": 1}, s.Count().Map())
		assert.Equal(t, map[string]int{"a": 3, "b": 2, "c.d.e": 1}, s.CountAll().Map())
	})

	t.Run("includes descendants recursively", func(t *testing.T) {
		h := New()
		s := h.Scope()
		s.Subscribe("a", nil)
		child := s.Scope()
		child.Subscribe("a", nil)
		grandchild := child.Scope()
		grandchild.Subscribe("b", nil)

		assert.Equal(t, map[string]int{"a": 2, "b": 1}, s.Count().Map())
		assert.Equal(t, map[string]int{"a": 1, "b": 1}, child.Count().Map())
	})

	t.Run("count all excludes sibling subtrees", func(t *testing.T) {
		h := New()
		h.Subscribe("a", nil)
		s := h.Scope()
		sibling := h.Scope()
		sibling.Subscribe("a", nil)
		sibling.Subscribe("b", nil)
		child := s.Scope()
		child.Subscribe("a", nil)

		assert.Equal(t, map[string]int{"a": 2}, child.CountAll().Map())
	})

	t.Run("count all includes ancestor own subscriptions at every level", func(t *testing.T) {
		h := New()
		h.Subscribe("root", nil)
		mid := h.Scope()
		mid.Subscribe("mid", nil)
		leaf := mid.Scope()
		leaf.Subscribe("leaf", nil)

		assert.Equal(t, map[string]int{"leaf": 1, "mid": 1, "root": 1}, leaf.CountAll().Map())
	})
}

func TestScopeDestroy(t *testing.T) {
	t.Run("cancels own subscriptions in creation order", func(t *testing.T) {
		h := New()
		var cancelled []*Subscription
		h.On(EventCancel, func(args ...any) {
			cancelled = append(cancelled, args[0].(*Subscription))
		})

		s := h.Scope()
		sub1 := s.Subscribe("a", nil)
		sub2 := s.Subscribe("sandbox.a", nil)

		s.Destroy()
		require.Len(t, cancelled, 2)
		assert.Same(t, sub1, cancelled[0])
		assert.Same(t, sub2, cancelled[1])
	})

	t.Run("leaves parent state untouched", func(t *testing.T) {
		h := New()
		hubSub := h.Subscribe("a", nil)
		hubFired := false
		h.On("tick", func(args ...any) { hubFired = true })

		s := h.Scope()
		s.Subscribe("a", nil)
		s.On("tick", func(args ...any) {})

		s.Destroy()
		assert.False(t, hubSub.Cancelled())
		h.Emit("tick")
		assert.True(t, hubFired)
		assert.Equal(t, 1, h.Count().Get("a"))
	})

	t.Run("removes the scope's listeners", func(t *testing.T) {
		h := New()
		s := h.Scope()
		fired := false
		s.On(EventMessage, func(args ...any) { fired = true })

		s.Destroy()
		h.Publish("a", "x")
		assert.False(t, fired)
	})

	t.Run("cancel listeners on the dying scope fire before removal", func(t *testing.T) {
		h := New()
		s := h.Scope()
		var seen []*Subscription
		s.On(EventCancel, func(args ...any) {
			seen = append(seen, args[0].(*Subscription))
		})
		sub1 := s.Subscribe("a", nil)
		sub2 := s.Subscribe("b", nil)

		s.Destroy()
		require.Len(t, seen, 2)
		assert.Same(t, sub1, seen[0])
		assert.Same(t, sub2, seen[1])
	})

	t.Run("destroys children recursively", func(t *testing.T) {
		h := New()
		s := h.Scope()
		child := s.Scope()
		grandchild := child.Scope()
		childSub := child.Subscribe("a", nil)
		grandchildSub := grandchild.Subscribe("b", nil)

		s.Destroy()
		assert.True(t, child.Destroyed())
		assert.True(t, grandchild.Destroyed())
		assert.True(t, childSub.Cancelled())
		assert.True(t, grandchildSub.Cancelled())
		assert.Equal(t, 0, h.Count().Len())
	})

	t.Run("children go down before the parent's own subscriptions", func(t *testing.T) {
		h := New()
		var order []string
		h.On(EventCancel, func(args ...any) {
			order = append(order, args[0].(*Subscription).Topic())
		})

		s := h.Scope()
		s.Subscribe("parent", nil)
		child := s.Scope()
		child.Subscribe("child", nil)

		s.Destroy()
		assert.Equal(t, []string{"child", "parent"}, order)
	})

	t.Run("is idempotent", func(t *testing.T) {
		h := New()
		cancels := 0
		h.On(EventCancel, func(args ...any) { cancels++ })

		s := h.Scope()
		s.Subscribe("a", nil)

		s.Destroy()
		s.Destroy()
		assert.Equal(t, 1, cancels)
	})

	t.Run("detaches from the parent census", func(t *testing.T) {
		h := New()
		s := h.Scope()
		s.Subscribe("a", nil)

		s.Destroy()
		assert.Equal(t, 0, h.Count().Len())
	})

	t.Run("operations on a destroyed scope are safe no-ops", func(t *testing.T) {
		h := New()
		s := h.Scope()
		s.Destroy()

		assert.NotPanics(t, func() {
			s.On("tick", func(args ...any) {})
			s.Off("tick", func(args ...any) {})
			s.Unsubscribe("a")
		})

		sub := s.Subscribe("a", nil)
		require.NotNil(t, sub)
		assert.True(t, sub.Cancelled())
		assert.Equal(t, 0, h.Count().Len())
	})

	t.Run("already-cancelled subscriptions do not break teardown", func(t *testing.T) {
		h := New()
		s := h.Scope()
		sub := s.Subscribe("a", nil)
		sub.Cancel()

		assert.NotPanics(t, s.Destroy)
	})
}

func TestScopeChaining(t *testing.T) {
	h := New()
	s := h.Scope()
	n := s.On("tick", func(args ...any) {}).
		Emit("tick").
		Publish("a", "x").
		Unsubscribe("a")
	assert.Same(t, Node(s), n)
}
