package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func noopHandler() Handler {
	return HandlerFunc(func(context.Context, any) error { return nil })
}

func TestRegistry_AddRemove(t *testing.T) {
	r := NewRegistry()
	a := newSubscription("a", ChannelLifecycle, noopHandler())
	b := newSubscription("b", ChannelLifecycle, noopHandler(), WithPriority(PriorityHigh))
	c := newSubscription("c", ChannelPanelRemoval, noopHandler())
	r.Add(a)
	r.Add(b)
	r.Add(c)

	assert.Equal(t, 3, r.Count())
	got := r.Match(ChannelLifecycle)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "b", got[0].ID())
		assert.Equal(t, "a", got[1].ID())
	}

	snapshot := r.Match(ChannelLifecycle)
	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.Len(t, snapshot, 2, "earlier match results are not modified")
	assert.Len(t, r.Match(ChannelLifecycle), 1)

	_, ok := r.Get("c")
	assert.True(t, ok)

	c.Pause()
	assert.Empty(t, r.MatchActive(ChannelPanelRemoval))
	assert.Equal(t, 1, r.CountActive())

	r.Clear()
	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.Match(ChannelLifecycle))
}

func TestSubscriptionState(t *testing.T) {
	s := newSubscription("s", ChannelLifecycle, noopHandler())
	assert.Equal(t, "active", s.State().String())

	s.Pause()
	assert.Equal(t, SubscriptionStatePaused, s.State())
	s.Resume()
	assert.True(t, s.IsActive())

	s.Cancel()
	s.Resume()
	assert.Equal(t, "cancelled", s.State().String())
	assert.False(t, s.ShouldDeliver(Event{}))
}
