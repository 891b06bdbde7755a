package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMatches(t *testing.T) {
	ev := Event{Kind: EventCreated, ComplaintID: "c1", StudentID: "s1"}

	// Empty studentID is the unfiltered admin view.
	assert.True(t, ev.Matches(""))
	assert.True(t, ev.Matches("s1"))
	assert.False(t, ev.Matches("s2"))
}

/* ============================ Subscription ============================== */

// fakePubsub stands in for redis.PubSub: messages pushed into msgs flow to
// the pump, and Close closes the message stream like the real client does.
type fakePubsub struct {
	msgs chan *redis.Message
	once sync.Once
}

func newFakePubsub() *fakePubsub {
	return &fakePubsub{msgs: make(chan *redis.Message)}
}

func (f *fakePubsub) Channel(opts ...redis.ChannelOption) <-chan *redis.Message {
	return f.msgs
}

func (f *fakePubsub) Close() error {
	f.once.Do(func() { close(f.msgs) })
	return nil
}

func (f *fakePubsub) push(payload string) {
	f.msgs <- &redis.Message{Channel: changeChannel, Payload: payload}
}

func recvEvent(t *testing.T, c <-chan Event) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-c:
		return ev, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}, false
	}
}

func TestSubscription_DecodesEvents(t *testing.T) {
	ps := newFakePubsub()
	sub := newSubscription(context.Background(), ps)
	defer sub.Close()

	go ps.push(`{"kind":"created","complaint_id":"c1","student_id":"s1"}`)

	ev, ok := recvEvent(t, sub.C)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: EventCreated, ComplaintID: "c1", StudentID: "s1"}, ev)
}

// A malformed payload is skipped, not delivered and not fatal to the pump.
func TestSubscription_SkipsBadPayload(t *testing.T) {
	ps := newFakePubsub()
	sub := newSubscription(context.Background(), ps)
	defer sub.Close()

	go func() {
		ps.push(`{not json`)
		ps.push(`{"kind":"status_updated","complaint_id":"c2","student_id":"s2"}`)
	}()

	ev, ok := recvEvent(t, sub.C)
	require.True(t, ok)
	assert.Equal(t, EventStatusUpdated, ev.Kind)
	assert.Equal(t, "c2", ev.ComplaintID)
}

// Closing the subscription closes C, so a ranging consumer terminates.
func TestSubscription_CloseClosesChannel(t *testing.T) {
	ps := newFakePubsub()
	sub := newSubscription(context.Background(), ps)

	require.NoError(t, sub.Close())

	_, ok := recvEvent(t, sub.C)
	assert.False(t, ok)
}
