package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// changeChannel is the single Redis Pub/Sub channel all complaint change
// events go through. Subscribers filter on the event's StudentID.
const changeChannel = "complaints:changes"

type EventKind string

const (
	EventCreated       EventKind = "created"
	EventStatusUpdated EventKind = "status_updated"
)

// Event signals that a complaint changed. It carries no document data:
// subscribers re-run their query and receive the full result set.
type Event struct {
	Kind        EventKind `json:"kind"`
	ComplaintID string    `json:"complaint_id"`
	StudentID   string    `json:"student_id"`
}

// Matches reports whether the event is relevant for a view owned by
// studentID. An empty studentID means the unfiltered admin view.
func (e Event) Matches(studentID string) bool {
	return studentID == "" || e.StudentID == studentID
}

// Notifier fans complaint change events out over Redis Pub/Sub so every
// server instance sees writes made by any of them.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, changeChannel, payload).Err()
}

// pubsubConn is the slice of redis.PubSub the subscription pump needs.
type pubsubConn interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// Subscription is a standing registration on the change channel. It must be
// closed when its owning view goes away, or the registration leaks. Closing
// it also closes C.
type Subscription struct {
	C    <-chan Event
	conn pubsubConn
}

func (s *Subscription) Close() error {
	return s.conn.Close()
}

// Subscribe registers on the change channel and decodes events onto the
// returned subscription's channel.
func (n *Notifier) Subscribe(ctx context.Context) *Subscription {
	return newSubscription(ctx, n.rdb.Subscribe(ctx, changeChannel))
}

func newSubscription(ctx context.Context, conn pubsubConn) *Subscription {
	out := make(chan Event)

	go func() {
		defer close(out)
		for msg := range conn.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("notifier: bad event payload: %v", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Subscription{C: out, conn: conn}
}
