package complaints

import (
	"context"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campuscare/campus-care-backend/internal/store"
	"github.com/campuscare/campus-care-backend/pkg/models"
)

// liveSnapshot is one full re-delivery of a live query's result set. There
// is no incremental diffing: every change pushes the whole current list.
type liveSnapshot struct {
	Items []ComplaintListItem `json:"items"`
	Total int64               `json:"total"`
}

// UpgradeRequired rejects plain HTTP requests on websocket routes.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// liveConn is the slice of the websocket connection the snapshot loop needs.
type liveConn interface {
	WriteJSON(v any) error
}

// Live streams list snapshots over a websocket. Students receive their own
// complaints, admins the unfiltered list. The underlying change subscription
// is torn down when the socket closes.
func (h *Handler) Live() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		role, _ := conn.Locals("role").(string)

		uid, err := uuid.Parse(userID)
		if err != nil {
			_ = conn.Close()
			return
		}
		admin := role == string(models.RoleAdmin)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := h.notifier.Subscribe(ctx)
		defer sub.Close()

		// The read pump only watches for the peer going away.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		h.streamSnapshots(ctx, conn, sub.C, uid, admin)
	})
}

// streamSnapshots pushes the full current result set once up front, then
// again on every matching change event, until the event stream or the
// context ends. Events carry no data; every delivery is a fresh query.
func (h *Handler) streamSnapshots(ctx context.Context, conn liveConn, events <-chan store.Event, uid uuid.UUID, admin bool) {
	ownerFilter := uid.String()
	filter := store.ComplaintFilter{StudentID: &uid}
	if admin {
		ownerFilter = ""
		filter = store.ComplaintFilter{}
	}

	send := func() error {
		list, total, err := h.store.ListComplaints(ctx, filter, 1, 50)
		if err != nil {
			return err
		}
		return conn.WriteJSON(liveSnapshot{Items: toListItems(list, admin), Total: total})
	}

	if err := send(); err != nil {
		return
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !ev.Matches(ownerFilter) {
				continue
			}
			if err := send(); err != nil {
				log.Printf("live feed: send failed: %v", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
