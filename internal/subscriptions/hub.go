package subscriptions

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/logger"
)

// Hub pushes authoritative account snapshots to subscribed clients whenever
// a backing record changes. No ordering is guaranteed relative to writes
// issued from the same session; subscribers reconcile through the projector.
type Hub struct {
	mu   sync.Mutex
	subs map[uint]map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
}

// SnapshotMessage is the wire form of one account update.
type SnapshotMessage struct {
	UserID         uint  `json:"user_id"`
	Coins          int64 `json:"coins"`
	Diamonds       int64 `json:"diamonds"`
	Wealth         int64 `json:"wealth"`
	RechargePoints int64 `json:"recharge_points"`
	AgencyBalance  int64 `json:"agency_balance"`
	WealthLevel    int   `json:"wealth_level"`
	RechargeLevel  int   `json:"recharge_level"`
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[*subscriber]struct{})}
}

// Serve upgrades the request and streams snapshots for userID until the
// client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Warn("websocket accept failed", "error", err)
		return
	}

	sub := &subscriber{conn: conn}
	h.add(userID, sub)
	defer h.remove(userID, sub)

	// Block until the peer closes; subscribers only receive.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
	}
}

// Publish fans a fresh snapshot out to the user's subscribers.
func (h *Hub) Publish(ctx context.Context, snap models.Snapshot) {
	msg := SnapshotMessage{
		UserID:         snap.UserID,
		Coins:          snap.Coins,
		Diamonds:       snap.Diamonds,
		Wealth:         snap.Wealth,
		RechargePoints: snap.RechargePoints,
		AgencyBalance:  snap.AgencyBalance,
		WealthLevel:    models.ProgressLevel(snap.Wealth),
		RechargeLevel:  models.ProgressLevel(snap.RechargePoints),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal snapshot", "error", err)
		return
	}

	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs[snap.UserID]))
	for sub := range h.subs[snap.UserID] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		if err := sub.conn.Write(ctx, websocket.MessageText, data); err != nil {
			h.remove(snap.UserID, sub)
		}
	}
}

// SubscriberCount reports active subscriptions for a user.
func (h *Hub) SubscriberCount(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

func (h *Hub) add(userID uint, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
}

func (h *Hub) remove(userID uint, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, userID)
		}
	}
}
