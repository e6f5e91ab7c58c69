package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/mroshb/liveroom/internal/game"
	"github.com/mroshb/liveroom/internal/middleware"
	"github.com/mroshb/liveroom/internal/services"
	"github.com/mroshb/liveroom/pkg/errors"
)

// wheelSession is one user's lion-wheel table. Rounds are driven by the
// bet/resolve endpoints rather than the wall-clock Run loop so a client
// controls its own pacing.
type wheelSession struct {
	engine *game.WheelEngine
}

type slotsSession struct {
	engine *game.SlotsEngine
}

func (m *HandlerManager) wheelSession(r *http.Request, userID uint) (*wheelSession, error) {
	if v, ok := m.wheelSessions.Load(userID); ok {
		return v.(*wheelSession), nil
	}

	settings, err := m.SettingsRepo.GetGameSettings(r.Context())
	if err != nil {
		return nil, err
	}

	wallet := services.NewWallet(m.Economy, userID)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session := &wheelSession{engine: game.NewWheelEngine(game.LionConfigFrom(settings), wallet, rng)}

	actual, _ := m.wheelSessions.LoadOrStore(userID, session)
	return actual.(*wheelSession), nil
}

func (m *HandlerManager) slotsSession(r *http.Request, userID uint) (*slotsSession, error) {
	if v, ok := m.slotsSessions.Load(userID); ok {
		return v.(*slotsSession), nil
	}

	settings, err := m.SettingsRepo.GetGameSettings(r.Context())
	if err != nil {
		return nil, err
	}

	wallet := services.NewWallet(m.Economy, userID)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session := &slotsSession{engine: game.NewSlotsEngine(game.SlotsConfigFrom(settings), wallet, rng)}

	actual, _ := m.slotsSessions.LoadOrStore(userID, session)
	return actual.(*slotsSession), nil
}

type slotsSpinRequest struct {
	Bet int64 `json:"bet"`
}

// SlotsSpin runs one slot-machine spin for the caller.
func (m *HandlerManager) SlotsSpin(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req slotsSpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "bet is required"))
		return
	}

	session, err := m.slotsSession(r, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := session.engine.Spin(r.Context(), req.Bet)
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reels":    result.Reels,
		"bet":      result.Bet,
		"is_win":   result.IsWin,
		"payout":   result.Payout,
		"credited": result.Credited,
		"balance":  m.balancePayload(snap),
	})
}

// LionState reports the caller's current lion-wheel round.
func (m *HandlerManager) LionState(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	session, err := m.wheelSession(r, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"state":   session.engine.State(),
		"bets":    session.engine.Bets(),
		"history": session.engine.History(),
	})
}

type lionBetRequest struct {
	SlotID string `json:"slot_id"`
	Chip   int64  `json:"chip"`
}

// LionPlaceBet wagers one chip on a lion-wheel slot.
func (m *HandlerManager) LionPlaceBet(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req lionBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SlotID == "" {
		respondError(w, errors.New(errors.ErrCodeValidation, "slot_id and chip are required"))
		return
	}

	session, err := m.wheelSession(r, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := session.engine.PlaceBet(r.Context(), req.SlotID, req.Chip); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"state": session.engine.State(),
		"bets":  session.engine.Bets(),
	})
}

// LionResolve spins the caller's wheel, settles wagers and opens the
// next betting window.
func (m *HandlerManager) LionResolve(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	session, err := m.wheelSession(r, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := session.engine.Resolve(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	session.engine.Reset()

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"winner":      result.Winner,
		"bet_on_slot": result.BetOnSlot,
		"payout":      result.Payout,
		"credited":    result.Credited,
		"history":     result.History,
		"balance":     m.balancePayload(snap),
	})
}
