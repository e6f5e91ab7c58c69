package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mroshb/liveroom/internal/middleware"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/security"
	"github.com/mroshb/liveroom/pkg/errors"
)

type balanceResponse struct {
	UserID         uint  `json:"user_id"`
	Coins          int64 `json:"coins"`
	Diamonds       int64 `json:"diamonds"`
	Wealth         int64 `json:"wealth"`
	RechargePoints int64 `json:"recharge_points"`
	AgencyBalance  int64 `json:"agency_balance"`
	WealthLevel    int   `json:"wealth_level"`
	RechargeLevel  int   `json:"recharge_level"`
	Pending        int   `json:"pending_ops"`
}

func (m *HandlerManager) balancePayload(snap models.Snapshot) balanceResponse {
	return balanceResponse{
		UserID:         snap.UserID,
		Coins:          snap.Coins,
		Diamonds:       snap.Diamonds,
		Wealth:         snap.Wealth,
		RechargePoints: snap.RechargePoints,
		AgencyBalance:  snap.AgencyBalance,
		WealthLevel:    models.ProgressLevel(snap.Wealth),
		RechargeLevel:  models.ProgressLevel(snap.RechargePoints),
		Pending:        m.Economy.Projector().PendingCount(snap.UserID),
	}
}

// GetBalance returns the caller's projected balance view.
func (m *HandlerManager) GetBalance(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m.balancePayload(snap))
}

// GetEarnedItems lists the caller's earned items, most recent first.
func (m *HandlerManager) GetEarnedItems(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	items, err := m.ItemRepo.GetEarnedItems(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Subscribe upgrades to the live snapshot stream.
func (m *HandlerManager) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	m.Hub.Serve(w, r, claims.UserID)
}

type spendRequest struct {
	ItemID string `json:"item_id"`
}

// SpendCoins buys a store item for the caller.
func (m *HandlerManager) SpendCoins(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		respondError(w, errors.New(errors.ErrCodeValidation, "item_id is required"))
		return
	}

	item, err := m.SettingsRepo.GetStoreItem(r.Context(), req.ItemID)
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	meta := item.Metadata()
	proj, err := m.Economy.SpendCoins(r.Context(), snap, item.Price, item.ItemID, &meta)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"op_ref":  proj.OpRef,
		"balance": m.balancePayload(proj.Snapshot),
	})
}

type vipRequest struct {
	Level int `json:"level"`
}

// BuyVIP purchases a VIP tier for the caller.
func (m *HandlerManager) BuyVIP(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req vipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "level is required"))
		return
	}

	pkg, err := m.SettingsRepo.GetVIPPackage(r.Context(), req.Level)
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	proj, err := m.Economy.BuyVIP(r.Context(), snap, pkg)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"op_ref":         proj.OpRef,
		"vip_level":      proj.VipLevel,
		"vip_expires_at": proj.VipExpiresAt,
		"balance":        m.balancePayload(proj.Snapshot),
	})
}

type exchangeRequest struct {
	Amount int64 `json:"amount"`
}

// ExchangeDiamonds converts the caller's diamonds to coins.
func (m *HandlerManager) ExchangeDiamonds(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "amount is required"))
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	proj, err := m.Economy.ExchangeDiamonds(r.Context(), snap, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"op_ref":  proj.OpRef,
		"balance": m.balancePayload(proj.Snapshot),
	})
}

type salaryRequest struct {
	AgentID uint  `json:"agent_id"`
	Amount  int64 `json:"amount"`
}

// ExchangeSalaryToAgency converts the caller's diamonds into agency credit
// for an agent.
func (m *HandlerManager) ExchangeSalaryToAgency(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req salaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AgentID == 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "agent_id and amount are required"))
		return
	}

	agent, err := m.UserRepo.GetUserByID(req.AgentID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !agent.IsAgent {
		respondError(w, errors.New(errors.ErrCodeValidationFailed, "target user is not an agent"))
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	proj, err := m.Economy.ExchangeSalaryToAgency(r.Context(), snap, req.AgentID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"op_ref":  proj.OpRef,
		"balance": m.balancePayload(proj.Snapshot),
	})
}

type agencyTransferRequest struct {
	TargetID uint  `json:"target_id"`
	Amount   int64 `json:"amount"`
}

// AgencyTransfer grants coins from the calling agent's pooled balance.
func (m *HandlerManager) AgencyTransfer(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req agencyTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetID == 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "target_id and amount are required"))
		return
	}

	caller, err := m.UserRepo.GetUserByID(claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !caller.IsAgent {
		respondError(w, errors.New(errors.ErrCodeForbidden, "caller is not an agent"))
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	proj, err := m.Economy.AgencyTransfer(r.Context(), snap, req.TargetID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	if req.Amount >= m.Config.TransferAlertFloor {
		m.Notifier.LargeTransfer(claims.UserID, req.TargetID, req.Amount)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"op_ref":  proj.OpRef,
		"balance": m.balancePayload(proj.Snapshot),
	})
}

type createTribeRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CreateTribe founds a tribe for the caller at the configured cost.
func (m *HandlerManager) CreateTribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	var req createTribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "name is required"))
		return
	}
	req.Name = security.SanitizeName(req.Name)

	caller, err := m.UserRepo.GetUserByID(claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	settings, err := m.SettingsRepo.GetGameSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := m.snapshotFor(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	tribe, err := m.Tribes.CreateTribe(r.Context(), snap, req.Name, req.Image, caller.Name, settings.TribeCreationCost)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tribe)
}

// GetMyTribe returns the caller's tribe, or 404 when they have none.
func (m *HandlerManager) GetMyTribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	tribe, err := m.Tribes.GetUserTribe(claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if tribe == nil {
		respondError(w, errors.New(errors.ErrCodeNotFound, "user is not in a tribe"))
		return
	}

	members, err := m.Tribes.GetTribeMembers(tribe.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tribe":   tribe,
		"members": members,
	})
}

// ListStoreItems returns the purchasable catalog.
func (m *HandlerManager) ListStoreItems(w http.ResponseWriter, r *http.Request) {
	items, err := m.SettingsRepo.ListStoreItems(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// ListVIPPackages returns the VIP tiers.
func (m *HandlerManager) ListVIPPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := m.SettingsRepo.ListVIPPackages(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pkgs)
}

// JoinTribe joins the caller to a tribe.
func (m *HandlerManager) JoinTribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	tribeID, err := uintParam(r, "tribeID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := m.Tribes.JoinTribe(r.Context(), tribeID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// LeaveTribe removes the caller from their tribe.
func (m *HandlerManager) LeaveTribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	if err := m.Tribes.LeaveTribe(r.Context(), claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "left"})
}
