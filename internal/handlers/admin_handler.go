package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mroshb/liveroom/internal/middleware"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/reports"
	"github.com/mroshb/liveroom/internal/repositories"
	"github.com/mroshb/liveroom/internal/security"
	"github.com/mroshb/liveroom/pkg/errors"
	"github.com/mroshb/liveroom/pkg/logger"
)

// GetSettings returns the live game settings row.
func (m *HandlerManager) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := m.SettingsRepo.GetGameSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the game settings row. Zero-valued fields fall
// back to defaults before saving.
func (m *HandlerManager) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.GameSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "invalid settings payload"))
		return
	}
	settings.Normalize()

	if err := m.SettingsRepo.SaveGameSettings(r.Context(), &settings); err != nil {
		respondError(w, err)
		return
	}

	claims := middleware.ClaimsFrom(r.Context())
	logger.Info("game settings updated", "admin_id", claims.UserID)

	respondJSON(w, http.StatusOK, settings)
}

// GetUser returns one user's full record.
func (m *HandlerManager) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userID")
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := m.UserRepo.GetUserByID(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type adjustRequest struct {
	Field  string `json:"field"`
	Amount int64  `json:"amount"`
}

// AdjustBalance applies a manual delta to one balance field of a user.
func (m *HandlerManager) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "field and amount are required"))
		return
	}
	if !repositories.ValidateField(req.Field) {
		respondError(w, errors.New(errors.ErrCodeValidation, "unknown balance field"))
		return
	}

	if err := m.UserRepo.AdjustBalance(r.Context(), userID, req.Field, req.Amount); err != nil {
		respondError(w, err)
		return
	}

	claims := middleware.ClaimsFrom(r.Context())
	logger.Info("manual balance adjustment",
		"admin_id", claims.UserID,
		"user_id", userID,
		"field", req.Field,
		"amount", req.Amount,
	)

	snap, err := m.UserRepo.GetSnapshot(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	// Replace any projected view so clients reconcile to the adjusted row.
	snap = m.Economy.Projector().ApplySnapshot(snap)
	m.Hub.Publish(r.Context(), snap)

	respondJSON(w, http.StatusOK, m.balancePayload(snap))
}

// UpsertStoreItem creates or updates one purchasable store item.
func (m *HandlerManager) UpsertStoreItem(w http.ResponseWriter, r *http.Request) {
	var item models.StoreItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ItemID == "" {
		respondError(w, errors.New(errors.ErrCodeValidation, "item_id is required"))
		return
	}
	item.Name = security.SanitizeName(item.Name)

	if item.Price <= 0 {
		respondError(w, errors.New(errors.ErrCodeInvalidAmount, "price must be positive"))
		return
	}

	if err := m.SettingsRepo.UpsertStoreItem(r.Context(), &item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpsertVIPPackage creates or updates one VIP tier.
func (m *HandlerManager) UpsertVIPPackage(w http.ResponseWriter, r *http.Request) {
	var pkg models.VIPPackage
	if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil || pkg.Level <= 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "level must be positive"))
		return
	}
	pkg.Name = security.SanitizeName(pkg.Name)

	if pkg.Cost <= 0 {
		respondError(w, errors.New(errors.ErrCodeInvalidAmount, "cost must be positive"))
		return
	}

	if err := m.SettingsRepo.UpsertVIPPackage(r.Context(), &pkg); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pkg)
}

// ListAgencyLogs returns recent agency transfers, optionally filtered by
// ?agent_id= and capped by ?limit= (default 100).
func (m *HandlerManager) ListAgencyLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	var (
		logs []models.AgencyTransferLog
		err  error
	)
	if raw := r.URL.Query().Get("agent_id"); raw != "" {
		agentID, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			respondError(w, errors.New(errors.ErrCodeValidation, "agent_id must be an integer"))
			return
		}
		logs, err = m.AgencyRepo.ListLogsByAgent(r.Context(), uint(agentID), limit)
	} else {
		logs, err = m.AgencyRepo.ListLogs(r.Context(), limit)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

// ExportAgencyLogs streams agency transfers as an XLSX workbook, either
// the most recent ?limit= rows or everything from ?since=YYYY-MM-DD on.
func (m *HandlerManager) ExportAgencyLogs(w http.ResponseWriter, r *http.Request) {
	var (
		logs []models.AgencyTransferLog
		err  error
	)
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			respondError(w, errors.New(errors.ErrCodeValidation, "since must be YYYY-MM-DD"))
			return
		}
		logs, err = m.AgencyRepo.ListLogsSince(r.Context(), since)
	} else {
		limit := 1000
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if v, atoiErr := strconv.Atoi(raw); atoiErr == nil && v > 0 {
				limit = v
			}
		}
		logs, err = m.AgencyRepo.ListLogs(r.Context(), limit)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="agency_transfers.xlsx"`)
	if err := reports.WriteAgencyLogXLSX(w, logs); err != nil {
		logger.Error("agency log export failed", "error", err)
	}
}
