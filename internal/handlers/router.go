package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mroshb/liveroom/internal/middleware"
	"github.com/mroshb/liveroom/internal/security"
	"github.com/mroshb/liveroom/pkg/errors"
)

// NewRouter registers the API surface: user economy operations, game
// sessions, the live snapshot websocket and the JWT-gated admin panel.
func NewRouter(m *HandlerManager) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(m.RateLimiter.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(m.Config.JWTSecret, ""))
		r.Use(m.RateLimiter.UserHandler)

		r.Get("/me/balance", m.GetBalance)
		r.Get("/me/items", m.GetEarnedItems)
		r.Get("/me/tribe", m.GetMyTribe)
		r.Get("/ws", m.Subscribe)

		r.Get("/store/items", m.ListStoreItems)
		r.Get("/store/vip-packages", m.ListVIPPackages)

		r.Post("/economy/spend", m.SpendCoins)
		r.Post("/economy/vip", m.BuyVIP)
		r.Post("/economy/exchange", m.ExchangeDiamonds)
		r.Post("/economy/salary", m.ExchangeSalaryToAgency)
		r.Post("/economy/agency-transfer", m.AgencyTransfer)

		r.Post("/tribes", m.CreateTribe)
		r.Post("/tribes/{tribeID}/join", m.JoinTribe)
		r.Post("/tribes/leave", m.LeaveTribe)

		r.Post("/games/slots/spin", m.SlotsSpin)
		r.Get("/games/lion/state", m.LionState)
		r.Post("/games/lion/bet", m.LionPlaceBet)
		r.Post("/games/lion/resolve", m.LionResolve)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(m.Config.JWTSecret, security.RoleAdmin))

		r.Get("/admin/settings", m.GetSettings)
		r.Put("/admin/settings", m.UpdateSettings)
		r.Get("/admin/users/{userID}", m.GetUser)
		r.Post("/admin/users/{userID}/adjust", m.AdjustBalance)
		r.Put("/admin/store-items", m.UpsertStoreItem)
		r.Put("/admin/vip-packages", m.UpsertVIPPackage)
		r.Get("/admin/agency-logs", m.ListAgencyLogs)
		r.Get("/admin/agency-logs/export", m.ExportAgencyLogs)
	})

	return r
}

func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, errors.New(errors.ErrCodeValidation, name+" must be a positive integer")
	}
	return uint(v), nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	code := errors.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInsufficientFunds, errors.ErrCodeInvalidAmount,
		errors.ErrCodeBelowMinimum, errors.ErrCodeValidation, errors.ErrCodeValidationFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeAlreadyExists:
		status = http.StatusConflict
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	}

	respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}
