package savings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/auth"
	"github.com/tamuuh/tamuuh-api/internal/config"
	"github.com/tamuuh/tamuuh-api/internal/goal"
)

type DepositDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	var dto DepositDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	txn, err := h.service.RecordDeposit(r.Context(), goalID, uuid.MustParse(claims.UserID), dto.Amount, dto.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			http.Error(w, "please enter a valid amount", http.StatusBadRequest)
		case errors.Is(err, goal.ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, goal.ErrAccessDenied):
			http.Error(w, "access denied", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to record deposit")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusCreated, txn)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	txns, err := h.service.ListByGoal(r.Context(), goalID, uuid.MustParse(claims.UserID))
	if err != nil {
		switch {
		case errors.Is(err, goal.ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, goal.ErrAccessDenied):
			http.Error(w, "access denied", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to list transactions")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, txns)
}

func goalIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
