package wallet

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/middleware"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type addMoneyRequest struct {
	Amount int64 `json:"amount"`
}

// Balance handles GET /wallet
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	wallet, err := h.svc.Balance(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	recent, _, err := h.svc.History(r.Context(), userID, 1, 10)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"wallet": wallet,
		"recent": recent,
	})
}

// AddMoney handles POST /wallet/add-money
func (h *Handler) AddMoney(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req addMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	balance, err := h.svc.AddMoney(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "amount must be greater than zero")
		case errors.Is(err, ErrTopUpLimit):
			response.BadRequest(w, "amount exceeds the maximum single top-up")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

type operationRequest struct {
	Type          string     `json:"type" validate:"required,wallet_op"`
	Amount        int64      `json:"amount" validate:"required,gt=0"`
	Description   string     `json:"description" validate:"omitempty,max=255"`
	ReferenceID   *uuid.UUID `json:"reference_id" validate:"omitempty"`
	ReferenceType string     `json:"reference_type" validate:"omitempty,max=40"`
}

func (req operationRequest) ref() Ref {
	var ref Ref
	if req.ReferenceID != nil {
		ref.ID = uuid.NullUUID{UUID: *req.ReferenceID, Valid: true}
	}
	if req.ReferenceType != "" {
		ref.Type = sql.NullString{String: req.ReferenceType, Valid: true}
	}
	return ref
}

// ApplyOperation handles POST /wallet/operations
func (h *Handler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	balance, err := h.svc.Apply(r.Context(), userID, Operation(req.Type), req.Amount, req.Description, req.ref())
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		case errors.Is(err, ErrTopUpLimit):
			response.BadRequest(w, "amount exceeds the maximum single top-up")
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "invalid operation")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

// History handles GET /wallet/transactions
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	entries, total, err := h.svc.History(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, entries, response.NewMeta(total, page, perPage))
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.Balance)
	r.Post("/add-money", h.AddMoney)
	r.Post("/operations", h.ApplyOperation)
	r.Get("/transactions", h.History)
	return r
}
