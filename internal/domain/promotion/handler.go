package promotion

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
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

// CreateBusinessAd handles POST /promotions/business-ads
func (h *Handler) CreateBusinessAd(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req CreateBusinessAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.CreateBusinessAd(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			response.Conflict(w, "insufficient wallet balance")
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, resp)
}

// ListBusinessAds handles GET /promotions/business-ads
func (h *Handler) ListBusinessAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.svc.ListBusinessAds(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, ads)
}

// CreateEvent handles POST /promotions/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.CreateEvent(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTier):
			response.BadRequest(w, "unknown partnership tier")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Created(w, resp)
}

// ListEvents handles GET /promotions/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, events)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/business-ads", h.ListBusinessAds)
	r.Get("/events", h.ListEvents)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/business-ads", h.CreateBusinessAd)
		r.Post("/events", h.CreateEvent)
	})

	return r
}
