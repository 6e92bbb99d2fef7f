package referral

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
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

type registerRequest struct {
	Code string `json:"code" validate:"required,len=8"`
}

// Register handles POST /referrals — claim a referral code after the
// fact, for users who signed up without one.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.RegisterReferral(r.Context(), strings.ToUpper(req.Code), userID); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, "referral code not found")
		case errors.Is(err, ErrSelfReferral):
			response.BadRequest(w, "cannot use your own referral code")
		case errors.Is(err, ErrAlreadyReferred):
			response.Conflict(w, "a referral is already recorded for this account")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, map[string]string{"status": "recorded"})
}

// Stats handles GET /referrals/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	stats, err := h.svc.StatsForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}

// Leaderboard handles GET /referrals/leaderboard
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, entries)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Register)
	r.Get("/stats", h.Stats)
	r.Get("/leaderboard", h.Leaderboard)
	return r
}
