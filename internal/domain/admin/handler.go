package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/middleware"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type moderatedUser struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       user.Role `json:"role"`
	IsBanned   bool      `json:"is_banned"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func newModeratedUser(u *user.User) *moderatedUser {
	return &moderatedUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsBanned:   u.IsBanned,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type banRequest struct {
	Banned bool `json:"banned"`
}

func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	req := banRequest{Banned: true}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
	}

	u, err := h.service.BanUser(r.Context(), id, req.Banned)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}
	response.OK(w, newModeratedUser(u))
}

type verifyRequest struct {
	Verified bool `json:"verified"`
}

func (h *Handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	req := verifyRequest{Verified: true}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
	}

	u, err := h.service.VerifyUser(r.Context(), id, req.Verified)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}
	response.OK(w, newModeratedUser(u))
}

func (h *Handler) RemoveListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	if err := h.service.RemoveListing(r.Context(), id); err != nil {
		h.writeAdminError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) InspectListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	l, assessment, err := h.service.InspectListing(r.Context(), id)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{
		"listing": l,
		"fraud":   assessment,
	})
}

func (h *Handler) SearchTransactions(w http.ResponseWriter, r *http.Request) {
	filter := transactionFilterFromQuery(r)
	items, total, err := h.service.SearchTransactions(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("admin transaction search failed")
		response.InternalError(w)
		return
	}
	response.WithMeta(w, items, response.NewMeta(total, filter.Page, filter.PerPage))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("platform stats query failed")
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}

func transactionFilterFromQuery(r *http.Request) transaction.ListFilter {
	q := r.URL.Query()
	var filter transaction.ListFilter

	if id, err := uuid.Parse(q.Get("user_id")); err == nil {
		filter.UserID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if id, err := uuid.Parse(q.Get("listing_id")); err == nil {
		filter.ListingID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if t := q.Get("type"); t != "" {
		filter.Type = transaction.Type(t)
	}
	if s := q.Get("status"); s != "" {
		filter.Status = transaction.Status(s)
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	filter.Normalize()
	return filter
}

func (h *Handler) writeAdminError(w http.ResponseWriter, err error) {
	switch err {
	case user.ErrUserNotFound:
		response.NotFound(w, "user not found")
	case listing.ErrListingNotFound:
		response.NotFound(w, "listing not found")
	default:
		log.Error().Err(err).Msg("admin request failed")
		response.InternalError(w)
	}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())

		r.Post("/users/{id}/ban", h.BanUser)
		r.Post("/users/{id}/verify", h.VerifyUser)
		r.Delete("/listings/{id}", h.RemoveListing)
		r.Get("/listings/{id}/inspect", h.InspectListing)
		r.Get("/transactions", h.SearchTransactions)
		r.Get("/stats", h.Stats)
	})
	return r
}
