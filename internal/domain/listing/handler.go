package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
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

// Create handles POST /listings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCategory):
			response.BadRequest(w, "unknown category code")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance for listing fees")
		case errors.Is(err, user.ErrUserNotFound):
			response.Unauthorized(w, "unauthorized")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, resp)
}

// List handles GET /listings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	listings, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.WithMeta(w, listings, response.NewMeta(total, filter.Page, filter.PerPage))
}

// ListMine handles GET /listings/my
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filter := filterFromQuery(r)
	filter.UserID = uuid.NullUUID{UUID: userID, Valid: true}
	filter.IncludeUnavailable = true

	listings, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.WithMeta(w, listings, response.NewMeta(total, filter.Page, filter.PerPage))
}

// Get handles GET /listings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	l, err := h.svc.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.NotFound(w, "listing not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, l)
}

// Update handles PUT /listings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	l, err := h.svc.Update(r.Context(), id, userID, req)
	if err != nil {
		h.writeListingError(w, err)
		return
	}
	response.OK(w, l)
}

// Withdraw handles DELETE /listings/{id}
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	if err := h.svc.Withdraw(r.Context(), id, userID); err != nil {
		h.writeListingError(w, err)
		return
	}
	response.NoContent(w)
}

// UnlockContact handles POST /listings/{id}/unlock-contact
func (h *Handler) UnlockContact(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	contact, err := h.svc.UnlockContact(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		default:
			h.writeListingError(w, err)
		}
		return
	}
	response.OK(w, contact)
}

// Sponsor handles POST /listings/{id}/sponsor
func (h *Handler) Sponsor(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	resp, err := h.svc.Sponsor(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySponsored):
			response.Conflict(w, "listing is already sponsored")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		default:
			h.writeListingError(w, err)
		}
		return
	}
	response.OK(w, resp)
}

// MarkSold handles POST /listings/{id}/sold
func (h *Handler) MarkSold(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	resp, err := h.svc.MarkSold(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySold):
			response.Conflict(w, "listing is already sold")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance to settle commission")
		default:
			h.writeListingError(w, err)
		}
		return
	}
	response.OK(w, resp)
}

func (h *Handler) writeListingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.NotFound(w, "listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "listing does not belong to you")
	case errors.Is(err, ErrNotAvailable):
		response.Conflict(w, "listing is not available")
	default:
		response.InternalError(w)
	}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/my", h.ListMine)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Withdraw)
		r.Post("/{id}/unlock-contact", h.UnlockContact)
		r.Post("/{id}/sponsor", h.Sponsor)
		r.Post("/{id}/sold", h.MarkSold)
	})

	return r
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	filter := Filter{
		Category:  q.Get("category"),
		Query:     q.Get("q"),
		Condition: q.Get("condition"),
		Sort:      q.Get("sort"),
	}
	if campusID, err := uuid.Parse(q.Get("campus_id")); err == nil {
		filter.CampusID = uuid.NullUUID{UUID: campusID, Valid: true}
	}
	if sellerID, err := uuid.Parse(q.Get("user_id")); err == nil {
		filter.UserID = uuid.NullUUID{UUID: sellerID, Valid: true}
	}
	filter.MinPrice, _ = strconv.ParseInt(q.Get("min_price"), 10, 64)
	filter.MaxPrice, _ = strconv.ParseInt(q.Get("max_price"), 10, 64)
	filter.FeaturedOnly = q.Get("featured") == "true"
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	filter.Normalize()
	return filter
}
