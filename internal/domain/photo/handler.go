package photo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/middleware"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
)

// maxUploadSize bounds multipart photo uploads (10 MB).
const maxUploadSize = 10 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload handles POST /listings/{id}/photos
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "photo upload too large or malformed")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "missing photo field")
		return
	}
	defer file.Close()

	p, err := h.svc.Upload(r.Context(), listingID, userID, file)
	if err != nil {
		switch {
		case errors.Is(err, listing.ErrListingNotFound):
			response.NotFound(w, "listing not found")
		case errors.Is(err, listing.ErrNotOwner):
			response.Forbidden(w, "listing does not belong to you")
		case errors.Is(err, ErrTooManyPhotos):
			response.Conflict(w, "photo limit reached for listing")
		case errors.Is(err, ErrInvalidImage):
			response.BadRequest(w, "invalid or unsupported image")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, p)
}

// List handles GET /listings/{id}/photos
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	photos, err := h.svc.ListForListing(r.Context(), listingID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, photos)
}

// Delete handles DELETE /photos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid photo id")
		return
	}

	if err := h.svc.Delete(r.Context(), photoID, userID); err != nil {
		switch {
		case errors.Is(err, ErrPhotoNotFound):
			response.NotFound(w, "photo not found")
		case errors.Is(err, listing.ErrNotOwner):
			response.Forbidden(w, "listing does not belong to you")
		default:
			response.InternalError(w)
		}
		return
	}
	response.NoContent(w)
}

// ListingRoutes mounts under /listings/{id}/photos.
func (h *Handler) ListingRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Upload)
	})
	return r
}

// Routes mounts under /photos.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Delete("/{id}", h.Delete)
	return r
}
