package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// List handles GET /categories
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, All())
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}
