package ai

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type suggestPriceRequest struct {
	CampusID uuid.UUID `json:"campus_id" validate:"required"`
	Category string    `json:"category" validate:"required"`
}

type detectCategoryRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
}

func (h *Handler) SuggestPrice(w http.ResponseWriter, r *http.Request) {
	var req suggestPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	suggestion, err := h.service.SuggestPrice(r.Context(), req.CampusID, req.Category)
	if err != nil {
		log.Error().Err(err).Msg("price suggestion query failed")
		response.InternalError(w)
		return
	}
	response.OK(w, suggestion)
}

func (h *Handler) DetectCategory(w http.ResponseWriter, r *http.Request) {
	var req detectCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	response.OK(w, h.service.DetectCategory(req.Title, req.Description))
}

type fraudCheckRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
}

func (h *Handler) DetectFraud(w http.ResponseWriter, r *http.Request) {
	var req fraudCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	assessment := h.service.AssessFraud(&listing.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	response.OK(w, assessment)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/price-suggestion", h.SuggestPrice)
		r.Post("/category-detection", h.DetectCategory)
		r.Post("/fraud-detection", h.DetectFraud)
	})
	return r
}
