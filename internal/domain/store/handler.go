package store

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

// ListProducts handles GET /store/products?campus_id=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var campusID uuid.UUID
	if raw := r.URL.Query().Get("campus_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid campus id")
			return
		}
		campusID = id
	}

	products, err := h.svc.ListProducts(r.Context(), campusID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, products)
}

// GetProduct handles GET /store/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid product id")
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.NotFound(w, "product not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, p)
}

// PlaceOrder handles POST /store/orders
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			response.Conflict(w, stockErr.Error())
		case errors.Is(err, ErrProductNotFound):
			response.NotFound(w, "product not found")
		case errors.Is(err, ErrEmptyOrder):
			response.BadRequest(w, "order has no items")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Created(w, resp)
}

// ListOrders handles GET /store/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	orders, err := h.svc.ListOrders(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, orders)
}

// CreateProduct handles POST /store/products (admin)
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, p)
}

type setStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// SetStock handles PUT /store/products/{id}/stock (admin)
func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid product id")
		return
	}

	var req setStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SetStock(r.Context(), id, req.Stock); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.NotFound(w, "product not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/orders", h.PlaceOrder)
		r.Get("/orders/my", h.ListOrders)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}/stock", h.SetStock)
	})

	return r
}
