package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/Meetparmar40/tailors-track/pkg/client"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
	"github.com/Meetparmar40/tailors-track/pkg/order"
)

// Handle exposes order CRUD and status transitions over HTTP
type Handle struct {
	orderService *order.OrderService
}

func NewHandle(orderService *order.OrderService) *Handle {
	return &Handle{orderService: orderService}
}

// CreateOrderRequest carries the fields of a new order
type CreateOrderRequest struct {
	CustomerID   uuid.UUID  `json:"customer_id"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	PriceCents   int64      `json:"price_cents,omitempty"`
	AdvanceCents int64      `json:"advance_cents,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// UpdateOrderRequest is a partial update; omitted fields stay unchanged
type UpdateOrderRequest struct {
	Description  *string    `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	PriceCents   *int64     `json:"price_cents,omitempty"`
	AdvanceCents *int64     `json:"advance_cents,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// UpdateStatusRequest names the next lifecycle status
type UpdateStatusRequest struct {
	Status order.Status `json:"status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// List returns the workspace's orders, optionally filtered by status and
// customer query parameters
func (h *Handle) List(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var filter order.OrderFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := order.Status(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			renderErrorResponse(w, r, http.StatusBadRequest, "Invalid customer_id", err.Error())
			return
		}
		filter.CustomerID = &customerID
	}

	orders, err := h.orderService.List(r.Context(), scope.Effective, filter)
	if err != nil {
		slog.Error("Failed to list orders", "workspace", scope.Effective, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to list orders", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, orders)
}

// Create adds an order to the workspace
func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req CreateOrderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	var o order.Order
	if err := copier.Copy(&o, &req); err != nil {
		renderErrorResponse(w, r, http.StatusInternalServerError, "Failed to map request", err.Error())
		return
	}

	created, err := h.orderService.Create(r.Context(), scope.Effective, o)
	if err != nil {
		slog.Warn("Failed to create order", "workspace", scope.Effective, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to create order", err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// Get returns a single order
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid order id", err.Error())
		return
	}

	o, err := h.orderService.Get(r.Context(), scope.Effective, id)
	if err != nil {
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to get order", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, o)
}

// Update applies a partial update to an order
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid order id", err.Error())
		return
	}

	var req UpdateOrderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.orderService.Update(r.Context(), scope.Effective, id, order.UpdateOrderParams{
		Description:  req.Description,
		DueDate:      req.DueDate,
		PriceCents:   req.PriceCents,
		AdvanceCents: req.AdvanceCents,
		Notes:        req.Notes,
	})
	if err != nil {
		slog.Warn("Failed to update order", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to update order", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// UpdateStatus moves an order along its lifecycle
func (h *Handle) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid order id", err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.orderService.UpdateStatus(r.Context(), scope.Effective, id, req.Status)
	if err != nil {
		slog.Warn("Failed to update order status", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to update order status", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// Delete removes an order
func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid order id", err.Error())
		return
	}

	if err := h.orderService.Delete(r.Context(), scope.Effective, id); err != nil {
		slog.Warn("Failed to delete order", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to delete order", err.Error())
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}

// Handler returns a http.Handler for the order API. Mutating routes are
// rejected for read-only roles.
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(client.RequireWrite)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// renderErrorResponse renders an error response with the given status code and message
func renderErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message, errorDetail string) {
	response := ErrorResponse{
		Status:  "error",
		Message: message,
	}

	if errorDetail != "" {
		response.Error = errorDetail
	}

	render.Status(r, statusCode)
	render.JSON(w, r, response)
}
