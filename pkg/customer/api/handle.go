package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/Meetparmar40/tailors-track/pkg/client"
	"github.com/Meetparmar40/tailors-track/pkg/customer"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// Handle exposes customer CRUD over HTTP. Every operation is scoped by the
// effective identity from the resolved workspace scope.
type Handle struct {
	customerService *customer.CustomerService
}

func NewHandle(customerService *customer.CustomerService) *Handle {
	return &Handle{customerService: customerService}
}

// CreateCustomerRequest carries the fields of a new customer
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// UpdateCustomerRequest is a partial update; omitted fields stay unchanged
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// List returns one cursor page of the workspace's customers
func (h *Handle) List(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			renderErrorResponse(w, r, http.StatusBadRequest, "Invalid limit", raw)
			return
		}
		limit = parsed
	}

	page, err := h.customerService.List(r.Context(), scope.Effective, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		slog.Error("Failed to list customers", "workspace", scope.Effective, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to list customers", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, page)
}

// Create adds a customer to the workspace
func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req CreateCustomerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	var c customer.Customer
	if err := copier.Copy(&c, &req); err != nil {
		renderErrorResponse(w, r, http.StatusInternalServerError, "Failed to map request", err.Error())
		return
	}

	created, err := h.customerService.Create(r.Context(), scope.Effective, c)
	if err != nil {
		slog.Warn("Failed to create customer", "workspace", scope.Effective, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to create customer", err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// Get returns a single customer
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid customer id", err.Error())
		return
	}

	c, err := h.customerService.Get(r.Context(), scope.Effective, id)
	if err != nil {
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to get customer", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, c)
}

// Update applies a partial update to a customer
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid customer id", err.Error())
		return
	}

	var req UpdateCustomerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.customerService.Update(r.Context(), scope.Effective, id, customer.UpdateCustomerParams{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		slog.Warn("Failed to update customer", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to update customer", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// Delete removes a customer
func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid customer id", err.Error())
		return
	}

	if err := h.customerService.Delete(r.Context(), scope.Effective, id); err != nil {
		slog.Warn("Failed to delete customer", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to delete customer", err.Error())
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}

// Handler returns a http.Handler for the customer API. Mutating routes are
// rejected for read-only roles.
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(client.RequireWrite)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
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
