package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/Meetparmar40/tailors-track/pkg/client"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
	"github.com/Meetparmar40/tailors-track/pkg/measurement"
)

// Handle exposes measurement CRUD over HTTP. Creation and listing hang off
// the customer route; update and delete address measurements directly.
type Handle struct {
	measurementService *measurement.MeasurementService
}

func NewHandle(measurementService *measurement.MeasurementService) *Handle {
	return &Handle{measurementService: measurementService}
}

// CreateMeasurementRequest carries the fields of a new measurement set
type CreateMeasurementRequest struct {
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
	Notes  string             `json:"notes,omitempty"`
}

// UpdateMeasurementRequest is a partial update; omitted fields stay
// unchanged, a present values map replaces the stored one
type UpdateMeasurementRequest struct {
	Label  *string            `json:"label,omitempty"`
	Values map[string]float64 `json:"values,omitempty"`
	Notes  *string            `json:"notes,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ListByCustomer returns a customer's measurement sets
func (h *Handle) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid customer id", err.Error())
		return
	}

	measurements, err := h.measurementService.ListByCustomer(r.Context(), scope.Effective, customerID)
	if err != nil {
		slog.Error("Failed to list measurements", "workspace", scope.Effective, "customer", customerID, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to list measurements", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, measurements)
}

// Create records a measurement set for a customer
func (h *Handle) Create(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid customer id", err.Error())
		return
	}

	var req CreateMeasurementRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.measurementService.Create(r.Context(), scope.Effective, measurement.Measurement{
		CustomerID: customerID,
		Label:      req.Label,
		Values:     req.Values,
		Notes:      req.Notes,
	})
	if err != nil {
		slog.Warn("Failed to create measurement", "workspace", scope.Effective, "customer", customerID, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to create measurement", err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// Get returns a single measurement set
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid measurement id", err.Error())
		return
	}

	m, err := h.measurementService.Get(r.Context(), scope.Effective, id)
	if err != nil {
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to get measurement", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, m)
}

// Update applies a partial update to a measurement set
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid measurement id", err.Error())
		return
	}

	var req UpdateMeasurementRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.measurementService.Update(r.Context(), scope.Effective, id, measurement.UpdateMeasurementParams{
		Label:  req.Label,
		Values: req.Values,
		Notes:  req.Notes,
	})
	if err != nil {
		slog.Warn("Failed to update measurement", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to update measurement", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// Delete removes a measurement set
func (h *Handle) Delete(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid measurement id", err.Error())
		return
	}

	if err := h.measurementService.Delete(r.Context(), scope.Effective, id); err != nil {
		slog.Warn("Failed to delete measurement", "workspace", scope.Effective, "id", id, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to delete measurement", err.Error())
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}

// CustomerHandler returns a http.Handler for measurement routes nested under
// a customer. Expects a customerID URL parameter from the mount point.
func CustomerHandler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListByCustomer)

	r.Group(func(r chi.Router) {
		r.Use(client.RequireWrite)
		r.Post("/", h.Create)
	})

	return r
}

// Handler returns a http.Handler for direct measurement routes
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(client.RequireWrite)
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
