package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Meetparmar40/tailors-track/pkg/client"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
	"github.com/Meetparmar40/tailors-track/pkg/settings"
)

// Handle exposes workspace settings over HTTP
type Handle struct {
	settingsService *settings.SettingsService
}

func NewHandle(settingsService *settings.SettingsService) *Handle {
	return &Handle{settingsService: settingsService}
}

// UpdateSettingsRequest is a partial update; omitted fields stay unchanged
type UpdateSettingsRequest struct {
	ShopName        *string `json:"shop_name,omitempty"`
	Currency        *string `json:"currency,omitempty"`
	MeasurementUnit *string `json:"measurement_unit,omitempty"`
	OrderPrefix     *string `json:"order_prefix,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Get returns the workspace settings
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	current, err := h.settingsService.Get(r.Context(), scope.Effective)
	if err != nil {
		slog.Error("Failed to get settings", "workspace", scope.Effective, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to get settings", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, current)
}

// Update applies a partial settings update
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	scope := client.GetScope(r.Context())
	if scope == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req UpdateSettingsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.settingsService.Update(r.Context(), scope.Effective, settings.UpdateSettingsParams{
		ShopName:        req.ShopName,
		Currency:        req.Currency,
		MeasurementUnit: req.MeasurementUnit,
		OrderPrefix:     req.OrderPrefix,
	})
	if err != nil {
		slog.Warn("Failed to update settings", "workspace", scope.Effective, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to update settings", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// Handler returns a http.Handler for the settings API. Updates are rejected
// for read-only roles.
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(client.RequireWrite)
		r.Put("/", h.Update)
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
