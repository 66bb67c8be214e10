package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Meetparmar40/tailors-track/pkg/account"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw request body
const SignatureHeader = "X-Webhook-Signature"

// Webhook event types emitted by the identity provider
const (
	EventAccountCreated = "account.created"
	EventAccountUpdated = "account.updated"
	EventAccountDeleted = "account.deleted"
)

// WebhookHandler handles account provisioning events from the identity
// provider. Without a signing secret every event is rejected unless unsigned
// mode was requested explicitly.
type WebhookHandler struct {
	accountService *account.AccountService
	signingSecret  string
	allowUnsigned  bool
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(accountService *account.AccountService, signingSecret string, allowUnsigned bool) *WebhookHandler {
	if signingSecret == "" && !allowUnsigned {
		slog.Warn("No webhook signing secret configured; provisioning events will be rejected")
	}
	return &WebhookHandler{
		accountService: accountService,
		signingSecret:  signingSecret,
		allowUnsigned:  allowUnsigned,
	}
}

// WebhookEvent is the provisioning event envelope
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData carries the account fields of a provisioning event
type WebhookEventData struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HandleEvent processes a signed provisioning event
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Failed to read request body", err.Error())
		return
	}

	if !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		slog.Warn("Webhook signature verification failed")
		renderErrorResponse(w, r, http.StatusUnauthorized, "Invalid webhook signature", "")
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Error("Failed to decode webhook event", "error", err)
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid event payload", err.Error())
		return
	}

	switch event.Type {
	case EventAccountCreated, EventAccountUpdated:
		_, err = h.accountService.Provision(r.Context(), event.Data.ID, event.Data.Email, event.Data.Name, event.Data.Picture)
	case EventAccountDeleted:
		err = h.accountService.Deprovision(r.Context(), event.Data.ID)
	default:
		slog.Warn("Unknown webhook event type", "type", event.Type)
		renderErrorResponse(w, r, http.StatusUnprocessableEntity, "Unknown event type", event.Type)
		return
	}

	if err != nil {
		slog.Error("Failed to process webhook event", "type", event.Type, "identity", event.Data.ID, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to process event", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, SuccessResponse{
		Status:  "success",
		Message: "Event processed",
	})
}

// verifySignature checks the hex HMAC-SHA256 of the body against the header.
// A missing secret fails closed unless unsigned mode was opted into.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.signingSecret == "" {
		return h.allowUnsigned
	}
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Handler returns a http.Handler for the account webhook API
func Handler(h *WebhookHandler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.HandleEvent)

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
