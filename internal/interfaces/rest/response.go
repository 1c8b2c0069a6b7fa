package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the error body. OrderData is present whenever the inventory
// already confirmed the order, so it can be reconciled by hand.
type APIError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	OrderData *domain.ConfirmedOrder `json:"order_data,omitempty"`
	Details   json.RawMessage        `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, body := BuildErrorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", body.Code, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: body})
}

func BuildErrorResponse(err error) (int, *APIError) {
	body := &APIError{
		Code:    application.ToErrorCode(err),
		Message: err.Error(),
	}

	if svcErr, ok := application.IsServiceError(err); ok {
		body.Message = svcErr.Message
		body.OrderData = svcErr.Order
		body.Details = svcErr.Details
		if svcErr.Code == application.ErrCodeInternal {
			body.Message = "An internal error occurred"
		}
	}

	return application.ToHTTPStatus(err), body
}
