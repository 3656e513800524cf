package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/patronly/patronly/internal/common"
)

// ErrorResponse is the JSON error envelope returned on every failure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes a standardized JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}

// WriteJSON writes data as a JSON success response.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeServiceError maps a service-layer sentinel to the HTTP envelope.
// Everything in the taxonomy is client-facing and retryable with different
// input; only unknown errors become 500s.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorConflict):
		WriteError(w, http.StatusConflict, "conflict", "Email, username, or wallet already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, common.ErrInvalidSignature):
		WriteError(w, http.StatusUnauthorized, "invalid_signature", "Wallet signature verification failed")
	case errors.Is(err, common.ErrTokenExpired):
		WriteError(w, http.StatusUnauthorized, "invalid_token", "Token expired")
	case errors.Is(err, common.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "invalid_token", "Invalid token")
	case errors.Is(err, common.ErrIdentityGone):
		WriteError(w, http.StatusUnauthorized, "invalid_token", "User not found")
	case errors.Is(err, common.ErrTransactionFailed):
		WriteError(w, http.StatusBadRequest, "transaction_failed", "Transaction failed or not found")
	case errors.Is(err, common.ErrContentNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Content not found")
	case errors.Is(err, common.ErrorNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, common.ErrAlreadySubscribed):
		WriteError(w, http.StatusConflict, "already_subscribed", "Already subscribed")
	case errors.Is(err, common.ErrorForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "Admin role required")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal error")
	}
}
