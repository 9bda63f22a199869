package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/admanager/ad-server-go/internal/errors"
)

// CodeOK is the envelope code of every successful response.
const CodeOK = "OK"

// Envelope is the response wrapper shared by every JSON endpoint.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Result  any    `json:"result"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteOK writes a successful envelope with status 200.
func WriteOK(w http.ResponseWriter, message string, result any) {
	WriteJSON(w, http.StatusOK, Envelope{
		Code:    CodeOK,
		Message: message,
		Result:  result,
	})
}

// WriteError writes an AppError as an HTTP response with appropriate status code
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		// Wrap unknown errors as internal errors
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	message := appErr.Message
	details := appErr.Details
	if isInternal(appErr.Code) {
		message = "An unexpected error occurred"
		details = nil
	}

	WriteJSON(w, StatusFromCode(appErr.Code), Envelope{
		Code:    string(appErr.Code),
		Message: message,
		Details: details,
	})
}

func isInternal(code apperrors.ErrorCode) bool {
	switch code {
	case apperrors.ErrCodeInternal,
		apperrors.ErrCodeDatabase,
		apperrors.ErrCodeStorage,
		apperrors.ErrCodeGatewayUnavailable:
		return true
	}
	return false
}

// StatusFromCode maps ErrorCode to HTTP status code
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	// 400 Bad Request
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeMissingRequired:
		return http.StatusBadRequest

	// 401 Unauthorized
	case apperrors.ErrCodeInvalidCredentials,
		apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized

	// 403 Forbidden
	case apperrors.ErrCodeForbiddenDomain:
		return http.StatusForbidden

	// 404 Not Found
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeNoActiveAd:
		return http.StatusNotFound

	// 413 Request Entity Too Large
	case apperrors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}
