package response

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/segyhp/equipment-lease/pkg/errors"

	"go.uber.org/zap"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	Message      string    `json:"message,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
	ErrorDetails *string   `json:"error_details,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// SuccessMessage sends a successful JSON response with a human readable message
func SuccessMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	resp := ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	}

	if err != nil {
		resp.Error = err.Error()
	}

	writeJSON(w, statusCode, resp)
}

// Failure sends a structured failure: success flag, message and a stable code.
// details is only rendered when non-nil.
func Failure(w http.ResponseWriter, statusCode int, message, code string, details *string) {
	writeJSON(w, statusCode, ErrorResponse{
		Success:      false,
		Message:      message,
		ErrorCode:    code,
		ErrorDetails: details,
		Timestamp:    time.Now(),
	})
}

// FromError renders err as a structured failure. Business errors keep their
// code and message; anything else becomes INTERNAL_ERROR and its text is only
// exposed when showDetails is set.
func FromError(w http.ResponseWriter, err error, showDetails bool) {
	be, ok := apperrors.AsBusinessError(err)
	if !ok {
		be = apperrors.WrapInternal(err)
	}

	var details *string
	if showDetails && be.Err != nil {
		text := be.Err.Error()
		details = &text
	}

	message := be.Message
	if be.Code == apperrors.ErrCodeDatabaseError || be.Code == apperrors.ErrCodeCacheError {
		message = "Internal server error"
	}

	Failure(w, StatusForCode(be.Code), message, be.Code, details)
}

// StatusForCode maps a business error code to an HTTP status
func StatusForCode(code string) int {
	switch code {
	case apperrors.ErrCodeContractNotFound,
		apperrors.ErrCodeInvoiceNotFound,
		apperrors.ErrCodeItemNotFound,
		apperrors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeContractAlreadySubmitted,
		apperrors.ErrCodeContractCancelled,
		apperrors.ErrCodeContractNotSubmitted,
		apperrors.ErrCodeContractLocked,
		apperrors.ErrCodeConcurrentModification,
		apperrors.ErrCodeAssetAlreadyExists,
		apperrors.ErrCodeInvoiceNotSubmitted:
		return http.StatusConflict
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeInvalidPaymentAmount:
		return http.StatusBadRequest
	case apperrors.ErrCodeUserDisabled,
		apperrors.ErrCodeInvalidPassword,
		apperrors.ErrCodeInvalidAPIKey:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusBadRequest, message, err)
}

// NotFound sends a 404 not found response
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusInternalServerError, message, err)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 forbidden response
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message, nil)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("encode json response", zap.Error(err))
	}
}

// JSONMiddleware sets JSON content type for all responses
func JSONMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder := &responseRecorder{ResponseWriter: w, statusCode: 200}

			next.ServeHTTP(recorder, r)

			log.Info("http.request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.statusCode),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
