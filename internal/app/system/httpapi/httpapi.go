// internal/app/system/httpapi/httpapi.go

// Package httpapi owns the JSON response envelope and the mapping from
// component-level failures to HTTP statuses. Every endpoint responds with
//
//	{ "success": bool, "message"?, "data"?, "error"? }
//
// and handlers translate store/adapter errors through WriteError so no
// failure kind leaks as a bare 500.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies a request failure. The zero value is KindInternal.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindUpstream
)

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified request failure with a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, logged but never serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation, Conflict, Unauthorized, Forbidden, NotFound, Upstream, and
// Internal build classified errors with a caller-safe message.
func Validation(msg string) *Error          { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error            { return &Error{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) *Error        { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error           { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error            { return &Error{Kind: KindNotFound, Message: msg} }
func Upstream(msg string, err error) *Error { return &Error{Kind: KindUpstream, Message: msg, Err: err} }
func Internal(msg string, err error) *Error { return &Error{Kind: KindInternal, Message: msg, Err: err} }

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WriteJSON writes a success envelope with the given status.
func WriteJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes a failure envelope. Classified errors carry their own
// status and caller-safe message; anything else becomes a 500 with a
// generic message, and the cause is logged either way.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = &Error{Kind: KindInternal, Message: "internal server error", Err: err}
	}
	if log != nil && (apiErr.Kind == KindInternal || apiErr.Kind == KindUpstream) {
		log.Error("request failed", zap.Int("status", apiErr.Kind.Status()), zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Kind.Status())
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Error: apiErr.Message})
}

// Decode parses a JSON request body into dst, returning a validation
// error on malformed input. Unknown fields are tolerated; the boundary
// validators decide what matters.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return Validation("invalid JSON body")
	}
	return nil
}
