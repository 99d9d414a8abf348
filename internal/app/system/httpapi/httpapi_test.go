package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindUpstream, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("Kind(%d).Status() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, "created", map[string]string{"id": "42"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if !env.Success || env.Message != "created" || env.Error != "" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestWriteErrorClassified(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest, "bad input"},
		{"conflict", Conflict("already exists"), http.StatusConflict, "already exists"},
		{"not found", NotFound("missing"), http.StatusNotFound, "missing"},
		{"upstream", Upstream("service down", errors.New("dial tcp")), http.StatusBadGateway, "service down"},
		{"wrapped classified error", &withWrapper{Validation("inner")}, http.StatusBadRequest, "inner"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, zap.NewNop(), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var env Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decoding envelope: %v", err)
			}
			if env.Success {
				t.Error("success must be false on error responses")
			}
			if env.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", env.Error, tt.wantMsg)
			}
		})
	}
}

// withWrapper checks errors.As unwrapping through intermediate layers.
type withWrapper struct{ inner error }

func (w *withWrapper) Error() string { return "wrapped: " + w.inner.Error() }
func (w *withWrapper) Unwrap() error { return w.inner }

func TestWriteErrorNeverLeaksCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), Internal("saving record", errors.New("mongo: connection refused at 10.0.0.5")))

	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("underlying cause leaked into the response body")
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		var p payload
		if err := Decode(r, &p); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if p.Name != "x" {
			t.Errorf("name = %q", p.Name)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var p payload
		err := Decode(r, &p)
		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindValidation {
			t.Errorf("expected a validation error, got %v", err)
		}
	})
}
