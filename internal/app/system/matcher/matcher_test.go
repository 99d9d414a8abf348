package matcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMatchDonors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matchDonors" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("payload not JSON: %v", err)
		}
		if payload["bloodGroup"] != "O+" {
			t.Errorf("payload = %v", payload)
		}
		w.Write([]byte(`{"donors":[{"name":"Asha"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, zap.NewNop())
	raw, err := c.MatchDonors(context.Background(), map[string]interface{}{"bloodGroup": "O+"})
	if err != nil {
		t.Fatalf("MatchDonors: %v", err)
	}

	var result struct {
		Donors []struct{ Name string } `json:"donors"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding relayed response: %v", err)
	}
	if len(result.Donors) != 1 || result.Donors[0].Name != "Asha" {
		t.Errorf("result = %+v", result)
	}
}

func TestMatchCampsForwardsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/findNearbyCamps" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("authorization = %q", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, zap.NewNop())
	if _, err := c.MatchCamps(context.Background(), map[string]float64{"latitude": 18.52}, "token-123"); err != nil {
		t.Fatalf("MatchCamps: %v", err)
	}
}

func TestMatcherNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, zap.NewNop())
	if _, err := c.MatchDonors(context.Background(), map[string]string{}); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestMatcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 50*time.Millisecond, zap.NewNop())
	if _, err := c.MatchDonors(context.Background(), map[string]string{}); err == nil {
		t.Error("expected timeout error")
	}
}
