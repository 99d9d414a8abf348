package camps_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/app/features/camps"
	campstore "github.com/bloodlinkhq/bloodlink/internal/app/store/camps"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/indexes"
	"github.com/bloodlinkhq/bloodlink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type stubGeocoder struct {
	pt    geocode.Point
	err   error
	calls int
}

func (s *stubGeocoder) Resolve(ctx context.Context, addr geocode.Address) (geocode.Point, error) {
	s.calls++
	if s.err != nil {
		return geocode.Point{}, s.err
	}
	return s.pt, nil
}

type stubMatcher struct {
	payload interface{}
	bearer  string
	result  json.RawMessage
	err     error
}

func (s *stubMatcher) MatchCamps(ctx context.Context, payload interface{}, bearerToken string) (json.RawMessage, error) {
	s.payload = payload
	s.bearer = bearerToken
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestHandler(t *testing.T) (*camps.Handler, *mongo.Database, *stubGeocoder, *stubMatcher) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	geo := &stubGeocoder{pt: geocode.Point{Latitude: 18.52, Longitude: 73.85}}
	match := &stubMatcher{result: json.RawMessage(`{"camps":[]}`)}

	h := camps.NewHandler(db, geo, nil, "India", zap.NewNop())
	h.Match = match
	return h, db, geo, match
}

func futureDateStr(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func campPayload() map[string]interface{} {
	return map[string]interface{}{
		"campName":         "Summer Drive",
		"organizerName":    "red crescent society",
		"organizerType":    "NGO",
		"organizerContact": "9876543210",
		"organizerEmail":   "org@example.com",
		"organizingDate":   futureDateStr(14),
		"startTime":        "09:00",
		"endTime":          "17:00",
		"address":          "12 MG Road",
		"city":             "Pune",
		"district":         "Pune",
		"state":            "Maharashtra",
		"campDetails":      "Annual community blood drive.",
	}
}

func TestHandleRegisterCamp(t *testing.T) {
	h, db, geo, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", campPayload())
	rec := httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if geo.calls != 1 {
		t.Errorf("expected one geocode call, got %d", geo.calls)
	}

	camps, err := campstore.New(db).List(testutil.TestContext(t))
	if err != nil {
		t.Fatalf("listing camps: %v", err)
	}
	if len(camps) != 1 {
		t.Fatalf("expected 1 camp, got %d", len(camps))
	}
	c := camps[0]
	if c.Country != "India" {
		t.Errorf("expected default country, got %q", c.Country)
	}
	if c.Latitude != 18.52 || c.Longitude != 73.85 {
		t.Errorf("resolved coordinates not persisted: %v,%v", c.Latitude, c.Longitude)
	}
	if c.OrganizerName != "Red Crescent Society" {
		t.Errorf("organizer name not title-cased: %q", c.OrganizerName)
	}
}

func TestHandleRegisterCamp_SanitizesDetails(t *testing.T) {
	h, db, _, _ := newTestHandler(t)

	payload := campPayload()
	payload["campDetails"] = `Free checkup <script>alert("x")</script> for all donors`

	req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", payload)
	rec := httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	camps, _ := campstore.New(db).List(testutil.TestContext(t))
	if strings.Contains(camps[0].CampDetails, "<script>") {
		t.Errorf("details not sanitized: %q", camps[0].CampDetails)
	}
}

func TestHandleRegisterCamp_CollaboratorShapes(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	ctx := testutil.TestContext(t)
	want := []string{"Red Cross", "Lions Club"}

	tests := []struct {
		name          string
		campName      string
		collaborators interface{}
	}{
		{"array form", "Array Camp", []string{"Red Cross", "Lions Club"}},
		{"comma-separated string form", "String Camp", "Red Cross, Lions Club"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := campPayload()
			payload["campName"] = tc.campName
			payload["collaborators"] = tc.collaborators

			req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", payload)
			rec := httptest.NewRecorder()
			h.HandleRegisterCamp(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
			}

			camps, err := campstore.New(db).List(ctx)
			if err != nil {
				t.Fatalf("listing camps: %v", err)
			}
			var got []string
			for _, c := range camps {
				if c.CampName == tc.campName {
					got = c.Collaborators
				}
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("collaborators = %v, want %v", got, want)
			}
		})
	}

	// Any other JSON shape is a decode error.
	payload := campPayload()
	payload["campName"] = "Bad Camp"
	payload["collaborators"] = 42
	req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", payload)
	rec := httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for numeric collaborators, got %d", rec.Code)
	}
}

func TestHandleRegisterCamp_DateBoundary(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	// Tomorrow's UTC date is the earliest schedulable day; today's is
	// rejected whatever the server's local clock reads.
	payload := campPayload()
	payload["organizingDate"] = time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", payload)
	rec := httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for tomorrow, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	payload = campPayload()
	payload["campName"] = "Today Camp"
	payload["organizingDate"] = time.Now().UTC().Format("2006-01-02")
	req = testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", payload)
	rec = httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for today, got %d", rec.Code)
	}
}

func TestHandleRegisterCamp_Validation(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing camp name", func(p map[string]interface{}) { delete(p, "campName") }},
		{"missing state", func(p map[string]interface{}) { delete(p, "state") }},
		{"bad organizer type", func(p map[string]interface{}) { p["organizerType"] = "Circus" }},
		{"bad contact", func(p map[string]interface{}) { p["organizerContact"] = "12345" }},
		{"bad email", func(p map[string]interface{}) { p["organizerEmail"] = "not-an-email" }},
		{"end before start", func(p map[string]interface{}) { p["startTime"] = "17:00"; p["endTime"] = "09:00" }},
		{"bad time format", func(p map[string]interface{}) { p["startTime"] = "9am" }},
		{"bad date format", func(p map[string]interface{}) { p["organizingDate"] = "14-06-2027" }},
		{"date in the past", func(p map[string]interface{}) { p["organizingDate"] = "2020-01-01" }},
		{"date today", func(p map[string]interface{}) { p["organizingDate"] = time.Now().UTC().Format("2006-01-02") }},
		{"name too long", func(p map[string]interface{}) { p["campName"] = strings.Repeat("x", 101) }},
		{"details too long", func(p map[string]interface{}) { p["campDetails"] = strings.Repeat("x", 501) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := campPayload()
			tc.mutate(payload)
			req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", payload)
			rec := httptest.NewRecorder()
			h.HandleRegisterCamp(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRegisterCamp_GeocodeFailures(t *testing.T) {
	h, _, geo, _ := newTestHandler(t)

	geo.err = geocode.ErrNotFound
	req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", campPayload())
	rec := httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unresolvable venue, got %d", rec.Code)
	}

	geo.err = errors.New("connection refused")
	req = testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", campPayload())
	rec = httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for geocoder outage, got %d", rec.Code)
	}
}

func TestHandleRegisterCamp_Duplicate(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensuring indexes: %v", err)
	}

	req := testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", campPayload())
	rec := httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d (body: %s)", rec.Code, rec.Body.String())
	}

	req = testutil.NewJSONRequest(t, "POST", "/camps/registerCamp", campPayload())
	rec = httptest.NewRecorder()
	h.HandleRegisterCamp(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for same name and date, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleUpdateCamp_TimeChangeRevalidatesPair(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	c := fixtures.CreateCamp(ctx, "Summer Drive", "org@example.com",
		time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14))

	// Patching only endTime must be checked against the stored startTime.
	req := testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id":     c.ID.Hex(),
		"endTime": "08:00",
	})
	rec := httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for end before stored start, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	req = testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id":     c.ID.Hex(),
		"endTime": "19:00",
	})
	rec = httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	got, err := campstore.New(db).GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("reloading camp: %v", err)
	}
	if got.EndTime != "19:00" || got.StartTime != "09:00" {
		t.Errorf("expected merged times 09:00-19:00, got %s-%s", got.StartTime, got.EndTime)
	}
}

func TestHandleUpdateCamp_LocationChangeTriggersGeocode(t *testing.T) {
	h, db, geo, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	c := fixtures.CreateCamp(ctx, "Summer Drive", "org@example.com",
		time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14))
	geo.pt = geocode.Point{Latitude: 19.07, Longitude: 72.87}

	req := testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id":  c.ID.Hex(),
		"city": "Mumbai",
	})
	rec := httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if geo.calls != 1 {
		t.Errorf("expected one geocode call, got %d", geo.calls)
	}

	got, _ := campstore.New(db).GetByID(ctx, c.ID)
	if got.City != "Mumbai" || got.Latitude != 19.07 {
		t.Errorf("relocation not persisted: city=%q lat=%v", got.City, got.Latitude)
	}
}

func TestHandleUpdateCamp_NonLocationEditSkipsGeocode(t *testing.T) {
	h, db, geo, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	c := fixtures.CreateCamp(ctx, "Summer Drive", "org@example.com",
		time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14))
	geo.err = errors.New("connection refused")

	req := testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id":      c.ID.Hex(),
		"campName": "Winter Drive",
	})
	rec := httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if geo.calls != 0 {
		t.Errorf("geocoder must not be called for non-location edits, got %d calls", geo.calls)
	}
}

func TestHandleUpdateCamp_CollaboratorShapes(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	c := fixtures.CreateCamp(ctx, "Summer Drive", "org@example.com",
		time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14))

	req := testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id":           c.ID.Hex(),
		"collaborators": "Red Cross, Lions Club",
	})
	rec := httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	got, err := campstore.New(db).GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("reloading camp: %v", err)
	}
	if !reflect.DeepEqual(got.Collaborators, []string{"Red Cross", "Lions Club"}) {
		t.Errorf("collaborators = %v, want the split string", got.Collaborators)
	}

	req = testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id":           c.ID.Hex(),
		"collaborators": []string{"Rotary"},
	})
	rec = httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	got, _ = campstore.New(db).GetByID(ctx, c.ID)
	if !reflect.DeepEqual(got.Collaborators, []string{"Rotary"}) {
		t.Errorf("collaborators = %v, want [Rotary]", got.Collaborators)
	}
}

func TestHandleUpdateCamp_BadID(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id": "not-a-hex-id",
	})
	rec := httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}

	req = testutil.NewJSONRequest(t, "PUT", "/camps/updateCamp", map[string]interface{}{
		"_id": primitive.NewObjectID().Hex(),
	})
	rec = httptest.NewRecorder()
	h.HandleUpdateCamp(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestHandleDeleteCamp(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	c := fixtures.CreateCamp(ctx, "Doomed Camp", "org@example.com",
		time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14))

	req := testutil.NewJSONRequest(t, "DELETE", "/camps/deleteCamp", map[string]interface{}{
		"_id": c.ID.Hex(),
	})
	rec := httptest.NewRecorder()
	h.HandleDeleteCamp(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]interface{})
	if data["campName"] != "Doomed Camp" {
		t.Errorf("expected deleted camp echoed back, got %v", data)
	}

	if _, err := campstore.New(db).GetByID(ctx, c.ID); err != campstore.ErrNotFound {
		t.Errorf("expected camp to be gone, got %v", err)
	}
}

func TestHandleDeleteCamp_NotFound(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "DELETE", "/camps/deleteCamp", map[string]interface{}{
		"_id": primitive.NewObjectID().Hex(),
	})
	rec := httptest.NewRecorder()
	h.HandleDeleteCamp(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleMatchCamps(t *testing.T) {
	h, _, _, match := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/camps/matchCamps", map[string]interface{}{
		"latitude":    18.52,
		"longitude":   73.85,
		"maxDistance": 25,
	})
	req.Header.Set("Authorization", "Bearer caller-token")
	rec := httptest.NewRecorder()
	h.HandleMatchCamps(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if match.bearer != "caller-token" {
		t.Errorf("expected caller token forwarded, got %q", match.bearer)
	}
}

func TestHandleMatchCamps_Validation(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"latitude out of range", map[string]interface{}{"latitude": 123.0, "longitude": 73.85, "maxDistance": 25}},
		{"missing distance", map[string]interface{}{"latitude": 18.52, "longitude": 73.85}},
		{"negative distance", map[string]interface{}{"latitude": 18.52, "longitude": 73.85, "maxDistance": -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/camps/matchCamps", tc.body)
			rec := httptest.NewRecorder()
			h.HandleMatchCamps(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleMatchCamps_UpstreamFailure(t *testing.T) {
	h, _, _, match := newTestHandler(t)
	match.err = errors.New("connection refused")

	req := testutil.NewJSONRequest(t, "POST", "/camps/matchCamps", map[string]interface{}{
		"latitude": 18.52, "longitude": 73.85, "maxDistance": 25,
	})
	rec := httptest.NewRecorder()
	h.HandleMatchCamps(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestHandleMyCamps(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	date := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7)
	fixtures.CreateCamp(ctx, "Mine", "hospital@test.com", date)
	fixtures.CreateCamp(ctx, "Theirs", "other@example.com", date.AddDate(0, 0, 1))

	req := testutil.WithUser(httptest.NewRequest("GET", "/camps/myCamps", nil), testutil.HospitalUser())
	rec := httptest.NewRecorder()
	h.HandleMyCamps(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	env := testutil.DecodeEnvelope(t, rec)
	list, _ := env["data"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected 1 own camp, got %d", len(list))
	}
}

func TestHandleAllCamps(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	date := time.Now().UTC().Truncate(24 * time.Hour)
	fixtures.CreateCamp(ctx, "Later", "org@example.com", date.AddDate(0, 0, 20))
	fixtures.CreateCamp(ctx, "Sooner", "org@example.com", date.AddDate(0, 0, 2))

	req := httptest.NewRequest("GET", "/camps/allCamps", nil)
	rec := httptest.NewRecorder()
	h.HandleAllCamps(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	list, _ := env["data"].([]interface{})
	if len(list) != 2 {
		t.Fatalf("expected 2 camps, got %d", len(list))
	}
	first, _ := list[0].(map[string]interface{})
	if first["campName"] != "Sooner" {
		t.Errorf("expected soonest-first order, got %v first", first["campName"])
	}
}
