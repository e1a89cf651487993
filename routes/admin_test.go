package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/storage"
)

func TestAdminUsersRBAC(t *testing.T) {
	app := buildTestApp(t)
	resetTables(t)

	seedRouteUser(t, "user")

	// No token -> rejected by the verifier.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// User role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "user"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp2.Code)
	}

	// Admin role -> 200
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "admin"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d: %s", resp3.Code, resp3.Body.String())
	}
}

func TestAdminUpdateStationStatusHTTP(t *testing.T) {
	app := buildTestApp(t)
	resetTables(t)

	admin := seedRouteUser(t, "admin")
	owner := seedRouteUser(t, "owner")
	station := seedRouteStation(t, owner.ID, 2, models.StationPending)

	adminToken := signTestToken(t, admin.ID, "admin")
	path := "/api/admin/stations/" + itoa(station.ID) + "/status"

	// Bogus status is rejected.
	resp := postJSON(t, app, http.MethodPatch, path, adminToken,
		map[string]string{"status": "sideways"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad status, got %d", resp.Code)
	}

	resp = postJSON(t, app, http.MethodPatch, path, adminToken,
		map[string]string{"status": models.StationAccepted, "note": "looks good"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Data struct {
			Status      string `json:"status"`
			ReviewNotes string `json:"reviewNotes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode station: %v", err)
	}
	if body.Data.Status != models.StationAccepted || body.Data.ReviewNotes != "looks good" {
		t.Fatalf("unexpected station after update: %+v", body.Data)
	}

	// The owner gets an inbox entry about the review.
	var count int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", owner.ID, "station_status").
		Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 owner notification, got %d", count)
	}
}
