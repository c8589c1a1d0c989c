package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"watrigger/config"
	dbpkg "watrigger/db"
	"watrigger/router"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

const testBaseURL = "https://hooks.example.com"

func newTestRouter(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	handle, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })
	dbpkg.Migrate(handle)

	cfg := config.Configuration{
		ApiPort:         "8080",
		Database:        "sqlite3",
		BaseCallbackURL: testBaseURL,
		GraphApiVersion: "v18.0",
	}

	r := gin.New()
	router.Initialize(r, cfg, handle)
	return handle, r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("failed to decode json: %v body=%q", err, rr.Body.String())
	}
	return m
}

// createTrigger creates a trigger through the API and returns its fields.
func createTrigger(t *testing.T, h http.Handler) map[string]any {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/triggers", map[string]string{
		"business_name": "Acme",
		"app_id":        "app-1",
		"phone_id":      "phone-1",
		"access_token":  "token-1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating trigger, got %d body=%q", rr.Code, rr.Body.String())
	}

	body := decodeJSON(t, rr)
	trigger, ok := body["trigger"].(map[string]any)
	if !ok {
		t.Fatalf("missing trigger in response: %v", body)
	}
	return trigger
}

func triggerID(t *testing.T, trigger map[string]any) string {
	t.Helper()
	id, ok := trigger["id"].(float64)
	if !ok {
		t.Fatalf("trigger has no numeric id: %v", trigger)
	}
	return strconv.FormatInt(int64(id), 10)
}

// toggleActive flips the trigger through the API.
func toggleActive(t *testing.T, h http.Handler, id string) {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/api/triggers/"+id+"/toggle", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 toggling trigger, got %d body=%q", rr.Code, rr.Body.String())
	}
}
