package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/growlab/pfal-controller/internal/model"
)

func TestStateHandler(t *testing.T) {
	c, _ := newTestController(t, 12)
	c.OnReading(model.VariablePH, 6.12, "esp32_1", time.Now().UTC())

	rec := httptest.NewRecorder()
	NewStateHandler(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Profile   string                         `json:"profile"`
		Readings  map[string]model.SensorReading `json:"readings"`
		Actuators map[string]string              `json:"actuators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if body.Profile != "default" {
		t.Errorf("profile = %q", body.Profile)
	}
	if r, ok := body.Readings["ph"]; !ok || r.Value != 6.12 {
		t.Errorf("readings = %+v", body.Readings)
	}
	// La passata sulla lettura ha già acceso le luci (ore 12).
	if body.Actuators["lights"] != "ON" {
		t.Errorf("actuators = %+v", body.Actuators)
	}
}

func TestReadyHandlerWithoutConnections(t *testing.T) {
	rec := httptest.NewRecorder()
	NewReadyHandler(nil, nil, nil, 30*time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body struct {
		Ready bool `json:"ready"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if body.Ready {
		t.Error("ready = true with no broker connection")
	}
}
