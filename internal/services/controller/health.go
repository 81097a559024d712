package controller

import (
	"encoding/json"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/internal/services/persistence"
)

type healthHandler struct {
	mqtt   mqtt.Client
	influx influxdb2.Client
	writer *persistence.Writer
}

func NewHealthHandler(m mqtt.Client, i influxdb2.Client, w *persistence.Writer) http.Handler {
	return &healthHandler{mqtt: m, influx: i, writer: w}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		InfluxOK        bool    `json:"influx_ok"`
		LastWriteErrorS float64 `json:"last_write_error_age_sec"`
	}
	st := status{
		MQTTConnected:   h.mqtt != nil && h.mqtt.IsConnectionOpen(),
		InfluxOK:        h.influx != nil, // client existence, lightweight check
		LastWriteErrorS: h.writer.LastErrorAge().Seconds(),
	}

	// ok when deps are up and writes have not errored recently
	if st.MQTTConnected && st.InfluxOK && h.writer.LastErrorAge() > 30*time.Second {
		st.Status = "ok"
	} else if st.MQTTConnected || st.InfluxOK {
		st.Status = "degraded"
	} else {
		st.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

// readyHandler answers /readyz: 200 only when every dependency is ok.
type readyHandler struct {
	mqtt     mqtt.Client
	influx   influxdb2.Client
	writer   *persistence.Writer
	minError time.Duration
}

func NewReadyHandler(m mqtt.Client, i influxdb2.Client, w *persistence.Writer, minOkErrorAge time.Duration) http.Handler {
	return &readyHandler{mqtt: m, influx: i, writer: w, minError: minOkErrorAge}
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	ready := h.mqtt != nil && h.mqtt.IsConnectionOpen() && h.influx != nil && h.writer.LastErrorAge() > h.minError
	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	type resp struct {
		Ready bool `json:"ready"`
	}
	_ = json.NewEncoder(w).Encode(resp{Ready: ready})
}

// stateHandler dumps the live readings and last dispatched directives, for a
// quick look at what the controller currently believes.
type stateHandler struct {
	ctrl *Controller
}

func NewStateHandler(c *Controller) http.Handler {
	return &stateHandler{ctrl: c}
}

func (h *stateHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type resp struct {
		Profile   string                                     `json:"profile"`
		Readings  map[model.VariableKind]model.SensorReading `json:"readings"`
		Actuators map[model.ActuatorKind]model.Directive     `json:"actuators"`
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp{
		Profile:   h.ctrl.Profile().ProfileName,
		Readings:  h.ctrl.Store().Snapshot(),
		Actuators: h.ctrl.State().Snapshot(),
	})
}
