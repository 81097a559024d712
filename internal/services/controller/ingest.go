package controller

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/internal/observability"
	"github.com/growlab/pfal-controller/pkg/dedup"
)

// ReadingPersister receives every accepted reading before rule evaluation.
// Writes are fire-and-forget; evaluation never waits on them.
type ReadingPersister interface {
	WriteReading(variable model.VariableKind, value float64, sensorID string, ts time.Time)
	WriteClimate(temperature, humidity, pressure float64, sensorID string, ts time.Time)
}

// SensorTopics names the subscribed topics so the handler can route by the
// topic a message actually arrived on.
type SensorTopics struct {
	PH          string
	EC          string
	Temperature string
	Climate     string
}

func (t SensorTopics) List() []string {
	return []string{t.PH, t.EC, t.Temperature, t.Climate}
}

// Ingestor decodes sensor payloads, persists them and feeds the controller.
// Malformed payloads are logged and dropped here; the rules never see them.
type Ingestor struct {
	ctrl    *Controller
	writer  ReadingPersister
	topics  SensorTopics
	deduper *dedup.Deduper
	metrics *observability.Metrics
}

func NewIngestor(ctrl *Controller, writer ReadingPersister, topics SensorTopics, m *observability.Metrics) (*Ingestor, error) {
	if ctrl == nil {
		return nil, errors.New("controller is nil")
	}
	if writer == nil {
		return nil, errors.New("persister is nil")
	}
	return &Ingestor{
		ctrl:   ctrl,
		writer: writer,
		topics: topics,
		// TTL below the slowest publish cadence: only broker redeliveries
		// repeat a payload that fast, honest repeated readings must pass.
		deduper: dedup.New(5*time.Second, 10000),
		metrics: m,
	}, nil
}

// Handle is the shared subscription callback for all sensor topics.
func (i *Ingestor) Handle(topic string, msg mqtt.Message) error {
	switch topic {
	case i.topics.PH:
		i.handleValue(model.VariablePH, msg.Payload())
	case i.topics.EC:
		i.handleValue(model.VariableEC, msg.Payload())
	case i.topics.Temperature:
		i.handleValue(model.VariableTemperature, msg.Payload())
	case i.topics.Climate:
		// QoS1 subscription: drop broker redeliveries before decoding.
		if !i.deduper.ShouldProcess(msg.Payload()) {
			return nil
		}
		i.handleClimate(msg.Payload())
	default:
		log.Printf("ingest: message on unknown topic %q", topic)
	}
	return nil
}

func (i *Ingestor) handleValue(variable model.VariableKind, payload []byte) {
	value, sensorID, err := parseSensorData(payload)
	if err != nil {
		i.metrics.ReadingMalformed()
		log.Printf("ingest: bad %s payload: %v", variable, err)
		return
	}
	ts := time.Now().UTC()
	i.writer.WriteReading(variable, value, sensorID, ts)
	i.metrics.ReadingIngested(string(variable))
	i.ctrl.OnReading(variable, value, sensorID, ts)
}

func (i *Ingestor) handleClimate(payload []byte) {
	var cd model.ClimateData
	if err := json.Unmarshal(payload, &cd); err != nil {
		i.metrics.ReadingMalformed()
		log.Printf("ingest: bad climate payload: %v", err)
		return
	}
	if cd.Temperature == nil || cd.Humidity == nil || cd.Pressure == nil {
		i.metrics.ReadingMalformed()
		log.Printf("ingest: climate payload missing fields")
		return
	}
	sensorID := cd.SensorID
	if sensorID == "" {
		sensorID = "default"
	}
	ts := time.Now().UTC()
	i.writer.WriteClimate(*cd.Temperature, *cd.Humidity, *cd.Pressure, sensorID, ts)
	i.metrics.ReadingIngested(string(model.VariableTemperature))
	i.metrics.ReadingIngested(string(model.VariableHumidity))
	i.ctrl.OnClimate(*cd.Temperature, *cd.Humidity, sensorID, ts)
}

// parseSensorData accepts the JSON probe payload and, as a fallback, a bare
// numeric payload from the dumbest firmware.
func parseSensorData(payload []byte) (float64, string, error) {
	var sd model.SensorData
	if err := json.Unmarshal(payload, &sd); err == nil {
		if sd.Value == nil {
			return 0, "", errors.New("payload has no value field")
		}
		sensorID := sd.SensorID
		if sensorID == "" {
			sensorID = "default"
		}
		return *sd.Value, sensorID, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		return 0, "", errors.New("payload is neither JSON nor a number")
	}
	return v, "default", nil
}
