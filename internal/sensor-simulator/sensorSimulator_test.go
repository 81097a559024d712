package sensor_simulator

import (
	"testing"
	"time"

	"github.com/growlab/pfal-controller/internal/model"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func testSimTopics() Topics {
	return Topics{
		PH:          "pfal/sensors/ph",
		EC:          "pfal/sensors/ec",
		Temperature: "pfal/sensors/temperature",
		Climate:     "pfal/sensors/bme280",
		Actuators: map[model.ActuatorKind]string{
			model.ActuatorPHPump: "pfal/actuators/ph_pump",
			model.ActuatorLights: "pfal/actuators/lights",
			model.ActuatorFans:   "pfal/actuators/fans",
		},
	}
}

func newTestSimulator() *SensorSimulator {
	gen := NewDataGenerator(1)
	return NewSensorSimulator(nil, nil, gen, "esp32_test", testSimTopics())
}

func TestHandleCommandSetsActuator(t *testing.T) {
	s := newTestSimulator()

	msg := &fakeMessage{topic: "pfal/actuators/fans", payload: []byte(`{"command":"ON"}`)}
	if err := s.handleCommand(msg.Topic(), msg); err != nil {
		t.Fatalf("handleCommand: %v", err)
	}
	if !s.generator.State().Fans {
		t.Error("fans not switched on")
	}

	off := &fakeMessage{topic: "pfal/actuators/fans", payload: []byte(`{"command":"OFF"}`)}
	if err := s.handleCommand(off.Topic(), off); err != nil {
		t.Fatalf("handleCommand: %v", err)
	}
	if s.generator.State().Fans {
		t.Error("fans not switched off")
	}
}

func TestHandleCommandPulseReverts(t *testing.T) {
	s := newTestSimulator()

	msg := &fakeMessage{topic: "pfal/actuators/ph_pump", payload: []byte(`{"command":"ON","duration_ms":20}`)}
	if err := s.handleCommand(msg.Topic(), msg); err != nil {
		t.Fatalf("handleCommand: %v", err)
	}
	if !s.generator.State().PHPump {
		t.Fatal("pump not switched on")
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.generator.State().PHPump {
		if time.Now().After(deadline) {
			t.Fatal("pump still on after pulse duration")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandleCommandDropsRedelivery(t *testing.T) {
	s := newTestSimulator()

	payload := []byte(`{"command":"ON"}`)
	msg := &fakeMessage{topic: "pfal/actuators/lights", payload: payload}
	if err := s.handleCommand(msg.Topic(), msg); err != nil {
		t.Fatalf("handleCommand: %v", err)
	}
	if !s.generator.State().Lights {
		t.Fatal("lights not switched on")
	}

	// spegni a mano e ripresenta lo stesso payload: il dedup lo scarta
	s.generator.SetActuator(model.ActuatorLights, false)
	if err := s.handleCommand(msg.Topic(), msg); err != nil {
		t.Fatalf("handleCommand: %v", err)
	}
	if s.generator.State().Lights {
		t.Error("redelivered command was applied")
	}
}

func TestHandleCommandIgnoresUnknownTopic(t *testing.T) {
	s := newTestSimulator()

	msg := &fakeMessage{topic: "pfal/actuators/heater", payload: []byte(`{"command":"ON"}`)}
	if err := s.handleCommand(msg.Topic(), msg); err != nil {
		t.Fatalf("handleCommand: %v", err)
	}
	state := s.generator.State()
	if state.PHPump || state.Lights || state.Fans {
		t.Errorf("unknown topic changed state: %+v", state)
	}
}

func TestHandleCommandRejectsGarbage(t *testing.T) {
	s := newTestSimulator()

	msg := &fakeMessage{topic: "pfal/actuators/fans", payload: []byte(`{{{`)}
	if err := s.handleCommand(msg.Topic(), msg); err == nil {
		t.Fatal("want error for malformed command payload")
	}
}
