package sensor_simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/pkg/dedup"
	"github.com/growlab/pfal-controller/pkg/mqttbus"
)

// Topics raccoglie dove pubblicare le letture e da dove arrivano i comandi.
type Topics struct {
	PH          string
	EC          string
	Temperature string
	Climate     string
	Actuators   map[model.ActuatorKind]string
}

func (t Topics) ActuatorList() []string {
	out := make([]string, 0, len(t.Actuators))
	for _, topic := range t.Actuators {
		out = append(out, topic)
	}
	return out
}

func (t Topics) actuatorFor(topic string) (model.ActuatorKind, bool) {
	for kind, tp := range t.Actuators {
		if tp == topic {
			return kind, true
		}
	}
	return "", false
}

// SensorSimulator pubblica le quattro letture a intervalli regolari e applica
// i comandi attuatore che riceve, impulsi compresi.
type SensorSimulator struct {
	mu        sync.Mutex
	sensorID  string
	topics    Topics
	generator *DataGenerator
	publisher mqttbus.IPublisher
	consumer  mqttbus.IConsumer[mqtt.Message]
	deduper   *dedup.Deduper
	timers    map[model.ActuatorKind]*time.Timer
}

func NewSensorSimulator(consumer mqttbus.IConsumer[mqtt.Message], publisher mqttbus.IPublisher,
	gen *DataGenerator, sensorID string, topics Topics) *SensorSimulator {
	return &SensorSimulator{
		sensorID:  sensorID,
		topics:    topics,
		generator: gen,
		publisher: publisher,
		consumer:  consumer,
		// TTL sotto la cadenza di valutazione del controller: gli impulsi
		// pompa si ripetono identici a ogni passata e devono passare, solo le
		// redelivery immediate del broker vanno scartate.
		deduper: dedup.New(2*time.Second, 10000),
		timers:  make(map[model.ActuatorKind]*time.Timer),
	}
}

// Start avvia la ricezione dei comandi e la pubblicazione periodica.
func (s *SensorSimulator) Start(ctx context.Context, interval time.Duration) {
	s.consumer.SetHandler(s.handleCommand)
	go s.consumer.ConsumeMessage(ctx)

	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(interval):
			s.publishSample()
		}
	}
}

func (s *SensorSimulator) publishSample() {
	sample := s.generator.Next()

	log.Printf("sim: pub sensor=%s ph=%.2f ec=%.2f temp=%.1f rh=%.1f",
		s.sensorID, sample.PH, sample.EC, sample.Temperature, sample.Humidity)

	s.publishValue(s.topics.PH, sample.PH)
	s.publishValue(s.topics.EC, sample.EC)
	s.publishValue(s.topics.Temperature, sample.Temperature)
	s.publishClimate(sample)
}

func (s *SensorSimulator) publishValue(topic string, value float64) {
	payload, _ := json.Marshal(model.SensorData{Value: &value, SensorID: s.sensorID})
	if err := s.publisher.PublishToQos(topic, 0, false, string(payload)); err != nil {
		log.Printf("sim: publish error on %s: %v", topic, err)
	}
}

func (s *SensorSimulator) publishClimate(sample Sample) {
	payload, _ := json.Marshal(model.ClimateData{
		Temperature: &sample.Temperature,
		Humidity:    &sample.Humidity,
		Pressure:    &sample.Pressure,
		SensorID:    s.sensorID,
	})
	// il feed clima viaggia a QoS1, come lato controller
	if err := s.publisher.PublishToQos(s.topics.Climate, 1, false, string(payload)); err != nil {
		log.Printf("sim: publish error on %s: %v", s.topics.Climate, err)
	}
}

func (s *SensorSimulator) handleCommand(topic string, msg mqtt.Message) error {
	// Dedup su topic+payload: una redelivery QoS1 ripete entrambi. Il solo
	// payload non basta, "ON" per le luci e "ON" per le ventole sono identici.
	h := sha256.Sum256(msg.Payload())
	if s.deduper != nil && !s.deduper.ShouldProcessKey(topic+"|"+hex.EncodeToString(h[:])) {
		return nil // duplicato → ignora
	}

	kind, ok := s.topics.actuatorFor(topic)
	if !ok {
		return nil // comando per qualcun altro
	}

	var cmd model.ActuatorCommand
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		return fmt.Errorf("invalid ActuatorCommand: %w", err)
	}

	on := cmd.Command == string(model.DirectiveOn)
	s.applyTimedState(kind, on, cmd.DurationMs)
	return nil
}

// applyTimedState applica il comando e, se ha una durata, programma il
// ritorno a OFF a fine impulso.
func (s *SensorSimulator) applyTimedState(kind model.ActuatorKind, on bool, durationMs *uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.timers[kind]; t != nil {
		t.Stop()
		delete(s.timers, kind)
	}

	s.generator.SetActuator(kind, on)
	fmt.Printf("Actuator %s → %v\n", kind, on)

	if on && durationMs != nil && *durationMs > 0 {
		d := time.Duration(*durationMs) * time.Millisecond
		s.timers[kind] = time.AfterFunc(d, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.generator.SetActuator(kind, false)
			fmt.Printf("Actuator %s ↺ off\n", kind)
			delete(s.timers, kind)
		})
	}
}
