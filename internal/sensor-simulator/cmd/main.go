package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/growlab/pfal-controller/internal/model"
	sensorSimulator "github.com/growlab/pfal-controller/internal/sensor-simulator"
	"github.com/growlab/pfal-controller/pkg/mqttbus"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	sensorID := flag.String("sensor-id", "", "sensor identifier (default esp32_<random>)")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	seed := flag.Int64("seed", time.Now().UnixNano(), "physics RNG seed")
	flag.Parse()

	id := *sensorID
	if id == "" {
		id = fmt.Sprintf("esp32_%s", uuid.NewString()[:8])
	}

	cfg := &mqttbus.MQTTConfig{
		Host:     envStr("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     envStr("MQTT_USER", ""),
		Password: envStr("MQTT_PASSWORD", ""),
		ClientID: fmt.Sprintf("sensor-sim-%s", id),
	}

	topics := sensorSimulator.Topics{
		PH:          envStr("TOPIC_PH", "pfal/sensors/ph"),
		EC:          envStr("TOPIC_EC", "pfal/sensors/ec"),
		Temperature: envStr("TOPIC_TEMPERATURE", "pfal/sensors/temperature"),
		Climate:     envStr("TOPIC_CLIMATE", "pfal/sensors/bme280"),
		Actuators: map[model.ActuatorKind]string{
			model.ActuatorPHPump:       envStr("TOPIC_PH_PUMP", "pfal/actuators/ph_pump"),
			model.ActuatorNutrientPump: envStr("TOPIC_NUTRIENT_PUMP", "pfal/actuators/nutrient_pump"),
			model.ActuatorMainPump:     envStr("TOPIC_MAIN_PUMP", "pfal/actuators/main_pump"),
			model.ActuatorLights:       envStr("TOPIC_LIGHTS", "pfal/actuators/lights"),
			model.ActuatorFans:         envStr("TOPIC_FANS", "pfal/actuators/fans"),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqttbus.NewMQTTConn(cfg, ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer mqttbus.CloseMQTTConn(client)

	publisher := mqttbus.NewPublisher(client, topics.PH)
	consumer := mqttbus.NewMultiConsumer(client, topics.ActuatorList(), nil)
	generator := sensorSimulator.NewDataGenerator(*seed)

	sim := sensorSimulator.NewSensorSimulator(consumer, publisher, generator, id, topics)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Printf("sim: shutting down...")
		cancel()
	}()

	log.Printf("sim: sensor %s publishing every %s", id, *interval)
	sim.Start(ctx, *interval)
}
