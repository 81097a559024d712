package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/internal/services/controller"
	"github.com/growlab/pfal-controller/pkg/mqttbus"
)

type Config struct {
	Mqtt mqttbus.MQTTConfig

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	SensorTopics   controller.SensorTopics
	ActuatorTopics map[model.ActuatorKind]string

	BatchSize     int
	FlushInterval time.Duration

	HTTPPort      int
	ScheduleEvery time.Duration
	ProfilePath   string
	ShutdownGrace time.Duration
}

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

func loadConfig() Config {
	return Config{
		Mqtt: mqttbus.MQTTConfig{
			Host:     envStr("MQTT_HOST", "localhost"),
			Port:     envInt("MQTT_PORT", 1883),
			User:     envStr("MQTT_USER", ""),
			Password: envStr("MQTT_PASSWORD", ""),
			ClientID: envStr("HOSTNAME", "pfal-controller"),
		},

		InfluxURL:    envStr("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    envStr("INFLUX_ORG", "pfal"),
		InfluxBucket: envStr("INFLUX_BUCKET", "pfal_sensors"),

		SensorTopics: controller.SensorTopics{
			PH:          envStr("TOPIC_PH", "pfal/sensors/ph"),
			EC:          envStr("TOPIC_EC", "pfal/sensors/ec"),
			Temperature: envStr("TOPIC_TEMPERATURE", "pfal/sensors/temperature"),
			Climate:     envStr("TOPIC_CLIMATE", "pfal/sensors/bme280"),
		},
		ActuatorTopics: map[model.ActuatorKind]string{
			model.ActuatorPHPump:       envStr("TOPIC_PH_PUMP", "pfal/actuators/ph_pump"),
			model.ActuatorNutrientPump: envStr("TOPIC_NUTRIENT_PUMP", "pfal/actuators/nutrient_pump"),
			model.ActuatorMainPump:     envStr("TOPIC_MAIN_PUMP", "pfal/actuators/main_pump"),
			model.ActuatorLights:       envStr("TOPIC_LIGHTS", "pfal/actuators/lights"),
			model.ActuatorFans:         envStr("TOPIC_FANS", "pfal/actuators/fans"),
		},

		BatchSize:     envInt("WRITE_BATCH_SIZE", 10),
		FlushInterval: time.Duration(envInt("WRITE_FLUSH_INTERVAL_MS", 200)) * time.Millisecond,

		HTTPPort:      envInt("HTTP_PORT", 8080),
		ScheduleEvery: time.Duration(envInt("SCHEDULE_INTERVAL_SEC", 60)) * time.Second,
		ProfilePath:   envStr("PROFILE_PATH", ""),
		ShutdownGrace: 5 * time.Second,
	}
}
