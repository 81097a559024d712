package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/growlab/pfal-controller/internal/observability"
	"github.com/growlab/pfal-controller/internal/services/controller"
	"github.com/growlab/pfal-controller/internal/services/persistence"
	"github.com/growlab/pfal-controller/pkg/mqttbus"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Metrics ===
	metrics := observability.NewMetrics()

	// === Crop profile ===
	profile, err := controller.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Fatalf("profile error: %v", err)
	}
	metrics.SetProfile(profile.ProfileName)
	log.Printf("controller: profile %q (pH %.2f±%.2f, EC %.2f±%.2f, temp<=%.1f, rh<=%.1f, lights %d-%d)",
		profile.ProfileName, profile.PHTarget, profile.PHTolerance, profile.ECTarget, profile.ECTolerance,
		profile.TempMax, profile.HumidityMax, profile.LightsOnHour, profile.LightsOffHour)

	// === InfluxDB ===
	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	influx := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken, opts)
	defer influx.Close()
	writeAPI := influx.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket)
	writer := persistence.NewWriter(writeAPI, metrics)

	// === MQTT ===
	mqttClient, err := mqttbus.NewMQTTConn(&cfg.Mqtt, ctx)
	if err != nil {
		log.Fatalf("mqtt connection error: %v", err)
	}
	defer mqttbus.CloseMQTTConn(mqttClient)

	// === Dispatcher ===
	pub := mqttbus.NewPublisher(mqttClient, "")
	dispatcher, err := controller.NewDispatcher(pub, cfg.ActuatorTopics, metrics)
	if err != nil {
		log.Fatalf("dispatcher error: %v", err)
	}
	go dispatcher.Start(ctx)

	// === Rule engine ===
	ctrl, err := controller.NewController(profile, dispatcher, metrics, cfg.ScheduleEvery)
	if err != nil {
		log.Fatalf("controller error: %v", err)
	}
	go ctrl.RunSchedule(ctx)

	// === Ingestion ===
	ing, err := controller.NewIngestor(ctrl, writer, cfg.SensorTopics, metrics)
	if err != nil {
		log.Fatalf("ingestor error: %v", err)
	}
	consumer := mqttbus.NewMultiConsumer(mqttClient, cfg.SensorTopics.List(), ing.Handle)
	go consumer.ConsumeMessage(ctx)

	// === HTTP ===
	mux := http.NewServeMux()
	mux.Handle("/healthz", controller.NewHealthHandler(mqttClient, influx, writer))
	mux.Handle("/readyz", controller.NewReadyHandler(mqttClient, influx, writer, 2*time.Second))
	mux.Handle("/state", controller.NewStateHandler(ctrl))
	mux.Handle("/metrics", metrics.Handler())

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("controller: HTTP listening on :%d", cfg.HTTPPort)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// === Wait for signal ===
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Printf("controller: shutting down...")

	// graceful http
	shCtx, shCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shCancel()
	_ = hs.Shutdown(shCtx)

	// consenti flush
	writer.Flush()
	time.Sleep(cfg.FlushInterval + 100*time.Millisecond)
}
