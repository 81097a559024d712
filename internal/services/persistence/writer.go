package persistence

import (
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/internal/observability"
)

// PointWriter is the slice of the Influx write API the service uses. The
// async api.WriteAPI satisfies it.
type PointWriter interface {
	WritePoint(point *write.Point)
	Errors() <-chan error
	Flush()
}

// Writer persists sensor readings and tracks the last asynchronous write
// error for /healthz and /readyz.
type Writer struct {
	api     PointWriter
	metrics *observability.Metrics
	mu      sync.RWMutex
	lastErr time.Time
	counts  map[string]int64
}

// NewWriter initializes the writer and starts the listener for Influx's
// asynchronous write errors.
func NewWriter(w PointWriter, m *observability.Metrics) *Writer {
	ww := &Writer{
		api:     w,
		metrics: m,
		lastErr: time.Now().Add(-24 * time.Hour), // "long ago" by default
		counts:  make(map[string]int64),
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				ww.mu.Lock()
				ww.lastErr = time.Now()
				ww.mu.Unlock()
				ww.metrics.PersistError()
				log.Printf("persist: influx write error: %v", err)
			}
		}
	}()
	return ww
}

// WriteReading queues one single-value reading; the measurement is the
// variable name, tagged with the probe that produced it.
func (w *Writer) WriteReading(variable model.VariableKind, value float64, sensorID string, ts time.Time) {
	p := influxdb2.NewPoint(
		string(variable),
		map[string]string{"sensor_id": sensorID},
		map[string]interface{}{"value": value},
		ts,
	)
	w.api.WritePoint(p)
	w.markIngest(string(variable))
}

// WriteClimate queues the combined BME280 reading as one three-field point.
func (w *Writer) WriteClimate(temperature, humidity, pressure float64, sensorID string, ts time.Time) {
	p := influxdb2.NewPoint(
		"bme280",
		map[string]string{"sensor_id": sensorID},
		map[string]interface{}{
			"temperature": temperature,
			"humidity":    humidity,
			"pressure":    pressure,
		},
		ts,
	)
	w.api.WritePoint(p)
	w.markIngest("bme280")
}

// Flush forces the buffered points out, used on shutdown.
func (w *Writer) Flush() {
	if w == nil {
		return
	}
	w.api.Flush()
}

// LastErrorAge returns how long the writer has gone without a write error.
func (w *Writer) LastErrorAge() time.Duration {
	if w == nil {
		// not initialized, report a large age
		return 99999 * time.Hour
	}
	w.mu.RLock()
	t := w.lastErr
	w.mu.RUnlock()
	return time.Since(t)
}

func (w *Writer) markIngest(measurement string) {
	w.mu.Lock()
	w.counts[measurement]++
	w.mu.Unlock()
}

// Count reads the per-measurement ingest counter. Debug aid, not essential.
func (w *Writer) Count(measurement string) int64 {
	if w == nil {
		return 0
	}
	w.mu.RLock()
	c := w.counts[measurement]
	w.mu.RUnlock()
	return c
}
