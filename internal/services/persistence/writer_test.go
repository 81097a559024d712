package persistence

import (
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/growlab/pfal-controller/internal/model"
)

type fakePointWriter struct {
	mu      sync.Mutex
	points  []*write.Point
	errs    chan error
	flushes int
}

func newFakePointWriter() *fakePointWriter {
	return &fakePointWriter{errs: make(chan error, 4)}
}

func (f *fakePointWriter) WritePoint(p *write.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, p)
}

func (f *fakePointWriter) Errors() <-chan error { return f.errs }

func (f *fakePointWriter) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
}

func (f *fakePointWriter) written() []*write.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*write.Point, len(f.points))
	copy(out, f.points)
	return out
}

func tagValue(t *testing.T, p *write.Point, key string) string {
	t.Helper()
	for _, tag := range p.TagList() {
		if tag.Key == key {
			return tag.Value
		}
	}
	t.Fatalf("point %q has no tag %q", p.Name(), key)
	return ""
}

func fieldValue(t *testing.T, p *write.Point, key string) interface{} {
	t.Helper()
	for _, f := range p.FieldList() {
		if f.Key == key {
			return f.Value
		}
	}
	t.Fatalf("point %q has no field %q", p.Name(), key)
	return nil
}

func TestWriteReadingBuildsTaggedPoint(t *testing.T) {
	fake := newFakePointWriter()
	w := NewWriter(fake, nil)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w.WriteReading(model.VariablePH, 5.82, "esp32_1", ts)

	pts := fake.written()
	if len(pts) != 1 {
		t.Fatalf("points written = %d, want 1", len(pts))
	}
	p := pts[0]
	if p.Name() != "ph" {
		t.Errorf("measurement = %q, want %q", p.Name(), "ph")
	}
	if got := tagValue(t, p, "sensor_id"); got != "esp32_1" {
		t.Errorf("sensor_id tag = %q, want %q", got, "esp32_1")
	}
	if got := fieldValue(t, p, "value"); got != 5.82 {
		t.Errorf("value field = %v, want 5.82", got)
	}
	if !p.Time().Equal(ts) {
		t.Errorf("point time = %v, want %v", p.Time(), ts)
	}
	if w.Count("ph") != 1 {
		t.Errorf("Count(ph) = %d, want 1", w.Count("ph"))
	}
}

func TestWriteClimateBuildsThreeFieldPoint(t *testing.T) {
	fake := newFakePointWriter()
	w := NewWriter(fake, nil)

	ts := time.Now().UTC()
	w.WriteClimate(24.5, 61.2, 1013.4, "esp32_2", ts)

	pts := fake.written()
	if len(pts) != 1 {
		t.Fatalf("points written = %d, want 1", len(pts))
	}
	p := pts[0]
	if p.Name() != "bme280" {
		t.Errorf("measurement = %q, want %q", p.Name(), "bme280")
	}
	if got := fieldValue(t, p, "temperature"); got != 24.5 {
		t.Errorf("temperature field = %v, want 24.5", got)
	}
	if got := fieldValue(t, p, "humidity"); got != 61.2 {
		t.Errorf("humidity field = %v, want 61.2", got)
	}
	if got := fieldValue(t, p, "pressure"); got != 1013.4 {
		t.Errorf("pressure field = %v, want 1013.4", got)
	}
}

func TestWriteErrorShrinksLastErrorAge(t *testing.T) {
	fake := newFakePointWriter()
	w := NewWriter(fake, nil)

	if w.LastErrorAge() < time.Hour {
		t.Fatalf("fresh writer should report an old last error, got %v", w.LastErrorAge())
	}

	fake.errs <- errTest{}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if w.LastErrorAge() < time.Hour {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("LastErrorAge never dropped after a write error, got %v", w.LastErrorAge())
}

type errTest struct{}

func (errTest) Error() string { return "influx is down" }

func TestFlushForwards(t *testing.T) {
	fake := newFakePointWriter()
	w := NewWriter(fake, nil)
	w.Flush()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", fake.flushes)
	}
}
