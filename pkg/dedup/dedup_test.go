package dedup

import (
	"fmt"
	"testing"
	"time"
)

func TestShouldProcessFirstAndRepeat(t *testing.T) {
	d := New(time.Minute, 100)
	payload := []byte(`{"value":6.1,"sensor_id":"esp32_1"}`)

	if !d.ShouldProcess(payload) {
		t.Fatalf("first occurrence should be processed")
	}
	if d.ShouldProcess(payload) {
		t.Fatalf("identical payload inside TTL should be dropped")
	}
	if !d.ShouldProcess([]byte(`{"value":6.2,"sensor_id":"esp32_1"}`)) {
		t.Fatalf("different payload should be processed")
	}
}

func TestShouldProcessAfterExpiry(t *testing.T) {
	d := New(20*time.Millisecond, 100)
	payload := []byte("repeat-me")

	if !d.ShouldProcess(payload) {
		t.Fatalf("first occurrence should be processed")
	}
	time.Sleep(30 * time.Millisecond)
	if !d.ShouldProcess(payload) {
		t.Fatalf("payload past the TTL should be processed again")
	}
}

func TestEmptyInputsAlwaysProcess(t *testing.T) {
	d := New(time.Minute, 100)
	if !d.ShouldProcess(nil) {
		t.Fatalf("nil payload should pass through")
	}
	if !d.ShouldProcessKey("") {
		t.Fatalf("empty key should pass through")
	}
}

func TestCapEviction(t *testing.T) {
	d := New(time.Minute, 10)
	for i := 0; i < 50; i++ {
		d.ShouldProcessKey(fmt.Sprintf("key-%d", i))
	}
	if got := d.Len(); got > 10 {
		t.Fatalf("tracked identities = %d, want <= cap", got)
	}
}
