package mqttbus

import "testing"

func TestQosFor(t *testing.T) {
	tests := []struct {
		topic string
		want  byte
	}{
		{"pfal/actuators/ph_pump", 1},
		{"pfal/actuators/lights", 1},
		{"pfal/sensors/bme280", 1},
		{"pfal/sensors/ph", 0},
		{"pfal/sensors/ec", 0},
		{"pfal/sensors/temperature", 0},
		{"  pfal/sensors/bme280  ", 1}, // whitespace tolerated
		{"something/else", 0},
	}

	for _, tc := range tests {
		if got := qosFor(tc.topic); got != tc.want {
			t.Errorf("qosFor(%q) = %d, want %d", tc.topic, got, tc.want)
		}
	}
}
