package entities

import "time"

// VariableKind identifies one monitored environmental variable.
type VariableKind string

const (
	VariablePH          VariableKind = "ph"
	VariableEC          VariableKind = "ec"
	VariableTemperature VariableKind = "temperature"
	VariableHumidity    VariableKind = "humidity"
)

// Variables lists every monitored kind in a stable order.
var Variables = []VariableKind{VariablePH, VariableEC, VariableTemperature, VariableHumidity}

// SensorReading is the most recent observed value for one variable. The store
// keeps exactly one per VariableKind; newer arrivals overwrite it.
type SensorReading struct {
	Variable   VariableKind `json:"variable"`
	Value      float64      `json:"value"`
	SensorID   string       `json:"sensor_id"`
	ObservedAt time.Time    `json:"observed_at"`
}
