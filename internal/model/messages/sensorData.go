package messages

// SensorData is the JSON payload a single-value probe publishes on its
// sensor topic. Value is a pointer so a payload that omits it can be told
// apart from a real 0 and rejected at ingestion.
type SensorData struct {
	Value    *float64 `json:"value"`
	SensorID string   `json:"sensor_id,omitempty"`
}
