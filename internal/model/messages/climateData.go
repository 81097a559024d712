package messages

// ClimateData is the combined BME280 payload: one message carrying
// temperature, humidity and pressure. All three must be present for the
// message to be accepted.
type ClimateData struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
	SensorID    string   `json:"sensor_id,omitempty"`
}
