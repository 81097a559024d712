package messages

// ActuatorCommand is the payload published on an actuator topic. DurationMs
// is omitted from the JSON entirely when the command has no duration, so
// firmware can treat its presence as "timed pulse".
type ActuatorCommand struct {
	Command    string  `json:"command"`
	DurationMs *uint32 `json:"duration_ms,omitempty"`
}
