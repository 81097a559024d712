package entities

// ProposedCommand is one rule's request for an actuator, before
// reconciliation. DurationMs is set only for pulsed actuators; lights and
// fans never carry one.
type ProposedCommand struct {
	Actuator   ActuatorKind
	Directive  Directive
	DurationMs *uint32
	Reason     string
}
