package entities

// ActuatorKind identifies one controllable device in the enclosure.
type ActuatorKind string

const (
	ActuatorPHPump       ActuatorKind = "ph_pump"
	ActuatorNutrientPump ActuatorKind = "nutrient_pump"
	ActuatorMainPump     ActuatorKind = "main_pump"
	ActuatorLights       ActuatorKind = "lights"
	ActuatorFans         ActuatorKind = "fans"
)

// Actuators lists every actuator in a stable order.
var Actuators = []ActuatorKind{
	ActuatorPHPump, ActuatorNutrientPump, ActuatorMainPump, ActuatorLights, ActuatorFans,
}

// Pulsed reports whether the actuator runs as discrete timed pulses rather
// than holding a steady level. A repeated pulse command is a new action, so it
// is never suppressed as redundant.
func (a ActuatorKind) Pulsed() bool {
	switch a {
	case ActuatorPHPump, ActuatorNutrientPump, ActuatorMainPump:
		return true
	}
	return false
}

// Directive is the requested actuator level.
type Directive string

const (
	DirectiveOn  Directive = "ON"
	DirectiveOff Directive = "OFF"

	// DirectiveUnknown is the tracker state before the first dispatch.
	DirectiveUnknown Directive = ""
)
