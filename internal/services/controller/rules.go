package controller

import (
	"fmt"

	"github.com/growlab/pfal-controller/internal/model"
)

// Fixed hysteresis bands around the fan thresholds. A rule that just crossed
// back under its maximum must not flap the fans at every reading.
const (
	tempHysteresis     = 2.0
	humidityHysteresis = 5.0
)

// Alert is an observability-only signal from a rule: logged and counted,
// never dispatched to an actuator.
type Alert struct {
	Kind   string
	Reason string
}

// evaluatePH proposes a pH-up pulse when the reading is under the target
// band. A reading above the band has no automated correction; it surfaces as
// an Alert instead.
func evaluatePH(p model.CropProfile, s *ReadingStore) (*model.ProposedCommand, *Alert) {
	r, ok := s.Get(model.VariablePH)
	if !ok {
		return nil, nil
	}
	lo := p.PHTarget - p.PHTolerance
	hi := p.PHTarget + p.PHTolerance

	if r.Value < lo {
		return &model.ProposedCommand{
			Actuator:   model.ActuatorPHPump,
			Directive:  model.DirectiveOn,
			DurationMs: msPtr(p.PHPumpDurationMs),
			Reason:     fmt.Sprintf("pH %.2f below target range", r.Value),
		}, nil
	}
	if r.Value > hi {
		return nil, &Alert{
			Kind:   "ph_high",
			Reason: fmt.Sprintf("pH %.2f above target range (%.2f)", r.Value, hi),
		}
	}
	return nil, nil
}

// evaluateEC proposes a nutrient pulse when the solution is too dilute.
// There is no automated EC-lowering action, so readings above target propose
// nothing.
func evaluateEC(p model.CropProfile, s *ReadingStore) *model.ProposedCommand {
	r, ok := s.Get(model.VariableEC)
	if !ok {
		return nil
	}
	lo := p.ECTarget - p.ECTolerance

	if r.Value < lo {
		return &model.ProposedCommand{
			Actuator:   model.ActuatorNutrientPump,
			Directive:  model.DirectiveOn,
			DurationMs: msPtr(p.NutrientPumpDurationMs),
			Reason:     fmt.Sprintf("EC %.2f below target range", r.Value),
		}
	}
	return nil
}

// evaluateTemperature asks for fans above TempMax and releases them once the
// reading is under the hysteresis band, but only if humidity does not still
// need them. Inside the band, or while humidity is high, it stays silent and
// leaves the fans to the humidity rule.
func evaluateTemperature(p model.CropProfile, s *ReadingStore) *model.ProposedCommand {
	r, ok := s.Get(model.VariableTemperature)
	if !ok {
		return nil
	}

	if r.Value > p.TempMax {
		return &model.ProposedCommand{
			Actuator:  model.ActuatorFans,
			Directive: model.DirectiveOn,
			Reason:    fmt.Sprintf("Temperature %.2f°C above maximum", r.Value),
		}
	}

	if r.Value <= p.TempMax-tempHysteresis {
		if h, ok := s.Get(model.VariableHumidity); ok && h.Value >= p.HumidityMax {
			return nil
		}
		return &model.ProposedCommand{
			Actuator:  model.ActuatorFans,
			Directive: model.DirectiveOff,
			Reason:    fmt.Sprintf("Temperature %.2f°C in normal range", r.Value),
		}
	}
	return nil
}

// evaluateHumidity mirrors the temperature rule with its own band, deferring
// to temperature before releasing the fans.
func evaluateHumidity(p model.CropProfile, s *ReadingStore) *model.ProposedCommand {
	r, ok := s.Get(model.VariableHumidity)
	if !ok {
		return nil
	}

	if r.Value > p.HumidityMax {
		return &model.ProposedCommand{
			Actuator:  model.ActuatorFans,
			Directive: model.DirectiveOn,
			Reason:    fmt.Sprintf("Humidity %.1f%% above maximum", r.Value),
		}
	}

	if r.Value < p.HumidityMax-humidityHysteresis {
		if t, ok := s.Get(model.VariableTemperature); ok && t.Value > p.TempMax {
			return nil
		}
		return &model.ProposedCommand{
			Actuator:  model.ActuatorFans,
			Directive: model.DirectiveOff,
			Reason:    fmt.Sprintf("Humidity %.1f%% in normal range", r.Value),
		}
	}
	return nil
}

// evaluateLighting is a pure function of the wall-clock hour: inside the
// schedule lights are ON, outside OFF. It always proposes. Schedules that
// wrap past midnight are not supported by this comparison.
func evaluateLighting(p model.CropProfile, hour int) *model.ProposedCommand {
	if p.LightsOnHour <= hour && hour < p.LightsOffHour {
		return &model.ProposedCommand{
			Actuator:  model.ActuatorLights,
			Directive: model.DirectiveOn,
			Reason:    fmt.Sprintf("Within lighting schedule (%d:00-%d:00)", p.LightsOnHour, p.LightsOffHour),
		}
	}
	return &model.ProposedCommand{
		Actuator:  model.ActuatorLights,
		Directive: model.DirectiveOff,
		Reason:    "Outside lighting schedule",
	}
}

func msPtr(ms int) *uint32 {
	v := uint32(ms)
	return &v
}
