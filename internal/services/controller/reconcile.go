package controller

import (
	"sync"

	"github.com/growlab/pfal-controller/internal/model"
)

// ActuatorState tracks the last directive handed to dispatch per actuator.
// It is updated at resolution time, before the publish happens, so a failed
// publish leaves it ahead of the physical device until the next transition.
type ActuatorState struct {
	mu   sync.Mutex
	last map[model.ActuatorKind]model.Directive
}

func NewActuatorState() *ActuatorState {
	return &ActuatorState{last: make(map[model.ActuatorKind]model.Directive, len(model.Actuators))}
}

// Last returns the last dispatched directive, DirectiveUnknown before the
// first dispatch.
func (a *ActuatorState) Last(k model.ActuatorKind) model.Directive {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last[k]
}

// Snapshot copies the tracked directives, for the state endpoint.
func (a *ActuatorState) Snapshot() map[model.ActuatorKind]model.Directive {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[model.ActuatorKind]model.Directive, len(a.last))
	for k, v := range a.last {
		out[k] = v
	}
	return out
}

// Reconcile collapses one pass's proposals into at most one command per
// actuator and splits the result into commands to dispatch and commands
// suppressed as redundant. Fans may carry proposals from both the
// temperature and humidity rules and resolve OR-on-ON; every other actuator
// has at most one proposal per pass by construction. A directive equal to
// the last dispatched one is suppressed unless the actuator is pulsed: each
// pump pulse is a discrete action and always goes out. Survivors are
// recorded as the new last state before they are returned.
func (a *ActuatorState) Reconcile(proposals []model.ProposedCommand) (dispatch, suppressed []model.ProposedCommand) {
	if len(proposals) == 0 {
		return nil, nil
	}

	order := make([]model.ActuatorKind, 0, len(proposals))
	grouped := make(map[model.ActuatorKind][]model.ProposedCommand, len(proposals))
	for _, p := range proposals {
		if _, seen := grouped[p.Actuator]; !seen {
			order = append(order, p.Actuator)
		}
		grouped[p.Actuator] = append(grouped[p.Actuator], p)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, k := range order {
		cmd := resolve(k, grouped[k])
		if !k.Pulsed() && a.last[k] == cmd.Directive {
			suppressed = append(suppressed, cmd)
			continue
		}
		a.last[k] = cmd.Directive
		dispatch = append(dispatch, cmd)
	}
	return dispatch, suppressed
}

// resolve collapses same-actuator proposals into one command.
func resolve(k model.ActuatorKind, group []model.ProposedCommand) model.ProposedCommand {
	if len(group) == 1 {
		return group[0]
	}
	switch k {
	case model.ActuatorFans:
		// OR-on-ON: any rule asking for airflow wins over any asking to stop.
		for _, p := range group {
			if p.Directive == model.DirectiveOn {
				return p
			}
		}
		return group[0]
	default:
		// Single proposal per pass by construction; if that ever breaks,
		// evaluator order decides.
		return group[0]
	}
}
