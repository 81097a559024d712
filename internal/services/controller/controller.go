package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/internal/observability"
)

// Controller owns the reading store, the rule set and the actuator tracker.
// Every evaluation+reconciliation pass runs under one mutex so the sensor
// callback path and the schedule ticker can never interleave and race a
// suppression decision. Nothing here blocks on I/O: survivors go to the sink
// and are forgotten.
type Controller struct {
	profile model.CropProfile
	store   *ReadingStore
	state   *ActuatorState
	sink    CommandSink
	metrics *observability.Metrics

	scheduleEvery time.Duration
	now           func() time.Time

	mu sync.Mutex
}

func NewController(profile model.CropProfile, sink CommandSink, m *observability.Metrics, scheduleEvery time.Duration) (*Controller, error) {
	if sink == nil {
		return nil, errors.New("command sink is nil")
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile.ProfileName, err)
	}
	if profile.LightsOnHour > profile.LightsOffHour {
		log.Printf("WARN: lights_on_hour %d > lights_off_hour %d: overnight schedules are not supported, lights will stay OFF",
			profile.LightsOnHour, profile.LightsOffHour)
	}
	if scheduleEvery <= 0 {
		scheduleEvery = 60 * time.Second
	}
	return &Controller{
		profile:       profile,
		store:         NewReadingStore(),
		state:         NewActuatorState(),
		sink:          sink,
		metrics:       m,
		scheduleEvery: scheduleEvery,
		now:           time.Now,
	}, nil
}

// Store exposes the reading store for the ingestion path and the state
// endpoint.
func (c *Controller) Store() *ReadingStore { return c.store }

// State exposes the actuator tracker for the state endpoint.
func (c *Controller) State() *ActuatorState { return c.state }

// Profile returns the loaded crop profile.
func (c *Controller) Profile() model.CropProfile { return c.profile }

// OnReading stores one decoded reading and runs a full evaluation pass.
func (c *Controller) OnReading(variable model.VariableKind, value float64, sensorID string, observedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Update(variable, value, sensorID, observedAt)
	c.runPass()
}

// OnClimate stores the two control-relevant values of a combined climate
// reading (pressure is persisted only) and runs a single evaluation pass.
func (c *Controller) OnClimate(temperature, humidity float64, sensorID string, observedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Update(model.VariableTemperature, temperature, sensorID, observedAt)
	c.store.Update(model.VariableHumidity, humidity, sensorID, observedAt)
	c.runPass()
}

// runPass evaluates every rule in fixed order, reconciles and hands the
// survivors to the sink. Caller holds c.mu.
func (c *Controller) runPass() {
	start := c.now()

	proposals := make([]model.ProposedCommand, 0, 5)
	if cmd, alert := evaluatePH(c.profile, c.store); cmd != nil {
		proposals = append(proposals, *cmd)
	} else if alert != nil {
		log.Printf("controller: WARN %s", alert.Reason)
		c.metrics.Alert(alert.Kind)
	}
	if cmd := evaluateEC(c.profile, c.store); cmd != nil {
		proposals = append(proposals, *cmd)
	}
	if cmd := evaluateTemperature(c.profile, c.store); cmd != nil {
		proposals = append(proposals, *cmd)
	}
	if cmd := evaluateHumidity(c.profile, c.store); cmd != nil {
		proposals = append(proposals, *cmd)
	}
	proposals = append(proposals, *evaluateLighting(c.profile, start.Hour()))

	c.finish(proposals)
	c.metrics.ObserveEvaluation(time.Since(start))
}

func (c *Controller) finish(proposals []model.ProposedCommand) {
	dispatch, suppressed := c.state.Reconcile(proposals)
	for _, cmd := range suppressed {
		c.metrics.CommandSuppressed(string(cmd.Actuator))
	}
	for _, cmd := range dispatch {
		log.Printf("controller: %s -> %s (%s)", cmd.Actuator, cmd.Directive, cmd.Reason)
		c.sink.Enqueue(cmd)
	}
}

// RunSchedule re-evaluates only the lighting rule on a fixed cadence so the
// schedule is honored through long gaps with no sensor traffic. It blocks
// until the context is cancelled.
func (c *Controller) RunSchedule(ctx context.Context) {
	t := time.NewTicker(c.scheduleEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.mu.Lock()
			cmd := evaluateLighting(c.profile, c.now().Hour())
			c.finish([]model.ProposedCommand{*cmd})
			c.mu.Unlock()
		}
	}
}
