package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/growlab/pfal-controller/internal/model"
	"github.com/growlab/pfal-controller/internal/observability"
	"github.com/growlab/pfal-controller/pkg/mqttbus"
)

// CommandSink receives reconciled commands from the evaluation path.
type CommandSink interface {
	Enqueue(cmd model.ProposedCommand)
}

// Dispatcher hands commands to the broker without blocking evaluation: a
// buffered queue decouples the two, a single worker preserves order, and the
// breaker fails fast while the broker keeps erroring. Delivery failures are
// logged and counted; nothing is rolled back.
type Dispatcher struct {
	pub     mqttbus.IPublisher
	topics  map[model.ActuatorKind]string
	cb      *gobreaker.CircuitBreaker
	queue   chan model.ProposedCommand
	metrics *observability.Metrics
}

func NewDispatcher(pub mqttbus.IPublisher, topics map[model.ActuatorKind]string, m *observability.Metrics) (*Dispatcher, error) {
	if pub == nil {
		return nil, errors.New("publisher is nil")
	}
	if len(topics) == 0 {
		return nil, errors.New("no actuator topics configured")
	}
	return &Dispatcher{
		pub:     pub,
		topics:  topics,
		cb:      mkBreaker("actuator-publish", 5, 30*time.Second, 60*time.Second, m),
		queue:   make(chan model.ProposedCommand, 64),
		metrics: m,
	}, nil
}

func mkBreaker(name string, fails uint32, open, interval time.Duration, m *observability.Metrics) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: interval,
		Timeout:  open,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= fails
		},
		OnStateChange: func(n string, from, to gobreaker.State) {
			log.Printf("dispatch: breaker %s: %s -> %s", n, from, to)
			m.SetBreakerState(n, float64(to))
		},
	})
}

// Enqueue queues a command for delivery and never blocks; when the queue is
// full the command is dropped and counted as a dispatch error.
func (d *Dispatcher) Enqueue(cmd model.ProposedCommand) {
	select {
	case d.queue <- cmd:
	default:
		d.metrics.DispatchError()
		log.Printf("dispatch: queue full, dropping %s %s", cmd.Actuator, cmd.Directive)
	}
}

// Start drains the queue until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-d.queue:
			if err := d.deliver(cmd); err != nil {
				d.metrics.DispatchError()
				log.Printf("dispatch: %s %s failed: %v", cmd.Actuator, cmd.Directive, err)
			}
		}
	}
}

func (d *Dispatcher) deliver(cmd model.ProposedCommand) error {
	topic, ok := d.topics[cmd.Actuator]
	if !ok {
		return fmt.Errorf("no topic configured for actuator %q", cmd.Actuator)
	}

	payload, err := json.Marshal(model.ActuatorCommand{
		Command:    string(cmd.Directive),
		DurationMs: cmd.DurationMs,
	})
	if err != nil {
		return err
	}

	if _, err := d.cb.Execute(func() (interface{}, error) {
		return nil, d.pub.PublishToQos(topic, 1, false, string(payload))
	}); err != nil {
		return err
	}

	d.metrics.CommandPublished(string(cmd.Actuator), string(cmd.Directive))
	log.Printf("dispatch: %s -> %s (%s)", cmd.Actuator, cmd.Directive, cmd.Reason)
	return nil
}
