package dispatch

import (
	"context"
	"errors"

	"github.com/dinaMadelen/elevatorsim/internal/elevator"
	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/queue"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simevent"
)

var Log = logger.GetLogger()

type Dispatcher struct {
	policy    Policy
	elevators []*elevator.Elevator
	incoming  *queue.Queue[request.Request]
	events    chan<- simevent.Event
}

// NewDispatcher binds a policy to a bank. events may be nil.
func NewDispatcher(policy Policy, elevators []*elevator.Elevator, incoming *queue.Queue[request.Request], events chan<- simevent.Event) (*Dispatcher, error) {
	if policy == nil {
		return nil, errors.New("dispatch policy is nil")
	}
	if len(elevators) == 0 {
		return nil, errors.New("dispatcher needs at least one elevator")
	}
	return &Dispatcher{
		policy:    policy,
		elevators: elevators,
		incoming:  incoming,
		events:    events,
	}, nil
}

func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Dispatch assigns r to one elevator and enqueues it there without waiting on
// elevator state. It reports false when the chosen elevator has been closed,
// in which case r is dropped and no assignment is announced.
func (d *Dispatcher) Dispatch(ctx context.Context, r request.Request) (*elevator.Elevator, bool) {
	chosen := d.elevators[d.policy.Select(r, d.elevators)]
	if !chosen.AddRequest(r) {
		return chosen, false
	}

	Log.Debug().Msgf("Request %s assigned to elevator %d (%s)", r, chosen.ID, d.policy.Name())
	simevent.Emit(ctx, d.events, simevent.RequestAssignedEvent{Request: r, ElevatorID: chosen.ID})

	return chosen, true
}

// Run pulls requests from the incoming queue one at a time until ctx is
// cancelled or the queue is closed.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.incoming == nil {
		return errors.New("dispatcher has no incoming queue")
	}

	Log.Info().Msgf("Dispatcher started with %d elevators, policy %s", len(d.elevators), d.policy.Name())
	for {
		r, err := d.incoming.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, queue.ErrClosed) {
				Log.Warn().Msgf("Dispatcher has been signaled to stop: %v", err)
				return nil
			}
			return err
		}
		if _, ok := d.Dispatch(ctx, r); !ok {
			Log.Warn().Msgf("Dispatcher stopping, request %s was not assigned", r)
			return nil
		}
	}
}
