package runner

import (
	"context"
	"errors"
	"time"

	"github.com/dinaMadelen/elevatorsim/internal/elevator"
	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/queue"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
	"github.com/dinaMadelen/elevatorsim/internal/simevent"
)

var Log = logger.GetLogger()

// Runner drives one elevator: it takes requests from the elevator's queue in
// assignment order and travels to each calling floor one hop at a time.
type Runner struct {
	elevator    *elevator.Elevator
	motor       *elevator.Motor
	floorTravel time.Duration
	events      chan<- simevent.Event
}

// NewRunner claims the elevator's motor, so each elevator has at most one
// runner.
func NewRunner(e *elevator.Elevator, floorTravel time.Duration, events chan<- simevent.Event) (*Runner, error) {
	motor, err := e.Motor()
	if err != nil {
		return nil, err
	}
	return &Runner{
		elevator:    e,
		motor:       motor,
		floorTravel: floorTravel,
		events:      events,
	}, nil
}

func (r *Runner) Elevator() *elevator.Elevator {
	return r.elevator
}

// Run serves requests until ctx is cancelled or the elevator is closed.
func (r *Runner) Run(ctx context.Context) error {
	e := r.elevator
	Log.Info().Msgf("Elevator %d runner started at floor %d", e.ID, e.CurrentFloor())

	for {
		r.motor.SetState(simconsts.Idle)
		req, err := e.NextRequest(ctx)
		if err != nil {
			if isShutdown(err) {
				Log.Warn().Msgf("Elevator %d runner has been signaled to stop: %v", e.ID, err)
				return nil
			}
			return err
		}

		if err := r.Serve(ctx, req); err != nil {
			if isShutdown(err) {
				Log.Warn().Msgf("Elevator %d stopped at floor %d while serving %s", e.ID, e.CurrentFloor(), req)
				return nil
			}
			return err
		}
	}
}

// Serve moves the elevator to the calling floor of req and retires it. On
// cancellation the floor stays at the last completed hop and req is left in
// service.
func (r *Runner) Serve(ctx context.Context, req request.Request) error {
	e := r.elevator
	current := e.CurrentFloor()
	target := req.CallingFloor

	if dirn, ok := simconsts.DirnTowards(current, target); ok {
		r.motor.SetState(simconsts.MovingState(dirn))
		for floor := current + dirn.Step(); ; floor += dirn.Step() {
			if err := r.travelOneFloor(ctx); err != nil {
				return err
			}
			r.motor.SetFloor(floor)
			Log.Info().Msgf("Elevator %d moving %s to floor %d", e.ID, dirn, floor)
			simevent.Emit(ctx, r.events, simevent.MovingEvent{ElevatorID: e.ID, Dirn: dirn, Floor: floor})

			if floor == target {
				break
			}
		}
	}

	r.motor.SetState(simconsts.Arrived)
	Log.Info().Msgf("Elevator %d arrived at floor %d", e.ID, target)
	simevent.Emit(ctx, r.events, simevent.ArrivedEvent{ElevatorID: e.ID, Floor: target, Request: req})

	if !e.RemoveRequest(req) {
		Log.Debug().Msgf("Elevator %d had no queued entry for %s", e.ID, req)
	}
	r.motor.SetState(simconsts.Idle)
	return nil
}

func (r *Runner) travelOneFloor(ctx context.Context) error {
	if r.floorTravel <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(r.floorTravel)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, queue.ErrClosed)
}
