package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dinaMadelen/elevatorsim/internal/dispatch"
	"github.com/dinaMadelen/elevatorsim/internal/elevator"
	"github.com/dinaMadelen/elevatorsim/internal/generator"
	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/queue"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/runner"
	"github.com/dinaMadelen/elevatorsim/internal/simconfig"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
	"github.com/dinaMadelen/elevatorsim/internal/simevent"
	"github.com/dinaMadelen/elevatorsim/internal/simmetadata"
	"golang.org/x/sync/errgroup"
)

var Logger = logger.GetLogger()

type Simulation struct {
	MetaData   *simmetadata.Metadata
	Config     simconfig.Config
	Elevators  []*elevator.Elevator
	Dispatcher *dispatch.Dispatcher
	Generator  *generator.Generator

	runners  []*runner.Runner
	incoming *queue.Queue[request.Request]

	mu      sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

type ElevatorSnapshot struct {
	ID      int
	Floor   int
	State   simconsts.RunnerState
	Pending []request.Request
	Served  int
}

// NewSimulation builds the bank, dispatcher and generator for cfg. events
// receives every simulation event when non-nil and must be drained by the
// caller.
func NewSimulation(cfg simconfig.Config, runID string, events chan<- simevent.Event) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	policy, err := dispatch.NewPolicy(cfg.DispatchPolicy())
	if err != nil {
		return nil, err
	}

	incoming := queue.New[request.Request]()
	elevators := elevator.NewBank(cfg.ElevatorCount, cfg.InitialFloor)

	dispatcher, err := dispatch.NewDispatcher(policy, elevators, incoming, events)
	if err != nil {
		return nil, err
	}

	gen, err := generator.NewGenerator(generator.Options{
		MinFloor:    cfg.MinFloor,
		MaxFloor:    cfg.MaxFloor,
		Interval:    cfg.GenerationInterval(),
		StartDelay:  cfg.GenerationStartDelay(),
		MaxRequests: cfg.MaxRequests,
		Seed:        cfg.Seed,
	}, incoming, events)
	if err != nil {
		return nil, err
	}

	runners := make([]*runner.Runner, len(elevators))
	for i, e := range elevators {
		r, err := runner.NewRunner(e, cfg.FloorTravel(), events)
		if err != nil {
			return nil, err
		}
		runners[i] = r
	}

	return &Simulation{
		MetaData:   simmetadata.New(runID, cfg),
		Config:     cfg,
		Elevators:  elevators,
		Dispatcher: dispatcher,
		Generator:  gen,
		runners:    runners,
		incoming:   incoming,
	}, nil
}

// Start launches one goroutine per runner plus the dispatcher and the
// generator. A simulation can be started once.
func (s *Simulation) Start(parent context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		Logger.Error().Msg("Simulation already running")
		return errors.New("simulation already running")
	}
	if s.stopped {
		Logger.Error().Msg("Simulation has been stopped and cannot be restarted")
		return errors.New("simulation already stopped")
	}

	ctx, cancel := context.WithCancel(parent)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, r := range s.runners {
		group.Go(func() error {
			return r.Run(groupCtx)
		})
	}
	group.Go(func() error {
		return s.Dispatcher.Run(groupCtx)
	})
	group.Go(func() error {
		return s.Generator.Run(groupCtx)
	})

	s.cancel = cancel
	s.group = group
	s.running = true

	Logger.Info().Msgf("Simulation started: %v", s.MetaData.String())
	return nil
}

// Stop cancels every goroutine and waits for them. Queued requests are
// abandoned.
func (s *Simulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		Logger.Error().Msg("Simulation not running, so cannot stop simulation")
		return errors.New("simulation not running")
	}

	Logger.Debug().Msg("Stopping Simulation")

	s.cancel()
	s.incoming.Close()
	for _, e := range s.Elevators {
		e.Close()
	}
	err := s.group.Wait()

	s.running = false
	s.stopped = true
	Logger.Debug().Msgf("Stopped Simulation after %d generated and %d served requests", s.Generator.Generated(), s.Served())
	return err
}

// Submit injects a call alongside the generated ones.
func (s *Simulation) Submit(r request.Request) error {
	if !r.InRange(s.Config.MinFloor, s.Config.MaxFloor) {
		return fmt.Errorf("request %s outside floors [%d, %d]", r, s.Config.MinFloor, s.Config.MaxFloor)
	}
	if !s.incoming.Enqueue(r) {
		return queue.ErrClosed
	}
	return nil
}

func (s *Simulation) Served() int {
	total := 0
	for _, e := range s.Elevators {
		total += e.Served()
	}
	return total
}

func (s *Simulation) Snapshot() ([]ElevatorSnapshot, error) {
	snapshots := make([]ElevatorSnapshot, 0, len(s.Elevators))
	for _, e := range s.Elevators {
		pending, err := e.PendingRequests()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, ElevatorSnapshot{
			ID:      e.ID,
			Floor:   e.CurrentFloor(),
			State:   e.State(),
			Pending: pending,
			Served:  e.Served(),
		})
	}
	return snapshots, nil
}
