package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/queue"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
	"github.com/dinaMadelen/elevatorsim/internal/simevent"
)

var Log = logger.GetLogger()

type Options struct {
	MinFloor    int
	MaxFloor    int
	Interval    time.Duration
	StartDelay  time.Duration
	MaxRequests int    //0 means unbounded
	Seed        uint64 //0 means seeded from the clock
}

type Generator struct {
	opts      Options
	rng       *rand.Rand
	out       *queue.Queue[request.Request]
	events    chan<- simevent.Event
	generated atomic.Int64
}

func NewGenerator(opts Options, out *queue.Queue[request.Request], events chan<- simevent.Event) (*Generator, error) {
	if opts.MinFloor < -simconsts.MAX_FLOOR_MAGNITUDE || opts.MaxFloor > simconsts.MAX_FLOOR_MAGNITUDE {
		return nil, fmt.Errorf("floor range [%d, %d] exceeds %d", opts.MinFloor, opts.MaxFloor, simconsts.MAX_FLOOR_MAGNITUDE)
	}
	if opts.MinFloor > opts.MaxFloor {
		return nil, fmt.Errorf("min floor %d is above max floor %d", opts.MinFloor, opts.MaxFloor)
	}
	if opts.Interval < 0 || opts.StartDelay < 0 {
		return nil, errors.New("generator durations must not be negative")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Generator{
		opts:   opts,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		out:    out,
		events: events,
	}, nil
}

// Next draws a request with a floor in [MinFloor, MaxFloor] and a random
// direction. It is not safe for concurrent use.
func (g *Generator) Next() request.Request {
	floor := g.opts.MinFloor + g.rng.IntN(g.opts.MaxFloor-g.opts.MinFloor+1)
	dirn := simconsts.Up
	if g.rng.IntN(2) == 1 {
		dirn = simconsts.Down
	}
	return request.New(floor, dirn)
}

func (g *Generator) Generated() int {
	return int(g.generated.Load())
}

// Run emits one request per interval after the start delay, until ctx is
// cancelled, the output queue is closed or MaxRequests is reached.
func (g *Generator) Run(ctx context.Context) error {
	if g.out == nil {
		return errors.New("generator has no output queue")
	}

	if err := sleep(ctx, g.opts.StartDelay); err != nil {
		Log.Warn().Msgf("Generator has been signaled to stop before the first request")
		return nil
	}

	for {
		if g.opts.MaxRequests > 0 && g.Generated() >= g.opts.MaxRequests {
			Log.Info().Msgf("Generator reached %d requests, stopping", g.opts.MaxRequests)
			return nil
		}

		r := g.Next()
		if !g.out.Enqueue(r) {
			Log.Warn().Msgf("Request queue closed, generator stopping")
			return nil
		}
		g.generated.Add(1)
		Log.Info().Msgf("New request: %s", r)
		simevent.Emit(ctx, g.events, simevent.RequestGeneratedEvent{Request: r})

		if err := sleep(ctx, g.opts.Interval); err != nil {
			Log.Warn().Msgf("Generator has been signaled to stop after %d requests", g.Generated())
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
