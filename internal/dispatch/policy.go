package dispatch

import (
	"fmt"

	"github.com/dinaMadelen/elevatorsim/internal/elevator"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
)

// Policy picks the index of the elevator that should serve r. elevators is
// never empty.
type Policy interface {
	Name() simconsts.Policy
	Select(r request.Request, elevators []*elevator.Elevator) int
}

func NewPolicy(name simconsts.Policy) (Policy, error) {
	switch name {
	case simconsts.PolicyNearest:
		return &Nearest{}, nil
	case simconsts.PolicyRoundRobin:
		return &RoundRobin{}, nil
	default:
		return nil, fmt.Errorf("unknown dispatch policy %q", name)
	}
}

// RoundRobin cycles through the elevators and ignores their position. The
// cursor is owned by the dispatcher goroutine.
type RoundRobin struct {
	next int
}

func (rr *RoundRobin) Name() simconsts.Policy {
	return simconsts.PolicyRoundRobin
}

func (rr *RoundRobin) Select(_ request.Request, elevators []*elevator.Elevator) int {
	index := rr.next % len(elevators)
	rr.next = (index + 1) % len(elevators)
	return index
}

// Nearest picks the elevator with the smallest floor distance to the call,
// the lowest index winning a tie. Floors are read while runners move, so the
// choice reflects each elevator's last completed hop.
type Nearest struct{}

func (n *Nearest) Name() simconsts.Policy {
	return simconsts.PolicyNearest
}

func (n *Nearest) Select(r request.Request, elevators []*elevator.Elevator) int {
	best := 0
	minDistance := r.Distance(elevators[0].CurrentFloor())

	for i := 1; i < len(elevators); i++ {
		distance := r.Distance(elevators[i].CurrentFloor())
		if distance < minDistance {
			best = i
			minDistance = distance
		}
	}
	return best
}
