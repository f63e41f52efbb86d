package simconsts

import (
	"fmt"
	"strings"
)

// Defaults for a bank of two elevators serving floors 1 through 20.
const (
	DEFAULT_MIN_FLOOR                 = 1
	DEFAULT_MAX_FLOOR                 = 20
	DEFAULT_ELEVATOR_COUNT            = 2
	DEFAULT_INITIAL_FLOOR             = 0
	DEFAULT_GENERATION_INTERVAL_MS    = 2000
	DEFAULT_GENERATION_START_DELAY_MS = 2000
	DEFAULT_FLOOR_TRAVEL_MS           = 1000
	DEFAULT_LOG_LEVEL                 = "info"

	MAX_FLOOR_MAGNITUDE = 1_000_000
)

type Dirn int

const (
	Down Dirn = -1
	Up   Dirn = 1
)

func (d Dirn) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	default:
		return "UNDEFINED"
	}
}

// Step is the floor delta of one hop in this direction.
func (d Dirn) Step() int {
	return int(d)
}

func ParseDirn(s string) (Dirn, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// DirnTowards returns the travel direction from one floor to another and
// false when no travel is needed.
func DirnTowards(from, to int) (Dirn, bool) {
	switch {
	case from < to:
		return Up, true
	case from > to:
		return Down, true
	default:
		return 0, false
	}
}

type RunnerState int

const (
	Idle RunnerState = iota // 0
	MovingUp
	MovingDown
	Arrived
)

func (rs RunnerState) String() string {
	switch rs {
	case Idle:
		return "IDLE"
	case MovingUp:
		return "MOVING_UP"
	case MovingDown:
		return "MOVING_DOWN"
	case Arrived:
		return "ARRIVED"
	default:
		return "UNDEFINED"
	}
}

// MovingState maps a travel direction onto the runner state that covers it.
func MovingState(d Dirn) RunnerState {
	if d == Down {
		return MovingDown
	}
	return MovingUp
}

type Policy string

const (
	PolicyNearest    Policy = "nearest"
	PolicyRoundRobin Policy = "round-robin"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyNearest:
		return PolicyNearest, nil
	case PolicyRoundRobin, "roundrobin", "round_robin":
		return PolicyRoundRobin, nil
	default:
		return "", fmt.Errorf("unknown dispatch policy %q", s)
	}
}
