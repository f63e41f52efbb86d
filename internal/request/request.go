package request

import (
	"fmt"

	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
)

// Request is a call from a floor. It is a plain value: two requests with the
// same floor and direction are equal, which is what queue removal relies on.
type Request struct {
	CallingFloor int            `json:"calling_floor"`
	Direction    simconsts.Dirn `json:"direction"`
}

func New(callingFloor int, direction simconsts.Dirn) Request {
	return Request{CallingFloor: callingFloor, Direction: direction}
}

func (r Request) String() string {
	return fmt.Sprintf("%d %s", r.CallingFloor, r.Direction)
}

// InRange reports whether the calling floor lies within [minFloor, maxFloor].
func (r Request) InRange(minFloor, maxFloor int) bool {
	return r.CallingFloor >= minFloor && r.CallingFloor <= maxFloor
}

// Distance is the number of floors between the call and floor.
func (r Request) Distance(floor int) int {
	d := r.CallingFloor - floor
	if d < 0 {
		return -d
	}
	return d
}
