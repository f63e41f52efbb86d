package simevent

import (
	"context"

	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
)

type Event struct {
	//Golang doesnt support union types,
	//so we have to pass any of the below
	//structs
	Value any
}

type RequestGeneratedEvent struct {
	Request request.Request
}

type RequestAssignedEvent struct {
	Request    request.Request
	ElevatorID int
}

type MovingEvent struct {
	ElevatorID int
	Dirn       simconsts.Dirn
	Floor      int
}

type ArrivedEvent struct {
	ElevatorID int
	Floor      int
	Request    request.Request
}

func (e *Event) EventType() string {
	switch e.Value.(type) {
	case RequestGeneratedEvent:
		return "RequestGeneratedEvent"
	case RequestAssignedEvent:
		return "RequestAssignedEvent"
	case MovingEvent:
		return "MovingEvent"
	case ArrivedEvent:
		return "ArrivedEvent"
	default:
		return "UnknownEvent"
	}
}

// Emit delivers value on sink. A nil sink discards it; a cancelled context
// abandons the send so that shutdown is never held up by a slow reader.
func Emit(ctx context.Context, sink chan<- Event, value any) {
	if sink == nil {
		return
	}
	select {
	case sink <- Event{Value: value}:
		return
	default:
	}
	select {
	case sink <- Event{Value: value}:
	case <-ctx.Done():
	}
}
