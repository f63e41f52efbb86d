package elevator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/queue"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
	"github.com/rs/zerolog"
)

func TestNewBank(t *testing.T) {
	bank := NewBank(3, 1)

	if len(bank) != 3 {
		t.Fatalf("NewBank() created %d elevators, expected 3", len(bank))
	}
	for i, e := range bank {
		if e.ID != i+1 {
			t.Errorf("bank[%d].ID = %d, expected %d", i, e.ID, i+1)
		}
		if e.CurrentFloor() != 1 {
			t.Errorf("bank[%d].CurrentFloor() = %d, expected 1", i, e.CurrentFloor())
		}
		if e.State() != simconsts.Idle {
			t.Errorf("bank[%d].State() = %v, expected %v", i, e.State(), simconsts.Idle)
		}
	}
}

func TestNextRequestThenRemove(t *testing.T) {
	e := NewElevator(1, 0)
	r := request.New(6, simconsts.Up)
	e.AddRequest(r)

	got, err := e.NextRequest(context.Background())
	if err != nil {
		t.Fatalf("NextRequest() returned error %v", err)
	}
	if got != r {
		t.Errorf("NextRequest() = %v, expected %v", got, r)
	}
	if inService, ok := e.InService(); !ok || inService != r {
		t.Errorf("InService() = %v, %v, expected %v, true", inService, ok, r)
	}

	if !e.RemoveRequest(r) {
		t.Errorf("RemoveRequest() returned false for the request in service")
	}
	if _, ok := e.InService(); ok {
		t.Errorf("InService() still reports a request after removal")
	}
	if e.Served() != 1 {
		t.Errorf("Served() = %d, expected 1", e.Served())
	}
}

func TestRemoveDoesNotDropDuplicate(t *testing.T) {
	e := NewElevator(1, 0)
	r := request.New(4, simconsts.Down)
	e.AddRequest(r)
	e.AddRequest(r)

	got, _ := e.NextRequest(context.Background())
	e.RemoveRequest(got)

	if e.Pending() != 1 {
		t.Errorf("Pending() = %d, expected the duplicate call to stay queued", e.Pending())
	}
}

func TestRemoveAbsentRequest(t *testing.T) {
	e := NewElevator(1, 0)
	e.AddRequest(request.New(3, simconsts.Up))

	before, _ := e.PendingRequests()
	if e.RemoveRequest(request.New(9, simconsts.Down)) {
		t.Errorf("RemoveRequest() returned true for an absent request")
	}
	after, _ := e.PendingRequests()

	if len(before) != len(after) || before[0] != after[0] {
		t.Errorf("queue changed from %v to %v", before, after)
	}
	if e.Served() != 0 {
		t.Errorf("Served() = %d, expected 0", e.Served())
	}
}

func TestRemovePendingRequest(t *testing.T) {
	e := NewElevator(1, 0)
	r := request.New(3, simconsts.Up)
	e.AddRequest(r)

	if !e.RemoveRequest(r) {
		t.Errorf("RemoveRequest() returned false for a pending request")
	}
	if e.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", e.Pending())
	}
}

func TestCloseUnblocksNextRequest(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	e := NewElevator(1, 0)
	errs := make(chan error, 1)

	go func() {
		_, err := e.NextRequest(context.Background())
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	e.Close()

	select {
	case err := <-errs:
		if !errors.Is(err, queue.ErrClosed) {
			t.Errorf("NextRequest() error = %v, expected %v", err, queue.ErrClosed)
		}
	case <-time.After(time.Second):
		t.Fatalf("Timed out waiting for NextRequest() to return")
	}

	if e.AddRequest(request.New(1, simconsts.Up)) {
		t.Errorf("AddRequest() on closed elevator returned true")
	}
}

func TestFloorAndState(t *testing.T) {
	e := NewElevator(2, 5)
	motor, err := e.Motor()
	if err != nil {
		t.Fatalf("Motor() returned error %v", err)
	}
	motor.SetFloor(7)
	motor.SetState(simconsts.MovingUp)

	if e.CurrentFloor() != 7 {
		t.Errorf("CurrentFloor() = %d, expected 7", e.CurrentFloor())
	}
	if e.State() != simconsts.MovingUp {
		t.Errorf("State() = %v, expected %v", e.State(), simconsts.MovingUp)
	}
	if e.String() != "Elevator 2 (floor 7, MOVING_UP, 0 pending)" {
		t.Errorf("String() = %q", e.String())
	}
}

func TestMotorClaimedOnce(t *testing.T) {
	e := NewElevator(1, 0)
	if _, err := e.Motor(); err != nil {
		t.Fatalf("Motor() returned error %v", err)
	}
	if _, err := e.Motor(); err == nil {
		t.Errorf("second Motor() returned nil error")
	}
}
