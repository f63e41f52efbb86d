package elevator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/queue"
	"github.com/dinaMadelen/elevatorsim/internal/request"
	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
)

var Log = logger.GetLogger()

// Elevator owns its floor and its pending requests. The floor is written only
// through its Motor, held by the elevator's runner; other goroutines may read
// it at any time and get the last completed hop.
type Elevator struct {
	ID int

	floor    atomic.Int64
	state    atomic.Int32
	served   atomic.Int64
	claimed  atomic.Bool
	requests *queue.Queue[request.Request]

	mu        sync.Mutex
	inService *request.Request //dequeued but not yet removed
}

func NewElevator(id int, initialFloor int) *Elevator {
	e := &Elevator{
		ID:       id,
		requests: queue.New[request.Request](),
	}
	e.floor.Store(int64(initialFloor))
	e.state.Store(int32(simconsts.Idle))
	return e
}

// NewBank creates count elevators with ids starting at 1.
func NewBank(count int, initialFloor int) []*Elevator {
	bank := make([]*Elevator, count)
	for i := range bank {
		bank[i] = NewElevator(i+1, initialFloor)
	}
	return bank
}

func (e *Elevator) CurrentFloor() int {
	return int(e.floor.Load())
}

func (e *Elevator) State() simconsts.RunnerState {
	return simconsts.RunnerState(e.state.Load())
}

// Motor is the only writer of an elevator's floor and state.
type Motor struct {
	elevator *Elevator
}

// Motor hands out the elevator's writer. It can be claimed once.
func (e *Elevator) Motor() (*Motor, error) {
	if !e.claimed.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("elevator %d already has a motor", e.ID)
	}
	return &Motor{elevator: e}, nil
}

func (m *Motor) SetFloor(floor int) {
	m.elevator.floor.Store(int64(floor))
}

func (m *Motor) SetState(state simconsts.RunnerState) {
	m.elevator.state.Store(int32(state))
}

// AddRequest never blocks. It returns false once the elevator has been closed.
func (e *Elevator) AddRequest(r request.Request) bool {
	ok := e.requests.Enqueue(r)
	if !ok {
		Log.Warn().Msgf("Elevator %d is closed, dropping request %s", e.ID, r)
	}
	return ok
}

// NextRequest blocks until a request is queued and marks it as in service.
func (e *Elevator) NextRequest(ctx context.Context) (request.Request, error) {
	r, err := e.requests.Dequeue(ctx)
	if err != nil {
		return request.Request{}, err
	}

	e.mu.Lock()
	e.inService = &r
	e.mu.Unlock()

	return r, nil
}

// RemoveRequest retires r. The request in service is matched first, then the
// first equal pending request. Removing an absent request is a no-op.
func (e *Elevator) RemoveRequest(r request.Request) bool {
	e.mu.Lock()
	if e.inService != nil && *e.inService == r {
		e.inService = nil
		e.mu.Unlock()
		e.served.Add(1)
		return true
	}
	e.mu.Unlock()

	return e.requests.Remove(r)
}

func (e *Elevator) InService() (request.Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inService == nil {
		return request.Request{}, false
	}
	return *e.inService, true
}

// Pending is the number of queued requests, excluding the one in service.
func (e *Elevator) Pending() int {
	return e.requests.Len()
}

func (e *Elevator) PendingRequests() ([]request.Request, error) {
	pending, err := e.requests.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("elevator %d: %w", e.ID, err)
	}
	return pending, nil
}

// Served counts requests retired through the in-service slot.
func (e *Elevator) Served() int {
	return int(e.served.Load())
}

// Close wakes a runner blocked in NextRequest and rejects further requests.
func (e *Elevator) Close() {
	e.requests.Close()
}

func (e *Elevator) String() string {
	return fmt.Sprintf("Elevator %d (floor %d, %s, %d pending)", e.ID, e.CurrentFloor(), e.State(), e.Pending())
}
