package simmetadata

import (
	"testing"

	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/simconfig"
	"github.com/rs/zerolog"
)

func TestString(t *testing.T) {
	metadata := Metadata{
		RunID:         "uwvvblrtct",
		Policy:        "nearest",
		ElevatorCount: 2,
		MinFloor:      1,
		MaxFloor:      20,
	}

	jsonString := "{\"run_id\":\"uwvvblrtct\",\"policy\":\"nearest\",\"elevator_count\":2,\"min_floor\":1,\"max_floor\":20}"

	if metadata.String() != jsonString {
		t.Errorf("String() = %s, expected %s", metadata.String(), jsonString)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := simconfig.Default()
	cfg.Policy = "round-robin"
	cfg.ElevatorCount = 3

	metadata := New("run-1", cfg)
	if metadata.RunID != "run-1" {
		t.Errorf("RunID = %s, expected run-1", metadata.RunID)
	}
	if metadata.Policy != "round-robin" || metadata.ElevatorCount != 3 {
		t.Errorf("New() = %+v, expected round-robin with 3 elevators", metadata)
	}
}

func TestNewGeneratesRunID(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)

	a := New("", simconfig.Default())
	b := New("", simconfig.Default())

	if a.RunID == "" {
		t.Errorf("RunID is empty, expected a generated identifier")
	}
	if a.RunID == b.RunID {
		t.Errorf("two generated run identifiers are both %q", a.RunID)
	}
}
