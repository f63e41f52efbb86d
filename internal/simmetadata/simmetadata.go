package simmetadata

import (
	"encoding/json"

	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/simconfig"
	"github.com/xyproto/randomstring"
)

var Log = logger.GetLogger()

const RUN_ID_DEFAULT_LEN = 10

type Metadata struct {
	RunID         string `json:"run_id"`
	Policy        string `json:"policy"`
	ElevatorCount int    `json:"elevator_count"`
	MinFloor      int    `json:"min_floor"`
	MaxFloor      int    `json:"max_floor"`
}

// New describes a run of cfg. An empty runID is replaced by a random one.
func New(runID string, cfg simconfig.Config) *Metadata {
	if runID == "" {
		runID = randomstring.EnglishFrequencyString(RUN_ID_DEFAULT_LEN)
		Log.Debug().Msgf("No run identifier provided, generated random identifier \"%v\"", runID)
	}

	return &Metadata{
		RunID:         runID,
		Policy:        string(cfg.DispatchPolicy()),
		ElevatorCount: cfg.ElevatorCount,
		MinFloor:      cfg.MinFloor,
		MaxFloor:      cfg.MaxFloor,
	}
}

func (m *Metadata) String() string {
	jsonData, err := json.Marshal(m)

	if err != nil {
		Log.Error().Msg("Error Serialising Metadata Object to JSON")
		return ""
	}
	return string(jsonData)
}
