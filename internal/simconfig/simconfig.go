package simconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dinaMadelen/elevatorsim/internal/simconsts"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH_ENV     = "ELEVATORSIM_CONFIG"
	DEFAULT_CONFIG_PATH = "elevatorsim.yaml"
	DEFAULT_ENV_PATH    = ".env"
)

// Config is fixed once the simulation starts.
type Config struct {
	MinFloor               int    `yaml:"minFloor"`
	MaxFloor               int    `yaml:"maxFloor"`
	ElevatorCount          int    `yaml:"elevatorCount"`
	InitialFloor           int    `yaml:"initialFloor"`
	GenerationIntervalMs   int64  `yaml:"generationIntervalMs"`
	GenerationStartDelayMs int64  `yaml:"generationStartDelayMs"`
	FloorTravelMs          int64  `yaml:"floorTravelMs"`
	Policy                 string `yaml:"policy"`
	Seed                   uint64 `yaml:"seed"`
	MaxRequests            int    `yaml:"maxRequests"`
	LogLevel               string `yaml:"logLevel"`
}

func Default() Config {
	return Config{
		MinFloor:               simconsts.DEFAULT_MIN_FLOOR,
		MaxFloor:               simconsts.DEFAULT_MAX_FLOOR,
		ElevatorCount:          simconsts.DEFAULT_ELEVATOR_COUNT,
		InitialFloor:           simconsts.DEFAULT_INITIAL_FLOOR,
		GenerationIntervalMs:   simconsts.DEFAULT_GENERATION_INTERVAL_MS,
		GenerationStartDelayMs: simconsts.DEFAULT_GENERATION_START_DELAY_MS,
		FloorTravelMs:          simconsts.DEFAULT_FLOOR_TRAVEL_MS,
		Policy:                 string(simconsts.PolicyNearest),
		LogLevel:               simconsts.DEFAULT_LOG_LEVEL,
	}
}

// Load reads the YAML file named by ELEVATORSIM_CONFIG (elevatorsim.yaml by
// default) and the .env file in the working directory.
func Load() (Config, error) {
	path := DEFAULT_CONFIG_PATH
	if p, ok := os.LookupEnv(CONFIG_PATH_ENV); ok && p != "" {
		path = p
	}
	return LoadFrom(path, DEFAULT_ENV_PATH)
}

// LoadFrom layers defaults, the YAML file at yamlPath, the dotenv file at
// envPath and the process environment, in that order. Missing files are
// skipped.
func LoadFrom(yamlPath, envPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		if err := cfg.mergeYAMLFile(yamlPath); err != nil {
			return cfg, err
		}
	}

	fileEnv := map[string]string{}
	if envPath != "" {
		env, err := godotenv.Read(envPath)
		switch {
		case err == nil:
			fileEnv = env
		case !errors.Is(err, fs.ErrNotExist):
			return cfg, fmt.Errorf("error reading env file %s: %w", envPath, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) mergeYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return c.mergeYAML(data)
}

func (c *Config) mergeYAML(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error decoding config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key   string
		field *int
	}{
		{"ELEVATORSIM_MIN_FLOOR", &c.MinFloor},
		{"ELEVATORSIM_MAX_FLOOR", &c.MaxFloor},
		{"ELEVATORSIM_ELEVATOR_COUNT", &c.ElevatorCount},
		{"ELEVATORSIM_INITIAL_FLOOR", &c.InitialFloor},
		{"ELEVATORSIM_MAX_REQUESTS", &c.MaxRequests},
	}
	for _, entry := range ints {
		if v, ok := lookup(entry.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("error converting %s to int: %w", entry.key, err)
			}
			*entry.field = n
		}
	}

	millis := []struct {
		key   string
		field *int64
	}{
		{"ELEVATORSIM_GENERATION_INTERVAL_MS", &c.GenerationIntervalMs},
		{"ELEVATORSIM_GENERATION_START_DELAY_MS", &c.GenerationStartDelayMs},
		{"ELEVATORSIM_FLOOR_TRAVEL_MS", &c.FloorTravelMs},
	}
	for _, entry := range millis {
		if v, ok := lookup(entry.key); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("error converting %s to int: %w", entry.key, err)
			}
			*entry.field = n
		}
	}

	if v, ok := lookup("ELEVATORSIM_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting ELEVATORSIM_SEED to uint: %w", err)
		}
		c.Seed = n
	}
	if v, ok := lookup("ELEVATORSIM_POLICY"); ok {
		c.Policy = v
	}
	if v, ok := lookup("ELEVATORSIM_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error

	if c.MinFloor < -simconsts.MAX_FLOOR_MAGNITUDE || c.MaxFloor > simconsts.MAX_FLOOR_MAGNITUDE {
		errs = append(errs, fmt.Errorf("floors must lie within [%d, %d], got [%d, %d]",
			-simconsts.MAX_FLOOR_MAGNITUDE, simconsts.MAX_FLOOR_MAGNITUDE, c.MinFloor, c.MaxFloor))
	} else if c.MinFloor > c.MaxFloor {
		errs = append(errs, fmt.Errorf("minFloor %d is above maxFloor %d", c.MinFloor, c.MaxFloor))
	} else if c.InitialFloor < c.MinFloor-1 || c.InitialFloor > c.MaxFloor {
		errs = append(errs, fmt.Errorf("initialFloor %d is outside [%d, %d]", c.InitialFloor, c.MinFloor-1, c.MaxFloor))
	}
	if c.ElevatorCount < 1 {
		errs = append(errs, fmt.Errorf("elevatorCount must be at least 1, got %d", c.ElevatorCount))
	}
	if c.GenerationIntervalMs < 0 || c.GenerationStartDelayMs < 0 || c.FloorTravelMs < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.MaxRequests < 0 {
		errs = append(errs, fmt.Errorf("maxRequests must not be negative, got %d", c.MaxRequests))
	}
	if _, err := simconsts.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err))
	}

	return errors.Join(errs...)
}

// DispatchPolicy assumes Validate has passed.
func (c Config) DispatchPolicy() simconsts.Policy {
	p, _ := simconsts.ParsePolicy(c.Policy)
	return p
}

func (c Config) GenerationInterval() time.Duration {
	return time.Duration(c.GenerationIntervalMs) * time.Millisecond
}

func (c Config) GenerationStartDelay() time.Duration {
	return time.Duration(c.GenerationStartDelayMs) * time.Millisecond
}

func (c Config) FloorTravel() time.Duration {
	return time.Duration(c.FloorTravelMs) * time.Millisecond
}
