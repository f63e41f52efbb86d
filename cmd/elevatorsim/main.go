package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dinaMadelen/elevatorsim/internal/logger"
	"github.com/dinaMadelen/elevatorsim/internal/simconfig"
	"github.com/dinaMadelen/elevatorsim/internal/simulation"
	"github.com/rs/zerolog"
)

var Logger = logger.GetLoggerConfigured(zerolog.InfoLevel)

func main() {
	cfg, err := simconfig.Load()
	if err != nil {
		Logger.Fatal().Err(err).Msg("Error loading configuration")
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		Logger.Fatal().Err(err).Msg("Error setting log level")
	}

	// Starting Programme
	Logger.Info().Msg("Starting Elevator Simulation")

	sim, err := simulation.NewSimulation(cfg, "", nil)
	if err != nil {
		Logger.Fatal().Err(err).Msg("Error creating simulation")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		Logger.Fatal().Err(err).Msg("Error starting simulation")
	}

	<-ctx.Done()
	Logger.Info().Msg("Shutdown signal received")

	if err := sim.Stop(); err != nil {
		Logger.Error().Err(err).Msg("Simulation stopped with error")
		os.Exit(1)
	}
	Logger.Info().Msgf("Elevator Simulation stopped, %d requests served", sim.Served())
}
