package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cubesphere/internal/api"
	"cubesphere/internal/config"
	"cubesphere/internal/env"
	"cubesphere/internal/grid"
	"cubesphere/internal/logger"
	"cubesphere/internal/sim"
)

var (
	port       = flag.Int("port", 0, "Port to listen on (overrides PORT)")
	resolution = flag.Int("resolution", 0, "Cells per face edge (overrides GRID_RESOLUTION)")
	envFile    = flag.String("env", ".env", "Optional .env file")
)

func main() {
	flag.Parse()
	log := logger.Setup()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("config_invalid", "err", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Port = *port
	}
	if *resolution > 0 {
		cfg.GridResolution = *resolution
	}

	start := time.Now()
	g, err := grid.New(cfg.GridResolution)
	if err != nil {
		log.Error("grid_invalid", "resolution", cfg.GridResolution, "err", err)
		os.Exit(1)
	}
	log.Info("grid_ready",
		"resolution", g.Resolution(),
		"cells", g.NumCells(),
		"points", g.NumPoints(),
		"took_ms", time.Since(start).Milliseconds(),
	)

	// Spin about the pole, then keep bodies off it.
	envChain := &env.Chain{
		Effects: []env.Environment{
			env.DriftAbout(90, 0, cfg.DriftDegPerSec),
			env.LatitudeFence{MaxLatDeg: cfg.MaxLatDeg},
		},
	}

	simEngine := sim.New(sim.Config{
		Grid:        g,
		TickHz:      cfg.TickHz,
		Restitution: cfg.Restitution,
		Environment: envChain,
		Logger:      log,
	})

	server := api.NewServer(g, simEngine, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		if err := simEngine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("sim_error", "err", err)
		}
	}()

	go func() {
		log.Info("http_listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_error", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_error", "err", err)
	}

	cancel()
	<-simDone

	log.Info("shutdown_complete")
}
