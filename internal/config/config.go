// Package config loads service settings from a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the service settings.
type Config struct {
	GridResolution int
	Port           int
	TickHz         float64
	Restitution    float64
	DriftDegPerSec float64
	MaxLatDeg      float64
}

// Defaults returns the settings used when nothing is set.
func Defaults() Config {
	return Config{
		GridResolution: 32,
		Port:           8080,
		TickHz:         20,
		Restitution:    0.8,
		DriftDegPerSec: 0,
		MaxLatDeg:      85,
	}
}

// Load reads the given .env files (missing files are ignored, existing
// environment variables win) and then parses the environment on top of
// Defaults.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Defaults(), fmt.Errorf("config: %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv parses the environment on top of Defaults.
func FromEnv() (Config, error) {
	c := Defaults()
	var err error
	if c.GridResolution, err = intVar("GRID_RESOLUTION", c.GridResolution); err != nil {
		return c, err
	}
	if c.GridResolution <= 0 || c.GridResolution%2 != 0 {
		return c, fmt.Errorf("config: GRID_RESOLUTION must be a positive even number, got %d", c.GridResolution)
	}
	if c.Port, err = intVar("PORT", c.Port); err != nil {
		return c, err
	}
	if c.TickHz, err = floatVar("SIM_TICK_HZ", c.TickHz); err != nil {
		return c, err
	}
	if c.TickHz <= 0 {
		return c, fmt.Errorf("config: SIM_TICK_HZ must be positive, got %g", c.TickHz)
	}
	if c.Restitution, err = floatVar("SIM_RESTITUTION", c.Restitution); err != nil {
		return c, err
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return c, fmt.Errorf("config: SIM_RESTITUTION must be in [0,1], got %g", c.Restitution)
	}
	if c.DriftDegPerSec, err = floatVar("SIM_DRIFT_DEG_PER_SEC", c.DriftDegPerSec); err != nil {
		return c, err
	}
	if c.MaxLatDeg, err = floatVar("SIM_MAX_LAT", c.MaxLatDeg); err != nil {
		return c, err
	}
	return c, nil
}

func intVar(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", name, err)
	}
	return v, nil
}

func floatVar(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", name, err)
	}
	return v, nil
}
