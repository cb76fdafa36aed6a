// Package config loads simulator settings from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gridbot/server/models"
	"gridbot/server/sim"
)

// Config holds the startup settings for both the service and the CLI.
type Config struct {
	GridSize int `yaml:"grid_size"`
	Start    struct {
		X      int    `yaml:"x"`
		Y      int    `yaml:"y"`
		Facing string `yaml:"facing"`
	} `yaml:"start"`
	DisableBattery bool              `yaml:"disable_battery"`
	NoObstacles    bool              `yaml:"no_obstacles"`
	Obstacles      []models.Position `yaml:"obstacles"`

	Port   string `yaml:"port"`
	DBType string `yaml:"db_type"`
	DBURL  string `yaml:"db_url"`
	DBFile string `yaml:"db_file"`
}

// Default returns the stock configuration: 5x5 grid, start at (0,0)
// facing north, battery and default obstacles enabled.
func Default() *Config {
	cfg := &Config{
		GridSize: sim.DefaultGridSize,
		Port:     "8080",
		DBFile:   "db.json",
	}
	cfg.Start.Facing = "north"
	return cfg
}

// Load builds the configuration from the file named by GRIDBOT_CONFIG
// (if set) and then applies environment overrides. A missing env var
// leaves the file/default value in place.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("GRIDBOT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.DBType = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DBURL = v
	}
	if v := os.Getenv("DB_FILE"); v != "" {
		cfg.DBFile = v
	}

	if _, err := models.ParseDirection(cfg.Start.Facing); err != nil {
		return nil, err
	}
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("grid_size must be positive, got %d", cfg.GridSize)
	}
	if cfg.Start.X < 0 || cfg.Start.X >= cfg.GridSize || cfg.Start.Y < 0 || cfg.Start.Y >= cfg.GridSize {
		return nil, fmt.Errorf("start position (%d, %d) is outside the %dx%d grid",
			cfg.Start.X, cfg.Start.Y, cfg.GridSize, cfg.GridSize)
	}

	return cfg, nil
}

// SimOptions converts the configuration into simulator options.
func (c *Config) SimOptions() sim.Options {
	facing, _ := models.ParseDirection(c.Start.Facing)
	return sim.Options{
		GridSize:       c.GridSize,
		Start:          models.Pose{X: c.Start.X, Y: c.Start.Y, Facing: facing},
		DisableBattery: c.DisableBattery,
		NoObstacles:    c.NoObstacles,
		Obstacles:      c.Obstacles,
	}
}
