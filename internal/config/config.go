package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type EngineConfig struct {
	Version int `yaml:"version"`
	World   struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
		File string `yaml:"file"`
	} `yaml:"world"`
	Network struct {
		APIPort int    `yaml:"api_port"`
		MQTTURL string `yaml:"mqtt_url"`
	} `yaml:"network"`
	Engine struct {
		TickIntervalMs int   `yaml:"tick_interval_ms"`
		MaxVisits      int   `yaml:"max_visits"`
		RngSeed        int64 `yaml:"rng_seed"`
	} `yaml:"engine"`
}

// APIPort returns the configured API port, defaulting to 8080 if not set.
func (c *EngineConfig) APIPort() int {
	if c.Network.APIPort == 0 {
		return 8080
	}
	return c.Network.APIPort
}

// TickInterval returns the game tick interval, defaulting to one second.
func (c *EngineConfig) TickInterval() time.Duration {
	if c.Engine.TickIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(c.Engine.TickIntervalMs) * time.Millisecond
}

// MaxVisits returns the per-run node visit budget, defaulting to 512.
func (c *EngineConfig) MaxVisits() int {
	if c.Engine.MaxVisits <= 0 {
		return 512
	}
	return c.Engine.MaxVisits
}

func LoadEngineConfig(path string) (*EngineConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported engine.yaml version: %d", cfg.Version)
	}
	if cfg.World.File == "" {
		return nil, fmt.Errorf("engine.yaml missing world.file")
	}

	return &cfg, nil
}
