// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/evnav/evnav/core/energy"
	"github.com/evnav/evnav/core/eta"
	"github.com/evnav/evnav/core/metrics"
	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/core/recommend"
	"github.com/evnav/evnav/core/scoring"
	"github.com/evnav/evnav/infra/mqtt"
	"github.com/evnav/evnav/infra/routing"
)

type Config struct {
	API       APIConfig        `json:"api"`
	Stations  StationsConfig   `json:"stations"`
	Cities    CitiesConfig     `json:"cities"`
	Energy    energy.Params    `json:"energy"`
	ETA       eta.Params       `json:"eta"`
	Scoring   scoring.Params   `json:"scoring"`
	Recommend recommend.Config `json:"recommend"`
	Routing   routing.Params   `json:"routing"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Metrics   metrics.Config   `json:"metrics"`
}

// StationsConfig points at the seed fleet.
type StationsConfig struct {
	// File is a JSON array of stations loaded at startup.
	File string `json:"file"`
}

// CitiesConfig extends the built-in city gazetteer.
type CitiesConfig struct {
	// Extra entries are merged over the defaults; same-name entries win.
	Extra map[string]model.Coordinate `json:"extra"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("EVNAV_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "evnav_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Recommend.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Stations.File == "" {
		return fmt.Errorf("stations.file is required")
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	for name, coord := range c.Cities.Extra {
		if err := coord.Validate(); err != nil {
			return fmt.Errorf("cities.extra[%s]: %w", name, err)
		}
	}
	return nil
}
