package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"movierec/internal/logger"
)

// ServerConfig mirrors configs/server.yaml.
type ServerConfig struct {
	Server struct {
		Port  string `yaml:"port"`
		Debug bool   `yaml:"debug"`
	} `yaml:"server"`
	Catalog struct {
		BaseURL          string  `yaml:"base_url"`
		APIKey           string  `yaml:"api_key"`
		MaxConcurrent    int     `yaml:"max_concurrent"`
		CacheTTLSeconds  int     `yaml:"cache_ttl_seconds"`
		CacheCapacity    int     `yaml:"cache_capacity"`
		TimeoutSeconds   int     `yaml:"timeout_seconds"`
		RequestsPerSec   float64 `yaml:"requests_per_sec"`
	} `yaml:"catalog"`
	Embedding struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"embedding"`
	Paths struct {
		Profiles string `yaml:"profiles"`
		History  string `yaml:"history"`
	} `yaml:"paths"`
}

// CacheTTL returns the catalog cache TTL as a duration.
func (c *ServerConfig) CacheTTL() time.Duration {
	return time.Duration(c.Catalog.CacheTTLSeconds) * time.Second
}

// RequestTimeout returns the per-call catalog timeout as a duration.
func (c *ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

func loadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// InitServerConfig builds the effective configuration. Precedence:
// command-line flags > config file > environment > hardcoded defaults.
func InitServerConfig() *ServerConfig {
	configPath := flag.String("config", "configs/server.yaml", "Path to server config file")
	portFlag := flag.String("port", "", "Server port")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	profilesFlag := flag.String("profiles", "", "Path to profiles.yaml")
	historyFlag := flag.String("history", "", "Path to history.jsonl")
	flag.Parse()

	// Defaults.
	cfg := &ServerConfig{}
	cfg.Server.Port = "8080"
	cfg.Catalog.BaseURL = "https://api.themoviedb.org/3"
	cfg.Catalog.MaxConcurrent = 5
	cfg.Catalog.CacheTTLSeconds = 600
	cfg.Catalog.CacheCapacity = 500
	cfg.Catalog.TimeoutSeconds = 15
	cfg.Catalog.RequestsPerSec = 35
	cfg.Paths.Profiles = "configs/profiles.yaml"
	cfg.Paths.History = "data/history.jsonl"

	// Config file overrides defaults when present.
	if loaded, err := loadServerConfig(*configPath); err == nil {
		if loaded.Server.Port != "" {
			cfg.Server.Port = loaded.Server.Port
		}
		if loaded.Server.Debug {
			cfg.Server.Debug = true
		}
		if loaded.Catalog.BaseURL != "" {
			cfg.Catalog.BaseURL = loaded.Catalog.BaseURL
		}
		if loaded.Catalog.APIKey != "" {
			cfg.Catalog.APIKey = loaded.Catalog.APIKey
		}
		if loaded.Catalog.MaxConcurrent > 0 {
			cfg.Catalog.MaxConcurrent = loaded.Catalog.MaxConcurrent
		}
		if loaded.Catalog.CacheTTLSeconds > 0 {
			cfg.Catalog.CacheTTLSeconds = loaded.Catalog.CacheTTLSeconds
		}
		if loaded.Catalog.CacheCapacity > 0 {
			cfg.Catalog.CacheCapacity = loaded.Catalog.CacheCapacity
		}
		if loaded.Catalog.TimeoutSeconds > 0 {
			cfg.Catalog.TimeoutSeconds = loaded.Catalog.TimeoutSeconds
		}
		if loaded.Catalog.RequestsPerSec > 0 {
			cfg.Catalog.RequestsPerSec = loaded.Catalog.RequestsPerSec
		}
		if loaded.Embedding.Enabled {
			cfg.Embedding.Enabled = true
		}
		if loaded.Embedding.Endpoint != "" {
			cfg.Embedding.Endpoint = loaded.Embedding.Endpoint
		}
		if loaded.Embedding.APIKey != "" {
			cfg.Embedding.APIKey = loaded.Embedding.APIKey
		}
		if loaded.Paths.Profiles != "" {
			cfg.Paths.Profiles = loaded.Paths.Profiles
		}
		if loaded.Paths.History != "" {
			cfg.Paths.History = loaded.Paths.History
		}
	} else {
		logger.Info("could not load config file '%s': %v, using defaults, env, and flags", *configPath, err)
	}

	// Environment carries the secrets and the embedding feature flag.
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.Catalog.APIKey = v
	}
	if v := os.Getenv("TMDB_BASE_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("EMBEDDING_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Embedding.Enabled = enabled
		}
	}
	if v := os.Getenv("EMBEDDING_ENDPOINT"); v != "" {
		cfg.Embedding.Endpoint = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	// Flags win over everything.
	if *portFlag != "" {
		cfg.Server.Port = *portFlag
	}
	if *debugFlag {
		cfg.Server.Debug = true
	}
	if *profilesFlag != "" {
		cfg.Paths.Profiles = *profilesFlag
	}
	if *historyFlag != "" {
		cfg.Paths.History = *historyFlag
	}

	return cfg
}
