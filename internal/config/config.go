// Package config loads client configuration. Precedence, highest first:
// environment variables (MERECHAT_*), the YAML config file, built-in
// defaults.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs to talk to the platform.
type Config struct {
	GatewayURL string // WebSocket gateway
	APIURL     string // REST base URL
	Token      string // bearer token, also passed to the gateway
	User       string // current user name

	PageSize     int // history page size
	ListPageSize int // chat-list page size

	BackoffBase time.Duration // reconnect backoff base
	BackoffMax  time.Duration // reconnect backoff cap

	MaxSelection int // seat selection cap
}

// yamlConfig is the file shape; durations are plain milliseconds there.
type yamlConfig struct {
	GatewayURL    string `yaml:"gateway_url"`
	APIURL        string `yaml:"api_url"`
	Token         string `yaml:"token"`
	User          string `yaml:"user"`
	PageSize      int    `yaml:"page_size"`
	ListPageSize  int    `yaml:"list_page_size"`
	BackoffBaseMS int    `yaml:"backoff_base_ms"`
	BackoffMaxMS  int    `yaml:"backoff_max_ms"`
	MaxSelection  int    `yaml:"max_selection"`
}

// Load reads the configuration. path may be empty, in which case
// MERECHAT_CONFIG and then config/merechat.yaml are tried; a missing file
// just means defaults plus environment.
func Load(path string) *Config {
	yc := yamlConfig{
		GatewayURL:    "wss://gateway.mere.app/ws",
		APIURL:        "https://api.mere.app",
		PageSize:      50,
		ListPageSize:  20,
		BackoffBaseMS: 1000,
		BackoffMaxMS:  30000,
		MaxSelection:  6,
	}

	paths := []string{path, os.Getenv("MERECHAT_CONFIG"), "config/merechat.yaml"}
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &yc); err != nil {
			log.Printf("[config] parse %s: %v (using defaults)", p, err)
		} else {
			log.Printf("[config] loaded %s", p)
		}
		break
	}

	cfg := &Config{
		GatewayURL:   envStr("MERECHAT_GATEWAY_URL", yc.GatewayURL),
		APIURL:       envStr("MERECHAT_API_URL", yc.APIURL),
		Token:        envStr("MERECHAT_TOKEN", yc.Token),
		User:         envStr("MERECHAT_USER", yc.User),
		PageSize:     envInt("MERECHAT_PAGE_SIZE", yc.PageSize),
		ListPageSize: envInt("MERECHAT_LIST_PAGE_SIZE", yc.ListPageSize),
		BackoffBase:  time.Duration(envInt("MERECHAT_BACKOFF_BASE_MS", yc.BackoffBaseMS)) * time.Millisecond,
		BackoffMax:   time.Duration(envInt("MERECHAT_BACKOFF_MAX_MS", yc.BackoffMaxMS)) * time.Millisecond,
		MaxSelection: envInt("MERECHAT_MAX_SELECTION", yc.MaxSelection),
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.ListPageSize <= 0 {
		cfg.ListPageSize = 20
	}
	return cfg
}

// envStr returns the environment value or fallback.
func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns the numeric environment value or fallback.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
