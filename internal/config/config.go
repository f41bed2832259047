package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded from the environment. A .env
// file in the working directory is honored when present.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs and validates operator bearer tokens.
	JWTSecret string

	// ChainEndpoints maps a chain key (e.g. "wax") to its asset API base URL.
	ChainEndpoints map[string]string

	IpfsURL    string
	IpfsAPIKey string

	// Post-success redirect tuning.
	ConfirmDelay time.Duration
	PollInterval time.Duration
	PollRetries  int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set externally.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         8080,
		DBPath:       "templatepress.db",
		JWTSecret:    os.Getenv("JWT_SECRET"),
		IpfsURL:      os.Getenv("IPFS_API_URL"),
		IpfsAPIKey:   os.Getenv("IPFS_API_KEY"),
		ConfirmDelay: 3 * time.Second,
		PollInterval: time.Second,
		PollRetries:  5,
	}

	if port := os.Getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = parsed
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if delay := os.Getenv("CONFIRM_DELAY"); delay != "" {
		parsed, err := time.ParseDuration(delay)
		if err != nil {
			return nil, fmt.Errorf("invalid CONFIRM_DELAY %q: %w", delay, err)
		}
		cfg.ConfirmDelay = parsed
	}
	if interval := os.Getenv("POLL_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", interval, err)
		}
		cfg.PollInterval = parsed
	}
	if retries := os.Getenv("POLL_RETRIES"); retries != "" {
		parsed, err := strconv.Atoi(retries)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_RETRIES %q: %w", retries, err)
		}
		cfg.PollRetries = parsed
	}

	endpoints, err := parseChainEndpoints(os.Getenv("CHAIN_ENDPOINTS"))
	if err != nil {
		return nil, err
	}
	cfg.ChainEndpoints = endpoints

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.IpfsURL == "" {
		return nil, fmt.Errorf("IPFS_API_URL is required")
	}
	if len(cfg.ChainEndpoints) == 0 {
		return nil, fmt.Errorf("CHAIN_ENDPOINTS is required (e.g. \"wax=https://wax.api.atomicassets.io\")")
	}

	return cfg, nil
}

// parseChainEndpoints parses "key=url,key=url" pairs.
func parseChainEndpoints(raw string) (map[string]string, error) {
	endpoints := make(map[string]string)
	if raw == "" {
		return endpoints, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		key, url, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || key == "" || url == "" {
			return nil, fmt.Errorf("invalid CHAIN_ENDPOINTS entry %q", pair)
		}
		endpoints[key] = url
	}
	return endpoints, nil
}
