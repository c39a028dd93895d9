package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/renato0307/ferry/internal/paths"
)

// Defaults applied when neither flags, environment nor settings.json set a value
const (
	DefaultAuthTimeout = 30 * time.Second
	DefaultIdleTimeout = 5 * time.Minute
)

// Settings represents the structure of $FERRY_HOME/settings.json
type Settings struct {
	AuthTimeoutSeconds *int   `json:"auth_timeout_seconds,omitempty"`
	Debug              *bool  `json:"debug,omitempty"`
	IdleTimeoutSeconds *int   `json:"idle_timeout_seconds,omitempty"`
	KnownHosts         string `json:"known_hosts,omitempty"`
	MaxLogFiles        *int   `json:"max_log_files,omitempty"`
	WorkerPath         string `json:"worker_path,omitempty"`
}

// Env holds FERRY_* environment overrides
type Env struct {
	AuthTimeout time.Duration `envconfig:"AUTH_TIMEOUT"`
	IdleTimeout time.Duration `envconfig:"IDLE_TIMEOUT"`
	KnownHosts  string        `envconfig:"KNOWN_HOSTS"`
	WorkerPath  string        `envconfig:"WORKER_PATH"`
}

// Runtime is the effective configuration of the orchestrator and worker
type Runtime struct {
	AuthTimeout time.Duration
	IdleTimeout time.Duration
	KnownHosts  string
	WorkerPath  string
}

// LoadSettings loads settings from $FERRY_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	path := paths.GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.WorkerPath != "" {
		settings.WorkerPath = paths.ExpandPath(settings.WorkerPath)
	}
	if settings.KnownHosts != "" {
		settings.KnownHosts = paths.ExpandPath(settings.KnownHosts)
	}

	return &settings, nil
}

// SaveSettings saves settings to $FERRY_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := paths.GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// LoadEnv reads FERRY_* overrides from the environment
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("ferry", &env); err != nil {
		return nil, fmt.Errorf("invalid FERRY_* environment: %w", err)
	}
	return &env, nil
}

// Resolve merges settings and environment with precedence env > settings > defaults
func Resolve(settings *Settings, env *Env) Runtime {
	rt := Runtime{
		AuthTimeout: DefaultAuthTimeout,
		IdleTimeout: DefaultIdleTimeout,
	}

	if settings != nil {
		if settings.AuthTimeoutSeconds != nil && *settings.AuthTimeoutSeconds > 0 {
			rt.AuthTimeout = time.Duration(*settings.AuthTimeoutSeconds) * time.Second
		}
		if settings.IdleTimeoutSeconds != nil && *settings.IdleTimeoutSeconds > 0 {
			rt.IdleTimeout = time.Duration(*settings.IdleTimeoutSeconds) * time.Second
		}
		rt.KnownHosts = settings.KnownHosts
		rt.WorkerPath = settings.WorkerPath
	}

	if env != nil {
		if env.AuthTimeout > 0 {
			rt.AuthTimeout = env.AuthTimeout
		}
		if env.IdleTimeout > 0 {
			rt.IdleTimeout = env.IdleTimeout
		}
		if env.KnownHosts != "" {
			rt.KnownHosts = paths.ExpandPath(env.KnownHosts)
		}
		if env.WorkerPath != "" {
			rt.WorkerPath = paths.ExpandPath(env.WorkerPath)
		}
	}

	return rt
}
