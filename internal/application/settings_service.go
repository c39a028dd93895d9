package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/renato0307/ferry/internal/config"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/paths"
)

// SettingsService updates individual keys of settings.json
type SettingsService struct {
	load func() (*config.Settings, error)
	save func(*config.Settings) error
}

// NewSettingsService creates a SettingsService backed by $FERRY_HOME/settings.json
func NewSettingsService() *SettingsService {
	return &SettingsService{
		load: config.LoadSettings,
		save: config.SaveSettings,
	}
}

// Set parses value for key and saves the settings file. An empty value
// removes the key so the default applies again.
func (s *SettingsService) Set(key, value string) error {
	logging.Logger.Info("Updating setting", "key", key)

	settings, err := s.load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := apply(settings, key, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := s.save(settings); err != nil {
		logging.Logger.Error("Failed to save settings", "key", key, "error", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	logging.Logger.Info("Setting updated", "key", key)
	return nil
}

func apply(settings *config.Settings, key, value string) error {
	switch key {
	case "auth_timeout_seconds":
		return setPositiveInt(&settings.AuthTimeoutSeconds, key, value)
	case "idle_timeout_seconds":
		return setPositiveInt(&settings.IdleTimeoutSeconds, key, value)
	case "max_log_files":
		return setInt(&settings.MaxLogFiles, key, value)
	case "debug":
		if value == "" {
			settings.Debug = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		settings.Debug = &b
	case "known_hosts":
		settings.KnownHosts = expand(value)
	case "worker_path":
		settings.WorkerPath = expand(value)
	default:
		return fmt.Errorf("unknown setting '%s'. Valid settings: %s",
			key, strings.Join(config.SettingKeys(), ", "))
	}
	return nil
}

func setInt(dst **int, key, value string) error {
	if value == "" {
		*dst = nil
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("%s must be a non-negative number, got %q", key, value)
	}
	*dst = &n
	return nil
}

func setPositiveInt(dst **int, key, value string) error {
	if err := setInt(dst, key, value); err != nil {
		return err
	}
	if *dst != nil && **dst == 0 {
		*dst = nil
		return fmt.Errorf("%s must be greater than zero", key)
	}
	return nil
}

func expand(value string) string {
	if value == "" {
		return ""
	}
	return paths.ExpandPath(value)
}
