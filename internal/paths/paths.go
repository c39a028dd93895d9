package paths

import (
	"os"
	"path/filepath"
)

// GetFerryHome returns $FERRY_HOME or ~/.ferry
func GetFerryHome() string {
	ferryHome := os.Getenv("FERRY_HOME")
	if ferryHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".ferry"
		}
		return filepath.Join(homeDir, ".ferry")
	}
	return ExpandPath(ferryHome)
}

// GetDBPath returns $FERRY_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetFerryHome(), "state.db")
}

// GetSettingsPath returns $FERRY_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetFerryHome(), "settings.json")
}

// GetSSHDir returns $FERRY_HOME/ssh, where the development server keeps its host key
func GetSSHDir() string {
	return filepath.Join(GetFerryHome(), "ssh")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
