package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ferry/test/integration/harness"
)

func TestSettingsMeta(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantExitCode int
		validate     func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult)
	}{
		{
			name:         "table format (default)",
			args:         []string{"settings"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "Settings file: "+filepath.Join(env.FerryHome, "settings.json"))
				harness.AssertStdoutContains(t, result, "idle_timeout_seconds")
			},
		},
		{
			name:         "json format",
			args:         []string{"settings", "meta", "--format", "json"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				var output map[string]any
				harness.AssertValidJSON(t, result, &output)
				assert.Contains(t, output, "settings_file")
				assert.Contains(t, output, "format")
			},
		},
		{
			name:         "set unknown key",
			args:         []string{"settings", "set", "colour", "blue"},
			wantExitCode: 1,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStderrContains(t, result, "unknown setting 'colour'")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)

			result := harness.RunCommand(t, env, tt.args...)

			harness.AssertExitCode(t, result, tt.wantExitCode)
			if tt.validate != nil {
				tt.validate(t, env, result)
			}
		})
	}
}

func TestSettingsSet_WritesFile(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "settings", "set", "idle_timeout_seconds", "90")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Set 'idle_timeout_seconds' to: 90")

	data, err := os.ReadFile(filepath.Join(env.FerryHome, "settings.json"))
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Equal(t, float64(90), settings["idle_timeout_seconds"])

	harness.AssertSuccess(t, harness.RunCommand(t, env, "settings", "set", "idle_timeout_seconds"))
	data, err = os.ReadFile(filepath.Join(env.FerryHome, "settings.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "idle_timeout_seconds")
}
