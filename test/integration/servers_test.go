package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ferry/test/integration/harness"
)

func addServer(t *testing.T, env *harness.TestEnvironment, name string, extra ...string) {
	t.Helper()
	args := append([]string{"servers", "add", name,
		"--host", "example.com",
		"--user", "deploy",
		"--key-path", "/keys/id_ed25519",
	}, extra...)
	harness.AssertSuccess(t, harness.RunCommand(t, env, args...))
}

func TestServers(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T, env *harness.TestEnvironment)
		args         []string
		wantExitCode int
		validate     func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult)
	}{
		{
			name:         "list empty",
			args:         []string{"servers", "list"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "Total: 0 servers")
			},
		},
		{
			name: "list shows remotes",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				addServer(t, env, "prod", "--remote", "app=/srv/app", "--remote", "docs=/srv/docs")
			},
			args:         []string{"servers", "list"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "example.com:22")
				harness.AssertStdoutContains(t, result, "app=/srv/app,docs=/srv/docs")
			},
		},
		{
			name: "list json hides password",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				harness.AssertSuccess(t, harness.RunCommand(t, env, "servers", "add", "pw",
					"--host", "example.com", "--user", "deploy", "--auth", "password", "--password", "hunter2"))
			},
			args:         []string{"servers", "list", "--format", "json"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				var servers []map[string]any
				harness.AssertValidJSON(t, result, &servers)
				require.Len(t, servers, 1)
				assert.Equal(t, "********", servers[0]["Password"])
			},
		},
		{
			name:         "add without user fails",
			args:         []string{"servers", "add", "broken", "--host", "example.com"},
			wantExitCode: 1,
		},
		{
			name:         "add relative remote fails",
			args:         []string{"servers", "add", "broken", "--host", "h", "--user", "u", "--remote", "app=srv/app"},
			wantExitCode: 1,
		},
		{
			name:         "delete unknown server fails",
			args:         []string{"servers", "del", "nope"},
			wantExitCode: 1,
		},
		{
			name: "delete server",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				addServer(t, env, "prod")
			},
			args:         []string{"servers", "del", "prod"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				list := harness.RunCommand(t, env, "servers", "list")
				harness.AssertStdoutContains(t, list, "Total: 0 servers")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)
			if tt.setup != nil {
				tt.setup(t, env)
			}

			result := harness.RunCommand(t, env, tt.args...)

			harness.AssertExitCode(t, result, tt.wantExitCode)
			if tt.validate != nil {
				tt.validate(t, env, result)
			}
		})
	}
}

func TestServers_ExportImport(t *testing.T) {
	source := harness.NewTestEnvironment(t)
	addServer(t, source, "prod", "--remote", "app=/srv/app", "--port", "2222")
	exportPath := filepath.Join(t.TempDir(), "servers.yaml")

	harness.AssertSuccess(t, harness.RunCommand(t, source, "servers", "export", exportPath))
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: prod")

	target := harness.NewTestEnvironment(t)
	result := harness.RunCommand(t, target, "servers", "import", exportPath)
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Imported 1 of 1 servers")

	list := harness.RunCommand(t, target, "servers", "list")
	harness.AssertStdoutContains(t, list, "example.com:2222")
	harness.AssertStdoutContains(t, list, "app=/srv/app")
}

func TestRemotesAndSelection(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	addServer(t, env, "prod")

	harness.AssertFailure(t, harness.RunCommand(t, env, "use", "prod", "app"))
	harness.AssertSuccess(t, harness.RunCommand(t, env, "remotes", "add", "prod", "app", "/srv/app"))

	result := harness.RunCommand(t, env, "use", "prod", "app")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, env.ProjectDir+" -> prod:app")

	mappings := harness.RunCommand(t, env, "mappings", "--format", "json")
	harness.AssertSuccess(t, mappings)
	var rows []map[string]any
	harness.AssertValidJSON(t, mappings, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, env.ProjectDir, rows[0]["WorkingRoot"])

	// Deleting the remote drops the selection that uses it
	harness.AssertSuccess(t, harness.RunCommand(t, env, "remotes", "del", "prod", "app"))
	mappings = harness.RunCommand(t, env, "mappings", "--format", "json")
	harness.AssertSuccess(t, mappings)
	rows = nil
	harness.AssertValidJSON(t, mappings, &rows)
	assert.Empty(t, rows)
}
