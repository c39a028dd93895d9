package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/renato0307/ferry/internal/config"
	"github.com/renato0307/ferry/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Mappings MappingsCmd `cmd:"mappings" help:"List working-root selections"`
	Push     PushCmd     `cmd:"push" help:"Upload files or directories and wait for completion"`
	Remotes  RemotesCmd  `cmd:"remotes" help:"Manage remote base paths of a server"`
	Rm       RmCmd       `cmd:"rm" help:"Delete remote counterparts of local paths"`
	Run      RunCmd      `cmd:"run" help:"Serve the editor line protocol on stdin/stdout"`
	Serve    ServeCmd    `cmd:"serve" help:"Start a development SFTP server"`
	Servers  ServersCmd  `cmd:"servers" help:"Manage servers (list, add, del, import, export)"`
	Settings SettingsCmd `cmd:"settings" help:"Show or change settings.json"`
	Unuse    UnuseCmd    `cmd:"unuse" help:"Clear the server selection of the current directory"`
	Use      UseCmd      `cmd:"use" help:"Select the server and remote for the current directory"`
	Worker   WorkerCmd   `cmd:"worker" help:"Run the transfer worker on stdin/stdout" hidden:""`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	runtime   config.Runtime   `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults.
	// A setting only applies while the flag is at its default and no env var is set.
	if c.settings != nil {
		if c.MaxLogFiles == logging.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("FERRY_MAX_LOG_FILES"); !hasEnv && c.settings.MaxLogFiles != nil {
				c.MaxLogFiles = *c.settings.MaxLogFiles
			}
		}
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("FERRY_DEBUG"); !hasEnv && c.settings.Debug != nil && *c.settings.Debug {
				c.Debug = true
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Workers inherit these and append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("FERRY_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("FERRY_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv("FERRY_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	c.runtime = config.Resolve(c.settings, env)
	logging.Logger.Debug("Runtime configuration",
		"auth_timeout", c.runtime.AuthTimeout,
		"idle_timeout", c.runtime.IdleTimeout,
		"known_hosts", c.runtime.KnownHosts,
		"worker_path", c.runtime.WorkerPath)

	return nil
}

// container opens the state database on first use. Commands that do not
// touch configuration (worker, serve) never open it.
func (c *CLI) container() (*Container, error) {
	if c.Container != nil {
		return c.Container, nil
	}
	container, err := NewContainer(c.runtime)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container
	return container, nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
