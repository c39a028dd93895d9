package cmd

import (
	"fmt"
	"os"

	adapterclock "github.com/renato0307/ferry/internal/adapters/clock"
	adapterprocess "github.com/renato0307/ferry/internal/adapters/process"
	adapterstorage "github.com/renato0307/ferry/internal/adapters/storage"
	"github.com/renato0307/ferry/internal/config"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/paths"
	"github.com/renato0307/ferry/internal/ports"
	"github.com/renato0307/ferry/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Runtime       config.Runtime
	ServerService *services.ServerService

	// Internal - for cleanup only
	serverRepo ports.ServerRepository
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(runtime config.Runtime) (*Container, error) {
	serverRepo, err := adapterstorage.NewSQLiteRepository(paths.GetDBPath())
	if err != nil {
		return nil, err
	}

	return &Container{
		Runtime:       runtime,
		ServerService: services.NewServerService(serverRepo, serverRepo, serverRepo),
		serverRepo:    serverRepo,
	}, nil
}

// NewOrchestrator wires an orchestrator spawning `ferry worker` subprocesses
func (c *Container) NewOrchestrator(
	notifier ports.Notifier,
	config services.OrchestratorConfig,
) (*services.Orchestrator, error) {
	spawner, err := c.newWorkerSpawner()
	if err != nil {
		return nil, err
	}
	config.AuthTimeout = c.Runtime.AuthTimeout
	config.IdleTimeout = c.Runtime.IdleTimeout
	return services.NewOrchestrator(
		spawner,
		c.ServerService,
		adapterclock.System{},
		notifier,
		config,
	), nil
}

func (c *Container) newWorkerSpawner() (*adapterprocess.ExecSpawner, error) {
	path := c.Runtime.WorkerPath
	args := []string{}
	if path == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate ferry executable: %w", err)
		}
		path = self
		args = append(args, "worker")
	}

	var env []string
	if c.Runtime.KnownHosts != "" {
		env = append(env, "FERRY_KNOWN_HOSTS="+c.Runtime.KnownHosts)
	}
	logging.Logger.Debug("Worker command", "path", path, "args", args)
	return adapterprocess.NewExecSpawner(path, args, env), nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.serverRepo != nil {
		return c.serverRepo.Close()
	}
	return nil
}
