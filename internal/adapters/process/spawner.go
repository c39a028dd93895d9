package process

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
)

const maxLineSize = 1024 * 1024

// ExecSpawner starts workers as child processes speaking the line protocol
// on stdin/stdout
type ExecSpawner struct {
	args []string
	env  []string
	path string
}

// Compile-time interface verification
var _ ports.WorkerSpawner = (*ExecSpawner)(nil)

// NewExecSpawner creates a spawner running path with args. env is appended to
// the parent environment.
func NewExecSpawner(path string, args []string, env []string) *ExecSpawner {
	return &ExecSpawner{
		args: args,
		env:  env,
		path: path,
	}
}

// Spawn starts a worker. handler.OnLine receives each stdout line in order;
// handler.OnExit is called once, after both output streams are drained.
func (s *ExecSpawner) Spawn(ctx context.Context, handler ports.WorkerHandler) (ports.Worker, error) {
	cmd := exec.CommandContext(ctx, s.path, s.args...)
	cmd.Env = append(os.Environ(), s.env...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd.Process)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open worker stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open worker stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker %s: %w", s.path, err)
	}
	pid := cmd.Process.Pid
	logging.Logger.Debug("Worker process started", "pid", pid, "path", s.path)

	var g errgroup.Group
	g.Go(func() error {
		return scanLines(stdout, func(line string) {
			logging.Logger.Debug("Worker output", "pid", pid, "line", line)
			handler.OnLine(line)
		})
	})
	g.Go(func() error {
		return scanLines(stderr, func(line string) {
			logging.Logger.Debug("Worker stderr", "pid", pid, "line", line)
		})
	})

	go func() {
		pumpErr := g.Wait()
		err := cmd.Wait()
		if err == nil && pumpErr != nil {
			err = pumpErr
		}
		logging.Logger.Debug("Worker process exited", "pid", pid, "error", err)
		handler.OnExit(err)
	}()

	return &execWorker{cmd: cmd, stdin: stdin}, nil
}

func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// Drain so the child never blocks on a full pipe
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("failed to read worker output: %w", err)
	}
	return nil
}

// execWorker is a running child process
type execWorker struct {
	cmd   *exec.Cmd
	mu    sync.Mutex
	stdin io.WriteCloser
}

// Send writes one line to the worker's stdin
func (w *execWorker) Send(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.stdin, line+"\n"); err != nil {
		return fmt.Errorf("failed to write to worker: %w", err)
	}
	return nil
}

// Kill terminates the worker and its process group
func (w *execWorker) Kill() error {
	_ = w.stdin.Close()
	return killProcessGroup(w.cmd.Process)
}

// PID returns the worker process id
func (w *execWorker) PID() int {
	return w.cmd.Process.Pid
}
