// Package host serves the line protocol editors use to drive ferry over
// stdin/stdout.
//
// Requests are one line each: upload <path>, remove <path>, cancel <id>,
// clear, queue, progress, status, disconnect and quit. Every request gets
// one reply line, "ok [payload]" or "error <message>". Notifications arrive
// asynchronously as "event <level> <message>" and finished operations as
// "done <id> ok" or "done <id> error <message>".
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/protocol"
)

// Request names
const (
	ReqCancel     = "cancel"
	ReqClear      = "clear"
	ReqDisconnect = "disconnect"
	ReqProgress   = "progress"
	ReqQueue      = "queue"
	ReqQuit       = "quit"
	ReqRemove     = "remove"
	ReqStatus     = "status"
	ReqUpload     = "upload"
)

// Orchestrator is the part of services.Orchestrator the host protocol drives
type Orchestrator interface {
	Cancel(ctx context.Context, id int64) (bool, error)
	ClearPending(ctx context.Context) (int, error)
	ConnectionStatus(ctx context.Context) (domain.ConnectionStatus, error)
	Disconnect(ctx context.Context) error
	Enqueue(ctx context.Context, kind domain.OperationKind, localPath, workingRoot string) (int64, error)
	Progress(ctx context.Context) (domain.Progress, error)
	Queue(ctx context.Context) ([]domain.Operation, error)
}

// Writer serialises whole lines onto an io.Writer shared by replies and
// asynchronous notifications
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a new Writer
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteLine writes line followed by a newline
func (w *Writer) WriteLine(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(w.out, line+"\n")
	return err
}

// Server reads requests and answers them
type Server struct {
	orchestrator Orchestrator
	out          *Writer
	workDir      string
}

// NewServer creates a new Server. Relative paths in requests are resolved
// against workDir.
func NewServer(orchestrator Orchestrator, out *Writer, workDir string) *Server {
	return &Server{
		orchestrator: orchestrator,
		out:          out,
		workDir:      workDir,
	}
}

// OnComplete reports a retired operation. It matches the
// services.OrchestratorConfig OnComplete hook.
func (s *Server) OnComplete(op domain.Operation, err error) {
	line := fmt.Sprintf("done %d ok", op.ID)
	if err != nil {
		line = fmt.Sprintf("done %d error %s", op.ID, oneLine(err.Error()))
	}
	s.write(line)
}

// Serve answers requests from in until quit, EOF or ctx cancellation
func (s *Server) Serve(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := s.handle(ctx, line); quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}

func (s *Server) handle(ctx context.Context, line string) bool {
	logging.Logger.Debug("Host request", "line", line)

	cmd, err := protocol.ParseCommand(line)
	if err != nil {
		s.reply(nil, fmt.Errorf("malformed request: %w", err))
		return false
	}

	switch {
	case (cmd.Name == ReqUpload || cmd.Name == ReqRemove) && len(cmd.Args) == 1:
		kind := domain.KindUpload
		if cmd.Name == ReqRemove {
			kind = domain.KindRemove
		}
		id, err := s.orchestrator.Enqueue(ctx, kind, s.absolute(cmd.Args[0]), "")
		s.reply(id, err)
	case cmd.Name == ReqCancel && len(cmd.Args) == 1:
		id, err := strconv.ParseInt(cmd.Args[0], 10, 64)
		if err != nil {
			s.reply(nil, fmt.Errorf("invalid operation id %q", cmd.Args[0]))
			return false
		}
		_, err = s.orchestrator.Cancel(ctx, id)
		s.reply(nil, err)
	case cmd.Name == ReqClear && len(cmd.Args) == 0:
		removed, err := s.orchestrator.ClearPending(ctx)
		s.reply(removed, err)
	case cmd.Name == ReqQueue && len(cmd.Args) == 0:
		queue, err := s.orchestrator.Queue(ctx)
		if queue == nil {
			queue = []domain.Operation{}
		}
		s.reply(queue, err)
	case cmd.Name == ReqProgress && len(cmd.Args) == 0:
		progress, err := s.orchestrator.Progress(ctx)
		s.reply(progress, err)
	case cmd.Name == ReqStatus && len(cmd.Args) == 0:
		status, err := s.orchestrator.ConnectionStatus(ctx)
		s.reply(status, err)
	case cmd.Name == ReqDisconnect && len(cmd.Args) == 0:
		s.reply(nil, s.orchestrator.Disconnect(ctx))
	case cmd.Name == ReqQuit && len(cmd.Args) == 0:
		s.reply(nil, nil)
		return true
	default:
		s.reply(nil, errors.New("unknown request or incorrect usage"))
	}
	return false
}

func (s *Server) absolute(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.workDir, p)
}

func (s *Server) reply(payload any, err error) {
	if err != nil {
		logging.Logger.Debug("Host request failed", "error", err)
		s.write("error " + oneLine(err.Error()))
		return
	}
	if payload == nil {
		s.write("ok")
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.write("error " + oneLine(err.Error()))
		return
	}
	s.write("ok " + string(data))
}

func (s *Server) write(line string) {
	if err := s.out.WriteLine(line); err != nil {
		logging.Logger.Error("Failed to write host reply", "error", err)
	}
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
