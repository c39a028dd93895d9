package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
	"github.com/renato0307/ferry/internal/protocol"
)

const eventBufferSize = 1024

var (
	errAuthTimeout  = errors.New("authentication timed out")
	errDisconnected = errors.New("disconnected before the session became ready")
)

type timerKind int

const (
	timerIdle timerKind = iota
	timerAuth
	timerKinds
)

func (k timerKind) String() string {
	switch k {
	case timerIdle:
		return "idle"
	case timerAuth:
		return "auth"
	default:
		return "unknown"
	}
}

type armedTimer struct {
	seq   uint64
	timer ports.Timer
}

// workerSession is the single worker slot
type workerSession struct {
	generation    uint64
	id            string
	intentional   bool
	phase         domain.Phase
	reachedActive bool
	// reconnect is set when work arrives while an intentional exit is pending
	reconnect     bool
	startedAt     time.Time
	target        *domain.Target
	worker        ports.Worker
}

// inFlight tracks the operation currently sent to the worker
type inFlight struct {
	op         domain.Operation
	remotePath string
	target     *domain.Target
}

// OrchestratorConfig holds the orchestrator tunables
type OrchestratorConfig struct {
	AuthTimeout time.Duration
	// DropQueueOnConnectFailure retires every queued operation with the
	// connection error when an attempt fails. One-shot hosts set it since
	// nothing would retry the queue.
	DropQueueOnConnectFailure bool
	IdleTimeout time.Duration
	// OnComplete is called on the event loop after an operation is retired.
	// It must not call back into the Orchestrator.
	OnComplete func(op domain.Operation, err error)
	// WorkingRoot is used to pick the server when the queue is empty
	WorkingRoot string
}

// Orchestrator owns the worker session and the operation queue. All state is
// touched only by the goroutine running Run.
type Orchestrator struct {
	clock    ports.Clock
	config   OrchestratorConfig
	notifier ports.Notifier
	resolver ports.TargetResolver
	spawner  ports.WorkerSpawner

	done   chan struct{}
	events chan func()

	// Owned by the event loop
	current    *inFlight
	generation uint64
	pending    []func(error)
	progress   domain.Progress
	queue      *Queue
	runCtx     context.Context
	session    *workerSession
	timerSeq   uint64
	timers     [timerKinds]armedTimer
}

// NewOrchestrator creates a new Orchestrator. Run must be called for any
// method to make progress.
func NewOrchestrator(
	spawner ports.WorkerSpawner,
	resolver ports.TargetResolver,
	clock ports.Clock,
	notifier ports.Notifier,
	config OrchestratorConfig,
) *Orchestrator {
	return &Orchestrator{
		clock:    clock,
		config:   config,
		done:     make(chan struct{}),
		events:   make(chan func(), eventBufferSize),
		notifier: notifier,
		progress: domain.EmptyProgress(),
		queue:    NewQueue(),
		resolver: resolver,
		runCtx:   context.Background(),
		spawner:  spawner,
	}
}

// Run processes events until ctx is cancelled. The worker, if any, is killed
// on return.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.done)
	o.runCtx = ctx
	logging.Logger.Info("Orchestrator started", "working_root", o.config.WorkingRoot)

	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			logging.Logger.Info("Orchestrator stopped")
			return nil
		case fn := <-o.events:
			fn()
		}
	}
}

// post schedules fn on the event loop without waiting for it
func (o *Orchestrator) post(fn func()) {
	select {
	case o.events <- fn:
	case <-o.done:
	}
}

// call runs fn on the event loop and waits for it to finish
func (o *Orchestrator) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case o.events <- func() { fn(); close(finished) }:
	case <-o.done:
		return domain.ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-o.done:
		return domain.ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue appends an operation and makes sure a worker is connecting or
// processing. Configuration errors and worker spawn failures are returned
// without queueing.
func (o *Orchestrator) Enqueue(ctx context.Context, kind domain.OperationKind, localPath, workingRoot string) (int64, error) {
	if workingRoot == "" {
		workingRoot = o.config.WorkingRoot
	}
	target, err := o.resolver.ResolveTarget(ctx, workingRoot)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve target for %s: %w", workingRoot, err)
	}
	if _, err := target.RemotePath(localPath); err != nil {
		return 0, err
	}

	var op domain.Operation
	var connectErr error
	err = o.call(ctx, func() {
		op = o.queue.Append(kind, localPath, workingRoot, o.clock.Now())
		logging.Logger.Info("Operation enqueued", "op_id", op.ID, "kind", op.Kind, "path", op.LocalPath)

		if s := o.session; s != nil && s.phase == domain.PhaseActive {
			if s.intentional {
				s.reconnect = true
				return
			}
			o.processNext()
			return
		}
		if o.session != nil {
			// A connection attempt is in flight; the item is sent once it is ready
			return
		}
		if err := o.ensureConnection(nil); err != nil {
			logging.Logger.Error("Failed to start worker", "op_id", op.ID, "error", err)
			o.notifier.Error(fmt.Sprintf("Failed to connect: %v", err))
			// Nothing will ever process the item
			_ = o.queue.Cancel(op.ID)
			connectErr = err
		}
	})
	if err != nil {
		return 0, err
	}
	if connectErr != nil {
		return 0, connectErr
	}
	return op.ID, nil
}

// EnsureConnection makes sure an active session exists. cb runs on the event
// loop once the session is active or the attempt fails; it is only scheduled
// when EnsureConnection returns nil and must not call back into the
// Orchestrator.
func (o *Orchestrator) EnsureConnection(ctx context.Context, cb func(error)) error {
	var result error
	err := o.call(ctx, func() {
		result = o.ensureConnection(cb)
	})
	if err != nil {
		return err
	}
	return result
}

// Cancel removes a queued operation that has not been sent to the worker
func (o *Orchestrator) Cancel(ctx context.Context, id int64) (bool, error) {
	var result error
	err := o.call(ctx, func() {
		result = o.queue.Cancel(id)
		if result == nil {
			logging.Logger.Info("Operation cancelled", "op_id", id)
		}
	})
	if err != nil {
		return false, err
	}
	return result == nil, result
}

// ClearPending removes every queued operation that is not in flight
func (o *Orchestrator) ClearPending(ctx context.Context) (int, error) {
	var removed int
	err := o.call(ctx, func() {
		removed = o.queue.ClearPending()
		logging.Logger.Info("Pending operations cleared", "count", removed)
	})
	return removed, err
}

// Queue returns a snapshot of the queued operations
func (o *Orchestrator) Queue(ctx context.Context) ([]domain.Operation, error) {
	var snapshot []domain.Operation
	err := o.call(ctx, func() {
		snapshot = o.queue.Snapshot()
	})
	return snapshot, err
}

// Progress returns the progress of the in-flight upload
func (o *Orchestrator) Progress(ctx context.Context) (domain.Progress, error) {
	progress := domain.EmptyProgress()
	err := o.call(ctx, func() {
		progress = o.progress
	})
	return progress, err
}

// ConnectionStatus reports whether the session is ready or connecting
func (o *Orchestrator) ConnectionStatus(ctx context.Context) (domain.ConnectionStatus, error) {
	status := domain.ConnectionStatus{Phase: domain.PhaseDisconnected}
	err := o.call(ctx, func() {
		if o.session == nil {
			return
		}
		status.Phase = o.session.phase
		status.Ready = o.session.phase == domain.PhaseActive
		status.Connecting = o.session.phase.Connecting()
	})
	return status, err
}

// Disconnect asks the worker to exit. Teardown happens when the worker exits.
func (o *Orchestrator) Disconnect(ctx context.Context) error {
	return o.call(ctx, func() {
		s := o.session
		if s == nil {
			return
		}
		logging.Logger.Info("Disconnect requested", "session_id", s.id, "phase", s.phase)
		s.intentional = true
		o.stopTimer(timerIdle)
		o.stopTimer(timerAuth)

		if s.phase != domain.PhaseActive {
			o.failPending(errDisconnected)
			o.killSession(s)
			return
		}
		if err := s.worker.Send(protocol.Exit()); err != nil {
			logging.Logger.Warn("Failed to send exit, killing worker", "session_id", s.id, "error", err)
			o.killSession(s)
		}
	})
}

func (o *Orchestrator) ensureConnection(cb func(error)) error {
	if s := o.session; s != nil {
		if s.phase == domain.PhaseActive && !s.intentional {
			if cb != nil {
				cb(nil)
			}
			o.armTimer(timerIdle, o.config.IdleTimeout, o.onIdleTimeout)
			return nil
		}
		return domain.ErrConnectionBusy
	}

	workingRoot := o.config.WorkingRoot
	if head, ok := o.queue.Head(); ok {
		workingRoot = head.WorkingRoot
	}
	target, err := o.resolver.ResolveTarget(o.runCtx, workingRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve target for %s: %w", workingRoot, err)
	}

	o.generation++
	generation := o.generation
	handler := ports.WorkerHandler{
		OnExit: func(err error) {
			o.post(func() { o.onWorkerExit(generation, err) })
		},
		OnLine: func(line string) {
			o.post(func() { o.onWorkerLine(generation, line) })
		},
	}

	worker, err := o.spawner.Spawn(o.runCtx, handler)
	if err != nil {
		return fmt.Errorf("failed to spawn worker: %w", err)
	}

	o.session = &workerSession{
		generation: generation,
		id:         uuid.NewString(),
		phase:      domain.PhaseAwaitingHost,
		startedAt:  o.clock.Now(),
		target:     target,
		worker:     worker,
	}
	if cb != nil {
		o.pending = append(o.pending, cb)
	}
	o.armTimer(timerAuth, o.config.AuthTimeout, o.onAuthTimeout)

	logging.Logger.Info("Worker spawned",
		"session_id", o.session.id,
		"pid", worker.PID(),
		"server", target.Server.Name,
		"remote", target.RemoteName)
	return nil
}

func (o *Orchestrator) onWorkerLine(generation uint64, line string) {
	s := o.session
	if s == nil || s.generation != generation {
		return
	}

	if s.phase != domain.PhaseActive {
		o.handleHandshakeLine(s, line)
		return
	}

	if p, ok := protocol.ParseProgress(line); ok {
		display := p.File
		if o.current != nil {
			display = o.current.target.DisplayPath(p.File)
		}
		o.progress = domain.Progress{File: display, Percent: p.Percent}
		return
	}

	status, ok := protocol.ParseStatus(line)
	if !ok {
		logging.Logger.Debug("Ignoring worker output", "session_id", s.id, "line", line)
		return
	}
	if !status.IsTerminal() {
		logging.Logger.Debug("Worker status", "session_id", s.id, "message", status.Message)
		return
	}
	o.completeCurrent(s, status)
}

func (o *Orchestrator) handleHandshakeLine(s *workerSession, line string) {
	server := s.target.Server
	creds := handshakeCredentials{
		Host:   server.Address(),
		Method: string(server.AuthMethod),
		Secret: server.Credential(),
		User:   server.User,
	}
	if creds.Method == "" {
		creds.Method = string(domain.AuthKey)
	}

	step := advanceHandshake(s.phase, line, creds)
	if step.Failure != "" {
		o.failAttempt(s, fmt.Errorf("authentication failed: %s", step.Failure))
		return
	}
	if step.Send {
		if err := s.worker.Send(step.Reply); err != nil {
			o.failAttempt(s, fmt.Errorf("failed to answer worker prompt: %w", err))
			return
		}
	}
	if step.Phase != s.phase {
		logging.Logger.Debug("Handshake advanced", "session_id", s.id, "from", s.phase, "to", step.Phase)
		s.phase = step.Phase
	}
	if step.Connected {
		o.onActive(s)
	}
}

func (o *Orchestrator) onActive(s *workerSession) {
	s.reachedActive = true
	o.stopTimer(timerAuth)
	logging.Logger.Info("Worker session active",
		"session_id", s.id,
		"server", s.target.Server.Name,
		"elapsed", o.clock.Now().Sub(s.startedAt))
	o.notifier.Info(fmt.Sprintf("Connected to %s", s.target.Server.Name))

	pending := o.pending
	o.pending = nil
	for _, cb := range pending {
		cb(nil)
	}

	o.armTimer(timerIdle, o.config.IdleTimeout, o.onIdleTimeout)
	o.processNext()
}

func (o *Orchestrator) completeCurrent(s *workerSession, status protocol.Status) {
	op, ok := o.queue.RetireHead()
	if !ok {
		if !status.OK {
			logging.Logger.Warn("Worker reported failure with nothing in flight", "session_id", s.id, "message", status.Message)
			o.notifier.Warn(status.Message)
		}
		return
	}

	display := op.LocalPath
	if o.current != nil {
		display = o.current.target.DisplayPath(o.current.remotePath)
	}
	o.current = nil
	o.progress = domain.EmptyProgress()

	var opErr error
	if status.OK {
		logging.Logger.Info("Operation completed", "session_id", s.id, "op_id", op.ID, "kind", op.Kind)
		o.notifier.Info(fmt.Sprintf("%s %s: %s", op.Kind, display, status.Message))
	} else {
		opErr = errors.New(status.Message)
		logging.Logger.Warn("Operation failed", "session_id", s.id, "op_id", op.ID, "kind", op.Kind, "message", status.Message)
		o.notifier.Error(fmt.Sprintf("%s %s failed: %s", op.Kind, display, status.Message))
	}
	if o.config.OnComplete != nil {
		o.config.OnComplete(op, opErr)
	}

	o.armTimer(timerIdle, o.config.IdleTimeout, o.onIdleTimeout)
	o.processNext()
}

// processNext sends the head of the queue to the worker. Heads that cannot be
// resolved are dropped and reported.
func (o *Orchestrator) processNext() {
	for {
		s := o.session
		if s == nil || s.phase != domain.PhaseActive || s.intentional {
			return
		}
		head, ok := o.queue.Head()
		if !ok || head.Processing {
			return
		}

		target, remotePath, err := o.resolveOperation(head)
		if err == nil && target.Server.Name != s.target.Server.Name {
			err = fmt.Errorf("server %q differs from connected server %q", target.Server.Name, s.target.Server.Name)
		}
		if err != nil {
			o.queue.DropHead()
			logging.Logger.Warn("Dropping operation", "op_id", head.ID, "error", err)
			o.notifier.Error(fmt.Sprintf("Dropped %s %s: %v", head.Kind, head.LocalPath, err))
			if o.config.OnComplete != nil {
				o.config.OnComplete(head, err)
			}
			continue
		}

		var line string
		switch head.Kind {
		case domain.KindUpload:
			line = protocol.Upload(head.LocalPath, remotePath)
		case domain.KindRemove:
			line = protocol.Remove(remotePath)
		}

		if err := o.queue.MarkHeadProcessing(); err != nil {
			return
		}
		o.current = &inFlight{op: head, remotePath: remotePath, target: target}
		logging.Logger.Info("Dispatching operation", "session_id", s.id, "op_id", head.ID, "command", line)
		if err := s.worker.Send(line); err != nil {
			// The exit event resets the head for resend
			logging.Logger.Error("Failed to send command", "session_id", s.id, "op_id", head.ID, "error", err)
		}
		return
	}
}

func (o *Orchestrator) resolveOperation(op domain.Operation) (*domain.Target, string, error) {
	target, err := o.resolver.ResolveTarget(o.runCtx, op.WorkingRoot)
	if err != nil {
		return nil, "", err
	}
	remotePath, err := target.RemotePath(op.LocalPath)
	if err != nil {
		return nil, "", err
	}
	return target, remotePath, nil
}

func (o *Orchestrator) onWorkerExit(generation uint64, exitErr error) {
	s := o.session
	if s == nil || s.generation != generation {
		return
	}

	logging.Logger.Info("Worker exited",
		"session_id", s.id,
		"phase", s.phase,
		"intentional", s.intentional,
		"error", exitErr)

	handshakeDeath := s.phase.Connecting()
	o.resetSession()

	if handshakeDeath {
		err := errors.New("worker exited during connection")
		if exitErr != nil {
			err = fmt.Errorf("worker exited during connection: %w", exitErr)
		}
		o.notifier.Error(err.Error())
		o.failPending(err)
		o.abandonQueue(err)
		return
	}

	if s.reconnect && o.queue.Len() > 0 {
		if err := o.ensureConnection(nil); err != nil {
			o.notifier.Error(fmt.Sprintf("Failed to connect: %v", err))
			o.abandonQueue(err)
		}
		return
	}
	if s.intentional || !s.reachedActive {
		return
	}

	o.notifier.Warn("Worker exited unexpectedly, reconnecting")
	if err := o.ensureConnection(nil); err != nil {
		logging.Logger.Error("Reconnect failed", "error", err)
		o.notifier.Error(fmt.Sprintf("Reconnect failed: %v", err))
		o.abandonQueue(err)
	}
}

func (o *Orchestrator) onIdleTimeout() {
	s := o.session
	if s == nil || s.phase != domain.PhaseActive || o.current != nil {
		return
	}
	logging.Logger.Info("Idle timeout, closing worker session", "session_id", s.id)
	s.intentional = true
	if err := s.worker.Send(protocol.Exit()); err != nil {
		logging.Logger.Warn("Failed to send exit, killing worker", "session_id", s.id, "error", err)
		o.killSession(s)
	}
}

func (o *Orchestrator) onAuthTimeout() {
	s := o.session
	if s == nil || s.phase == domain.PhaseActive {
		return
	}
	logging.Logger.Warn("Authentication timed out", "session_id", s.id, "phase", s.phase)
	o.notifier.Warn(errAuthTimeout.Error())
	s.intentional = true
	o.pending = nil
	o.killSession(s)
	o.abandonQueue(errAuthTimeout)
}

// failAttempt abandons a connection attempt before it became active
func (o *Orchestrator) failAttempt(s *workerSession, err error) {
	logging.Logger.Warn("Connection attempt failed", "session_id", s.id, "phase", s.phase, "error", err)
	s.intentional = true
	o.notifier.Error(err.Error())
	o.failPending(err)
	o.killSession(s)
	o.abandonQueue(err)
}

// abandonQueue retires every queued operation with err when the host asked
// for it. The session must already be reset so nothing is processing.
func (o *Orchestrator) abandonQueue(err error) {
	if !o.config.DropQueueOnConnectFailure {
		return
	}
	dropped := o.queue.Snapshot()
	o.queue.ClearPending()
	if len(dropped) > 0 {
		logging.Logger.Info("Queue abandoned after connection failure", "count", len(dropped), "error", err)
	}
	if o.config.OnComplete == nil {
		return
	}
	for _, op := range dropped {
		o.config.OnComplete(op, err)
	}
}

func (o *Orchestrator) failPending(err error) {
	pending := o.pending
	o.pending = nil
	for _, cb := range pending {
		cb(err)
	}
}

// killSession terminates the worker and clears the slot immediately
func (o *Orchestrator) killSession(s *workerSession) {
	if err := s.worker.Kill(); err != nil {
		logging.Logger.Debug("Failed to kill worker", "session_id", s.id, "error", err)
	}
	if o.session == s {
		o.resetSession()
	}
}

// resetSession returns the orchestrator to Disconnected
func (o *Orchestrator) resetSession() {
	o.stopTimer(timerIdle)
	o.stopTimer(timerAuth)
	o.session = nil
	o.current = nil
	o.progress = domain.EmptyProgress()
	o.queue.ResetProcessing()
}

func (o *Orchestrator) shutdown() {
	if s := o.session; s != nil {
		s.intentional = true
		o.failPending(domain.ErrNotRunning)
		o.killSession(s)
	}
}

// armTimer (re)schedules the timer of the given kind. A fire is ignored if the
// timer was re-armed or stopped, or the session was replaced, in between.
func (o *Orchestrator) armTimer(kind timerKind, d time.Duration, fire func()) {
	o.stopTimer(kind)
	if d <= 0 {
		return
	}
	o.timerSeq++
	seq := o.timerSeq
	generation := o.generation
	timer := o.clock.AfterFunc(d, func() {
		o.post(func() {
			if o.timers[kind].seq != seq || o.generation != generation {
				return
			}
			o.timers[kind] = armedTimer{}
			logging.Logger.Debug("Timer fired", "timer", kind)
			fire()
		})
	})
	o.timers[kind] = armedTimer{seq: seq, timer: timer}
}

func (o *Orchestrator) stopTimer(kind timerKind) {
	if t := o.timers[kind].timer; t != nil {
		t.Stop()
	}
	o.timers[kind] = armedTimer{}
}
