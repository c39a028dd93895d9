package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/ports"
	portsmocks "github.com/renato0307/ferry/internal/ports/mocks"
	"github.com/renato0307/ferry/internal/protocol"
)

const (
	testAuthTimeout = 30 * time.Second
	testIdleTimeout = 5 * time.Minute
)

type completion struct {
	err error
	op  domain.Operation
}

type orchestratorHarness struct {
	cancel    context.CancelFunc
	clock     *fakeClock
	completed chan completion
	ctx       context.Context
	notifier  *recordingNotifier
	o         *Orchestrator
	runDone   chan struct{}
	spawner   *fakeSpawner
}

func projTarget() *domain.Target {
	return &domain.Target{
		MappingRoot: "/proj",
		RemoteBase:  "/srv/app",
		RemoteName:  "r1",
		Server: domain.Server{
			AuthMethod: domain.AuthKey,
			Host:       "example.com",
			KeyPath:    "/keys/id_ed25519",
			Name:       "s1",
			User:       "deploy",
		},
	}
}

func newProjResolver(t *testing.T) *portsmocks.MockTargetResolver {
	resolver := portsmocks.NewMockTargetResolver(t)
	resolver.EXPECT().ResolveTarget(mock.Anything, "/proj").Return(projTarget(), nil)
	return resolver
}

func newHarness(t *testing.T, resolver ports.TargetResolver, configure ...func(*OrchestratorConfig)) *orchestratorHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := &orchestratorHarness{
		cancel:    cancel,
		clock:     newFakeClock(),
		completed: make(chan completion, 16),
		ctx:       ctx,
		notifier:  &recordingNotifier{},
		runDone:   make(chan struct{}),
		spawner:   &fakeSpawner{},
	}
	config := OrchestratorConfig{
		AuthTimeout: testAuthTimeout,
		IdleTimeout: testIdleTimeout,
		OnComplete: func(op domain.Operation, err error) {
			h.completed <- completion{op: op, err: err}
		},
		WorkingRoot: "/proj",
	}
	for _, fn := range configure {
		fn(&config)
	}
	h.o = NewOrchestrator(h.spawner, resolver, h.clock, h.notifier, config)
	go func() {
		defer close(h.runDone)
		_ = h.o.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-h.runDone
	})
	return h
}

// sync waits until every previously posted event has been handled
func (h *orchestratorHarness) sync(t *testing.T) {
	t.Helper()
	_, err := h.o.ConnectionStatus(h.ctx)
	require.NoError(t, err)
}

func (h *orchestratorHarness) handshake(t *testing.T, w *fakeWorker) {
	t.Helper()
	w.Emit(
		protocol.PromptHost,
		protocol.PromptUser,
		protocol.PromptAuthMethod,
		protocol.PromptKeyPath,
		protocol.FormatStatus(true, protocol.ConnectedMessage("example.com:22", "deploy")),
	)
	h.sync(t)
}

func (h *orchestratorHarness) status(t *testing.T) domain.ConnectionStatus {
	t.Helper()
	status, err := h.o.ConnectionStatus(h.ctx)
	require.NoError(t, err)
	return status
}

func (h *orchestratorHarness) queue(t *testing.T) []domain.Operation {
	t.Helper()
	q, err := h.o.Queue(h.ctx)
	require.NoError(t, err)
	return q
}

func (h *orchestratorHarness) enqueue(t *testing.T, kind domain.OperationKind, localPath string) int64 {
	t.Helper()
	id, err := h.o.Enqueue(h.ctx, kind, localPath, "/proj")
	require.NoError(t, err)
	return id
}

func TestOrchestrator_UploadScenario(t *testing.T) {
	h := newHarness(t, newProjResolver(t))

	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	require.Equal(t, 1, h.spawner.Count())
	assert.True(t, h.status(t).Connecting)

	w := h.spawner.Worker(0)
	h.handshake(t, w)

	assert.Equal(t, []string{
		"example.com:22",
		"deploy",
		"key",
		"/keys/id_ed25519",
		"upload /proj/a.txt /srv/app/a.txt",
	}, w.Sent())
	status := h.status(t)
	assert.True(t, status.Ready)
	assert.False(t, status.Connecting)

	q := h.queue(t)
	require.Len(t, q, 1)
	assert.True(t, q[0].Processing)

	w.Emit("PROGRESS|/srv/app/a.txt|42")
	progress, err := h.o.Progress(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{File: "a.txt", Percent: 42}, progress)

	w.Emit("1|Upload succeeded")
	progress, err = h.o.Progress(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyProgress(), progress)
	assert.Empty(t, h.queue(t))

	done := <-h.completed
	assert.NoError(t, done.err)
	assert.Equal(t, "/proj/a.txt", done.op.LocalPath)
}

func TestOrchestrator_DispatchesNextAfterCompletion(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	h.enqueue(t, domain.KindRemove, "/proj/old dir")

	w := h.spawner.Worker(0)
	h.handshake(t, w)
	assert.Equal(t, "upload /proj/a.txt /srv/app/a.txt", w.LastSent())

	q := h.queue(t)
	require.Len(t, q, 2)
	assert.True(t, q[0].Processing)
	assert.False(t, q[1].Processing)

	w.Emit("1|Upload succeeded")
	h.sync(t)

	assert.Equal(t, "remove '/srv/app/old dir'", w.LastSent())
	q = h.queue(t)
	require.Len(t, q, 1)
	assert.True(t, q[0].Processing)
	assert.Equal(t, domain.KindRemove, q[0].Kind)
}

func TestOrchestrator_FailureStatusRetiresWithoutRetry(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	w := h.spawner.Worker(0)
	h.handshake(t, w)

	w.Emit("0|Failed to open local file: /proj/a.txt")
	h.sync(t)

	assert.Empty(t, h.queue(t))
	done := <-h.completed
	require.Error(t, done.err)
	assert.Contains(t, done.err.Error(), "Failed to open local file")
	assert.Len(t, h.notifier.Errors(), 1)
	assert.True(t, h.status(t).Ready, "a failed operation keeps the session")
	assert.Len(t, w.Sent(), 5, "nothing is resent")
}

func TestOrchestrator_IgnoresNonTerminalStatusWhileActive(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	w := h.spawner.Worker(0)
	h.handshake(t, w)

	w.Emit("some stray chatter", "1|Exiting shell")
	h.sync(t)

	q := h.queue(t)
	require.Len(t, q, 1)
	assert.True(t, q[0].Processing)
}

func TestOrchestrator_CancelSemantics(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	a := h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	b := h.enqueue(t, domain.KindUpload, "/proj/b.txt")
	c := h.enqueue(t, domain.KindUpload, "/proj/c.txt")
	h.handshake(t, h.spawner.Worker(0))

	ok, err := h.o.Cancel(h.ctx, a)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrOperationProcessing)

	ok, err = h.o.Cancel(h.ctx, b)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = h.o.Cancel(h.ctx, 99)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrOperationNotFound)

	q := h.queue(t)
	require.Len(t, q, 2)
	assert.Equal(t, a, q[0].ID)
	assert.Equal(t, c, q[1].ID)
}

func TestOrchestrator_ClearPendingKeepsInFlight(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	a := h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	h.enqueue(t, domain.KindUpload, "/proj/b.txt")
	h.enqueue(t, domain.KindUpload, "/proj/c.txt")
	h.handshake(t, h.spawner.Worker(0))

	removed, err := h.o.ClearPending(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	q := h.queue(t)
	require.Len(t, q, 1)
	assert.Equal(t, a, q[0].ID)
}

func TestOrchestrator_CrashRequeuesAndReconnects(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	h.enqueue(t, domain.KindUpload, "/proj/b.txt")
	h.enqueue(t, domain.KindUpload, "/proj/c.txt")
	first := h.spawner.Worker(0)
	h.handshake(t, first)
	require.Equal(t, "upload /proj/a.txt /srv/app/a.txt", first.LastSent())

	first.Exit(errors.New("exit status 1"))
	h.sync(t)

	q := h.queue(t)
	require.Len(t, q, 3)
	for _, op := range q {
		assert.False(t, op.Processing)
	}
	require.Equal(t, 2, h.spawner.Count(), "a new worker is spawned automatically")
	assert.Contains(t, h.notifier.Warns(), "Worker exited unexpectedly, reconnecting")
	assert.True(t, h.status(t).Connecting)

	second := h.spawner.Worker(1)
	h.handshake(t, second)
	assert.Equal(t, "upload /proj/a.txt /srv/app/a.txt", second.LastSent())
	q = h.queue(t)
	assert.True(t, q[0].Processing)
}

func TestOrchestrator_IdleTimeoutSendsExit(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	ready := make(chan error, 1)
	require.NoError(t, h.o.EnsureConnection(h.ctx, func(err error) { ready <- err }))
	w := h.spawner.Worker(0)
	h.handshake(t, w)
	require.NoError(t, <-ready)

	h.clock.Advance(testIdleTimeout)
	h.sync(t)
	assert.Equal(t, protocol.Exit(), w.LastSent())

	w.Emit("1|Exiting shell", "1|Session closed")
	w.Exit(nil)
	h.sync(t)

	assert.Equal(t, domain.PhaseDisconnected, h.status(t).Phase)
	assert.Equal(t, 1, h.spawner.Count(), "an idle teardown does not reconnect")
	assert.Empty(t, h.notifier.Warns())
}

func TestOrchestrator_CompletionRearmsIdleTimer(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	w := h.spawner.Worker(0)
	h.handshake(t, w)

	h.clock.Advance(4 * time.Minute)
	h.sync(t)
	w.Emit("1|Upload succeeded")
	h.sync(t)

	h.clock.Advance(2 * time.Minute)
	h.sync(t)
	assert.NotEqual(t, protocol.Exit(), w.LastSent())

	h.clock.Advance(3 * time.Minute)
	h.sync(t)
	assert.Equal(t, protocol.Exit(), w.LastSent())
}

func TestOrchestrator_IdleTimerIgnoredWhileProcessing(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/big.iso")
	w := h.spawner.Worker(0)
	h.handshake(t, w)

	h.clock.Advance(testIdleTimeout)
	h.sync(t)

	assert.Equal(t, "upload /proj/big.iso /srv/app/big.iso", w.LastSent())
	assert.True(t, h.status(t).Ready)
}

func TestOrchestrator_AuthTimeoutDropsCallbacks(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	called := make(chan error, 1)
	require.NoError(t, h.o.EnsureConnection(h.ctx, func(err error) { called <- err }))
	w := h.spawner.Worker(0)
	w.Emit(protocol.PromptHost)
	h.sync(t)

	h.clock.Advance(testAuthTimeout)
	h.sync(t)

	assert.True(t, w.Killed())
	assert.Equal(t, domain.PhaseDisconnected, h.status(t).Phase)
	assert.Contains(t, h.notifier.Warns(), "authentication timed out")
	select {
	case err := <-called:
		t.Fatalf("callback must not be invoked, got %v", err)
	default:
	}
	assert.Equal(t, 1, h.spawner.Count())
}

func TestOrchestrator_AuthTimerCancelledOnceActive(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	require.NoError(t, h.o.EnsureConnection(h.ctx, nil))
	w := h.spawner.Worker(0)
	h.handshake(t, w)

	h.clock.Advance(testAuthTimeout)
	h.sync(t)

	assert.False(t, w.Killed())
	assert.True(t, h.status(t).Ready)
}

func TestOrchestrator_AuthFailureKeepsQueue(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	result := make(chan error, 1)
	require.NoError(t, h.o.EnsureConnection(h.ctx, func(err error) { result <- err }))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	require.Equal(t, 1, h.spawner.Count())

	w := h.spawner.Worker(0)
	w.Emit(protocol.PromptHost, protocol.PromptUser, protocol.PromptAuthMethod, protocol.PromptKeyPath)
	w.Emit("0|Authentication failed")
	h.sync(t)

	err := <-result
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
	assert.True(t, w.Killed())
	assert.Equal(t, domain.PhaseDisconnected, h.status(t).Phase)
	assert.Equal(t, 1, h.spawner.Count(), "an authentication failure is not retried")

	q := h.queue(t)
	require.Len(t, q, 1)
	assert.False(t, q[0].Processing)
}

func TestOrchestrator_WorkerDeathDuringHandshakeFailsAttempt(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	result := make(chan error, 1)
	require.NoError(t, h.o.EnsureConnection(h.ctx, func(err error) { result <- err }))
	w := h.spawner.Worker(0)
	w.Emit(protocol.PromptHost)
	w.Exit(errors.New("exit status 1"))
	h.sync(t)

	assert.Error(t, <-result)
	assert.Equal(t, 1, h.spawner.Count())
	assert.Equal(t, domain.PhaseDisconnected, h.status(t).Phase)
}

func TestOrchestrator_SecondAttemptIsBusy(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	require.NoError(t, h.o.EnsureConnection(h.ctx, nil))

	err := h.o.EnsureConnection(h.ctx, nil)

	assert.ErrorIs(t, err, domain.ErrConnectionBusy)
	assert.Equal(t, 1, h.spawner.Count())
}

func TestOrchestrator_EnsureConnectionWhenActive(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	require.NoError(t, h.o.EnsureConnection(h.ctx, nil))
	h.handshake(t, h.spawner.Worker(0))

	called := make(chan error, 1)
	require.NoError(t, h.o.EnsureConnection(h.ctx, func(err error) { called <- err }))

	assert.NoError(t, <-called)
	assert.Equal(t, 1, h.spawner.Count())
}

func TestOrchestrator_DisconnectIsIntentional(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	w := h.spawner.Worker(0)
	h.handshake(t, w)

	require.NoError(t, h.o.Disconnect(h.ctx))
	assert.Equal(t, protocol.Exit(), w.LastSent())

	w.Exit(nil)
	h.sync(t)

	assert.Equal(t, 1, h.spawner.Count())
	q := h.queue(t)
	require.Len(t, q, 1)
	assert.False(t, q[0].Processing)
}

func TestOrchestrator_DisconnectWhileConnectingKills(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	result := make(chan error, 1)
	require.NoError(t, h.o.EnsureConnection(h.ctx, func(err error) { result <- err }))
	w := h.spawner.Worker(0)

	require.NoError(t, h.o.Disconnect(h.ctx))

	assert.True(t, w.Killed())
	assert.Error(t, <-result)
	assert.Equal(t, domain.PhaseDisconnected, h.status(t).Phase)
}

func TestOrchestrator_EnqueueAfterIdleExitReconnects(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	require.NoError(t, h.o.EnsureConnection(h.ctx, nil))
	first := h.spawner.Worker(0)
	h.handshake(t, first)

	h.clock.Advance(testIdleTimeout)
	h.sync(t)
	require.Equal(t, protocol.Exit(), first.LastSent())

	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	assert.Equal(t, protocol.Exit(), first.LastSent(), "nothing is sent to an exiting worker")

	first.Exit(nil)
	h.sync(t)
	require.Equal(t, 2, h.spawner.Count())

	second := h.spawner.Worker(1)
	h.handshake(t, second)
	assert.Equal(t, "upload /proj/a.txt /srv/app/a.txt", second.LastSent())
}

func TestOrchestrator_EnqueueConfigurationErrors(t *testing.T) {
	resolver := portsmocks.NewMockTargetResolver(t)
	resolver.EXPECT().ResolveTarget(mock.Anything, "/proj").Return(projTarget(), nil)
	resolver.EXPECT().ResolveTarget(mock.Anything, "/unmapped").
		Return(nil, domain.ErrNoServerSelected)
	h := newHarness(t, resolver)

	_, err := h.o.Enqueue(h.ctx, domain.KindUpload, "/unmapped/a.txt", "/unmapped")
	assert.ErrorIs(t, err, domain.ErrNoServerSelected)

	_, err = h.o.Enqueue(h.ctx, domain.KindUpload, "/elsewhere/a.txt", "/proj")
	assert.ErrorIs(t, err, domain.ErrPathOutsideRoot)

	assert.Empty(t, h.queue(t))
	assert.Equal(t, 0, h.spawner.Count())
}

func TestOrchestrator_DropsOperationForOtherServer(t *testing.T) {
	other := &domain.Target{
		MappingRoot: "/other",
		RemoteBase:  "/var/www",
		RemoteName:  "web",
		Server:      domain.Server{Name: "s2", Host: "other.example.com", User: "web"},
	}
	resolver := newProjResolver(t)
	resolver.EXPECT().ResolveTarget(mock.Anything, "/other").Return(other, nil)
	h := newHarness(t, resolver)

	h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	_, err := h.o.Enqueue(h.ctx, domain.KindUpload, "/other/b.txt", "/other")
	require.NoError(t, err)

	w := h.spawner.Worker(0)
	h.handshake(t, w)
	w.Emit("1|Upload succeeded")
	h.sync(t)

	first := <-h.completed
	assert.NoError(t, first.err)
	dropped := <-h.completed
	require.Error(t, dropped.err)
	assert.Equal(t, "/other/b.txt", dropped.op.LocalPath)
	assert.Empty(t, h.queue(t))
	assert.Len(t, w.Sent(), 5)
}

func TestOrchestrator_SpawnFailureIsReported(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	h.spawner.err = errors.New("executable not found")

	err := h.o.EnsureConnection(h.ctx, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to spawn worker")
	assert.Equal(t, domain.PhaseDisconnected, h.status(t).Phase)
}

func TestOrchestrator_EnqueueSpawnFailureDropsOperation(t *testing.T) {
	spawner := &fakeSpawner{err: errors.New("executable not found")}
	notifier := portsmocks.NewMockNotifier(t)
	notifier.EXPECT().Error(mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "executable not found")
	})).Once()
	o := NewOrchestrator(spawner, newProjResolver(t), newFakeClock(), notifier, OrchestratorConfig{
		AuthTimeout: testAuthTimeout,
		IdleTimeout: testIdleTimeout,
		WorkingRoot: "/proj",
	})
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = o.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-runDone
	})

	id, err := o.Enqueue(ctx, domain.KindUpload, "/proj/a.txt", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to spawn worker")
	assert.Zero(t, id)
	q, err := o.Queue(ctx)
	require.NoError(t, err)
	assert.Empty(t, q)
	status, err := o.ConnectionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseDisconnected, status.Phase)
}

func TestOrchestrator_AuthFailureDropsQueueWhenConfigured(t *testing.T) {
	h := newHarness(t, newProjResolver(t), func(c *OrchestratorConfig) {
		c.DropQueueOnConnectFailure = true
	})
	first := h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	second := h.enqueue(t, domain.KindRemove, "/proj/old")

	w := h.spawner.Worker(0)
	w.Emit(protocol.PromptHost, protocol.PromptUser, protocol.PromptAuthMethod, protocol.PromptKeyPath)
	w.Emit("0|Authentication failed")
	h.sync(t)

	var retired []int64
	for range 2 {
		c := <-h.completed
		require.Error(t, c.err)
		assert.Contains(t, c.err.Error(), "authentication failed")
		retired = append(retired, c.op.ID)
	}
	assert.Equal(t, []int64{first, second}, retired)
	assert.Empty(t, h.queue(t))
	assert.True(t, w.Killed())
	assert.Equal(t, 1, h.spawner.Count())
}

func TestOrchestrator_AuthTimeoutDropsQueueWhenConfigured(t *testing.T) {
	h := newHarness(t, newProjResolver(t), func(c *OrchestratorConfig) {
		c.DropQueueOnConnectFailure = true
	})
	id := h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	h.spawner.Worker(0).Emit(protocol.PromptHost)
	h.sync(t)

	h.clock.Advance(testAuthTimeout)
	h.sync(t)

	c := <-h.completed
	assert.Equal(t, id, c.op.ID)
	assert.ErrorIs(t, c.err, errAuthTimeout)
	assert.Empty(t, h.queue(t))
}

func TestOrchestrator_HandshakeDeathDropsQueueWhenConfigured(t *testing.T) {
	h := newHarness(t, newProjResolver(t), func(c *OrchestratorConfig) {
		c.DropQueueOnConnectFailure = true
	})
	id := h.enqueue(t, domain.KindUpload, "/proj/a.txt")
	h.spawner.Worker(0).Exit(errors.New("exit status 1"))
	h.sync(t)

	c := <-h.completed
	assert.Equal(t, id, c.op.ID)
	require.Error(t, c.err)
	assert.Contains(t, c.err.Error(), "worker exited during connection")
	assert.Empty(t, h.queue(t))
}

func TestOrchestrator_StopKillsWorker(t *testing.T) {
	h := newHarness(t, newProjResolver(t))
	require.NoError(t, h.o.EnsureConnection(h.ctx, nil))
	w := h.spawner.Worker(0)

	h.cancel()
	<-h.runDone

	assert.True(t, w.Killed())
	_, err := h.o.Queue(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotRunning)
}
