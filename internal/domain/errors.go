package domain

import "errors"

var (
	ErrConnectionBusy      = errors.New("connection attempt already in progress")
	ErrNoServerSelected    = errors.New("no server selected for working root")
	ErrNotRunning          = errors.New("orchestrator is not running")
	ErrOperationNotFound   = errors.New("operation not found")
	ErrOperationProcessing = errors.New("operation is being processed")
	ErrPathOutsideRoot     = errors.New("path is outside the working root")
	ErrRemoteNotFound      = errors.New("remote not found")
	ErrServerNotFound      = errors.New("server not found")
)
