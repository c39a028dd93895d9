package domain

import (
	"fmt"
	"time"
)

// OperationKind identifies what the worker does for a queued operation
type OperationKind string

const (
	KindRemove OperationKind = "remove"
	KindUpload OperationKind = "upload"
)

// ParseOperationKind converts a user supplied string to an OperationKind
func ParseOperationKind(s string) (OperationKind, error) {
	switch OperationKind(s) {
	case KindUpload, KindRemove:
		return OperationKind(s), nil
	default:
		return "", fmt.Errorf("unknown operation kind %q", s)
	}
}

// Operation is a queued transfer request (domain entity).
// Only the head of the queue may have Processing set.
type Operation struct {
	CreatedAt   time.Time     `json:"created_at"`
	ID          int64         `json:"id"`
	Kind        OperationKind `json:"kind"`
	LocalPath   string        `json:"local_path"`
	Processing  bool          `json:"processing"`
	WorkingRoot string        `json:"working_root"`
}
