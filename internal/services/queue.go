package services

import (
	"fmt"
	"time"

	"github.com/renato0307/ferry/internal/domain"
)

// Queue is the FIFO of pending operations. Only the head may be processing.
// It is not safe for concurrent use; the orchestrator loop owns it.
type Queue struct {
	items  []domain.Operation
	nextID int64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{nextID: 1}
}

// Append adds an operation at the tail and returns it with its assigned ID
func (q *Queue) Append(kind domain.OperationKind, localPath, workingRoot string, now time.Time) domain.Operation {
	op := domain.Operation{
		CreatedAt:   now,
		ID:          q.nextID,
		Kind:        kind,
		LocalPath:   localPath,
		WorkingRoot: workingRoot,
	}
	q.nextID++
	q.items = append(q.items, op)
	return op
}

// Len returns the number of queued operations
func (q *Queue) Len() int {
	return len(q.items)
}

// Head returns the first operation
func (q *Queue) Head() (domain.Operation, bool) {
	if len(q.items) == 0 {
		return domain.Operation{}, false
	}
	return q.items[0], true
}

// MarkHeadProcessing flags the head as in flight
func (q *Queue) MarkHeadProcessing() error {
	if len(q.items) == 0 {
		return fmt.Errorf("queue is empty")
	}
	q.items[0].Processing = true
	return nil
}

// RetireHead removes the head if it is processing and returns it
func (q *Queue) RetireHead() (domain.Operation, bool) {
	if len(q.items) == 0 || !q.items[0].Processing {
		return domain.Operation{}, false
	}
	op := q.items[0]
	q.items = q.items[1:]
	return op, true
}

// DropHead removes the head regardless of its processing flag
func (q *Queue) DropHead() (domain.Operation, bool) {
	if len(q.items) == 0 {
		return domain.Operation{}, false
	}
	op := q.items[0]
	q.items = q.items[1:]
	return op, true
}

// Cancel removes a non-processing operation by ID
func (q *Queue) Cancel(id int64) error {
	for i, op := range q.items {
		if op.ID != id {
			continue
		}
		if op.Processing {
			return fmt.Errorf("cancel %d: %w", id, domain.ErrOperationProcessing)
		}
		q.items = append(q.items[:i], q.items[i+1:]...)
		return nil
	}
	return fmt.Errorf("cancel %d: %w", id, domain.ErrOperationNotFound)
}

// ClearPending removes every non-processing operation and returns how many
// were removed
func (q *Queue) ClearPending() int {
	kept := q.items[:0]
	removed := 0
	for _, op := range q.items {
		if op.Processing {
			kept = append(kept, op)
			continue
		}
		removed++
	}
	// Release references held past the new length
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = domain.Operation{}
	}
	q.items = kept
	return removed
}

// ResetProcessing clears the processing flag on every operation
func (q *Queue) ResetProcessing() {
	for i := range q.items {
		q.items[i].Processing = false
	}
}

// Snapshot returns a copy of the queued operations in order
func (q *Queue) Snapshot() []domain.Operation {
	out := make([]domain.Operation, len(q.items))
	copy(out, q.items)
	return out
}
