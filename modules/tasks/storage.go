package tasks

import "context"

// Store is the task persistence boundary.
type Store interface {
	// FindAllSorted returns the owner's tasks ordered ascending by the
	// order field.
	FindAllSorted(ctx context.Context, ownerID string) ([]Task, error)
	Insert(ctx context.Context, t *Task) error
	// UpdateByID applies the patch and returns the updated task, or
	// ErrNotFound when the id matches nothing.
	UpdateByID(ctx context.Context, id string, patch Patch) (*Task, error)
	// BulkUpdate applies every item independently and returns how many
	// matched an existing task. Items referencing unknown ids are
	// skipped, not errors: the batch is at-least-effort by contract.
	BulkUpdate(ctx context.Context, items []BulkItem) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByStatus removes the owner's tasks in the given lane and
	// returns the removed count. Zero is a valid result.
	DeleteByStatus(ctx context.Context, ownerID, status string) (int64, error)
}
