package tasks

import (
	"context"
	"log/slog"

	"github.com/gfschwingel/coppers/pkg/logger"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Service is the ordering engine: it owns the lane/order semantics and
// treats the Store as the sole arbiter of consistency. Bulk updates are
// applied without cross-item atomicity, so concurrent snapshots resolve
// to last-writer-wins per task.
type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Create adds a task at the top of the to-do lane with order zero. The
// client is expected to re-sequence the lane through UpdateBulk
// afterward.
func (s *Service) Create(ctx context.Context, ownerID, description string) (*Task, error) {
	if err := validator.Apply(validator.Required("description", description)); err != nil {
		return nil, err
	}

	t := &Task{
		OwnerID:     ownerID,
		Description: description,
		Status:      StatusTodo,
		Order:       0,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.log.Debug("task created",
		slog.String("task_id", t.ID.Hex()),
		slog.String("user_id", ownerID),
		logger.Component("tasks"),
	)
	return t, nil
}

// ListAll returns the owner's board: tasks sorted ascending by order,
// then partitioned into the two lanes. Ties in order are possible after
// partial bulk updates and are surfaced in store sequence, deliberately
// unspecified beyond that.
func (s *Service) ListAll(ctx context.Context, ownerID string) (*Board, error) {
	all, err := s.store.FindAllSorted(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	board := &Board{
		Todo: make([]Task, 0, len(all)),
		Done: make([]Task, 0),
	}
	for _, t := range all {
		switch t.Status {
		case StatusDone:
			board.Done = append(board.Done, t)
		default:
			board.Todo = append(board.Todo, t)
		}
	}
	return board, nil
}

// UpdateOne applies a partial update to a single task. Clearing the
// description or moving to an unknown lane is rejected.
func (s *Service) UpdateOne(ctx context.Context, id string, patch Patch) (*Task, error) {
	var rules []validator.Rule
	if patch.Description != nil {
		rules = append(rules, validator.Required("description", *patch.Description))
	}
	if patch.Status != nil {
		rules = append(rules, validator.OneOf("status", *patch.Status, StatusTodo, StatusDone))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	return s.store.UpdateByID(ctx, id, patch)
}

// UpdateBulk applies a client-computed snapshot of order/status/description
// values, one conditional write per item. Items naming unknown ids are
// skipped without failing the batch; the returned count reflects only
// matched writes.
func (s *Service) UpdateBulk(ctx context.Context, items []BulkItem) (int64, error) {
	applied, err := s.store.BulkUpdate(ctx, items)
	if err != nil {
		return 0, err
	}

	if applied < int64(len(items)) {
		s.log.Debug("bulk update skipped missing tasks",
			slog.Int("submitted", len(items)),
			slog.Int64("applied", applied),
			logger.Component("tasks"),
		)
	}
	return applied, nil
}

// DeleteOne removes a single task by id.
func (s *Service) DeleteOne(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// DeleteByStatus clears one of the owner's lanes and returns how many
// tasks were removed. An already-empty lane yields zero, not an error.
func (s *Service) DeleteByStatus(ctx context.Context, ownerID, status string) (int64, error) {
	if err := validator.Apply(validator.OneOf("status", status, StatusTodo, StatusDone)); err != nil {
		return 0, err
	}
	return s.store.DeleteByStatus(ctx, ownerID, status)
}
