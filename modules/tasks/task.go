// Package tasks implements the task board: creation, partial and bulk
// updates, and the order/lane model the frontend drag-and-drop relies on.
package tasks

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Task statuses. Order is only meaningful between tasks sharing a status
// lane; the board keeps one sequence per lane.
const (
	StatusTodo = "to-do"
	StatusDone = "done"
)

var (
	// ErrNotFound is returned when no task matches the id.
	ErrNotFound = errors.New("tasks: not found")
)

// ValidStatus reports whether s is a known lane.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusDone
}

// Task is one board item. Order carries the lane-relative position; no
// uniqueness is enforced on it, clients submit full lane snapshots to
// re-sequence.
type Task struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	OwnerID     string        `bson:"userId" json:"userId"`
	Title       string        `bson:"title,omitempty" json:"title,omitempty"`
	Description string        `bson:"description" json:"description"`
	Status      string        `bson:"status" json:"status"`
	Order       int           `bson:"order" json:"order"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Board is the listing response: both lanes, each sorted ascending by
// order before partitioning.
type Board struct {
	Todo []Task `json:"todo"`
	Done []Task `json:"done"`
}

// Patch is a partial task update. Nil fields are untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
	Order       *int
}

// BulkItem is one entry of a bulk snapshot update: the client resubmits
// every field, so the write replaces description, status, and order
// wholesale for the matched id.
type BulkItem struct {
	ID          string `json:"_id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Order       int    `json:"order"`
}
