package tasks

import "time"

// Task is a todo item owned by exactly one user. The owner is stamped
// from the request identity at creation time and checked on every
// subsequent operation.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
