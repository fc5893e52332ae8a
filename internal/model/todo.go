package model

import "time"

// Todo is a single task item. In the database store it is owned by exactly
// one user; in the local store it belongs to the single on-disk snapshot.
type Todo struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Completed  bool      `json:"completed" db:"completed"`
	CategoryID *string   `json:"category_id,omitempty" db:"category_id"`
	Position   int       `json:"-" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Tags holds the ids of the tags attached to this todo. Populated from
	// the todo_tags join table in the database store.
	Tags []string `json:"tags" db:"-"`
}

// HasTag reports whether the todo carries the given tag id.
func (t Todo) HasTag(tagID string) bool {
	for _, id := range t.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}
