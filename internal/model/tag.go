package model

// Tag is a cross-cutting label attached to todos via a many-to-many link.
type Tag struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}
