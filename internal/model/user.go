package model

// User tracks per-owner state in the database store. Migrated records
// whether the one-time import of the user's local snapshot has completed;
// it flips from false to true exactly once and is never reset.
type User struct {
	ID       string `json:"id" db:"id"`
	Migrated bool   `json:"migrated" db:"migrated"`
}
