package models

import "time"

// Exam is the database row for a stored exam. Sections holds the full
// section tree serialized as JSON; the documents are always read and
// written whole, so there is nothing to gain from normalizing them.
type Exam struct {
	ID        string    `db:"id"` // ULID
	Title     string    `db:"title"`
	Subject   string    `db:"subject"`
	Sections  string    `db:"sections"` // JSON array of sections
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
