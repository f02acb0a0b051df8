package domain

import "time"

type Project struct {
	ID          string
	Name        string
	Description string
	Members     []string // user ids, deduplicated at write time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectUpdate is a partial update. Nil fields are left untouched.
// The id, creator and creation time are deliberately not expressible
// here; update payloads cannot overwrite them.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Members     []string // nil means unchanged; empty is invalid
}
