package domain

import "time"

// FilterPreset is a saved search/filter request scoped to one user. The
// category and tag id lists are serialized as JSON text in the store, the
// same way the rest of the request round-trips through the API.
type FilterPreset struct {
	ID            int
	UserID        int
	Name          string `validate:"required,min=1,max=100"`
	SearchQuery   string
	IsCompleted   *bool
	IsOverdue     *bool
	Priority      *int
	CategoryIDs   []int
	TagIDs        []int
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	SortBy        string
	SortOrder     string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
