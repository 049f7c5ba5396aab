package domain

import "time"

type TodoComment struct {
	ID        int
	TodoID    int
	UserID    int
	Comment   string `validate:"required,min=1,max=2000"`
	CreatedAt time.Time
	UpdatedAt *time.Time

	// Display fields joined in by the repository.
	UserEmail string
	UserName  string
}
