package domain

import "time"

// Categories and tags are global labels, unique by name, attached to todos
// through join rows that cascade away with the todo.

type Category struct {
	ID          int
	Name        string `validate:"required,min=1,max=100"`
	Color       string `validate:"omitempty,hexcolor"`
	Description string `validate:"max=500"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Tag struct {
	ID          int
	Name        string `validate:"required,min=1,max=100"`
	Color       string `validate:"omitempty,hexcolor"`
	Description string `validate:"max=500"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

const DefaultLabelColor = "#000000"
