package port

import (
	"context"

	"todohub/internal/core/domain"
)

type ShareRepository interface {
	Create(ctx context.Context, share domain.TodoShare) (domain.TodoShare, error)
	GetByTodoAndUser(ctx context.Context, todoID, userID int) (domain.TodoShare, error)
	UpdatePermission(ctx context.Context, todoID, userID int, permission domain.SharePermission) error
	Delete(ctx context.Context, todoID, userID int) error
	ListByTodo(ctx context.Context, todoID int) ([]domain.TodoShare, error)
	// ListTodosSharedWith returns the todos shared with the user, each loaded
	// with its categories and tags.
	ListTodosSharedWith(ctx context.Context, userID int) ([]domain.Todo, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, activity domain.TodoActivity) error
	ListByTodo(ctx context.Context, todoID int) ([]domain.TodoActivity, error)
}
