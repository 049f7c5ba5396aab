package port

import (
	"context"

	"todohub/internal/core/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.TodoComment) (domain.TodoComment, error)
	GetByID(ctx context.Context, id int) (domain.TodoComment, error)
	Update(ctx context.Context, comment domain.TodoComment) (domain.TodoComment, error)
	Delete(ctx context.Context, id int) error
	ListByTodo(ctx context.Context, todoID int) ([]domain.TodoComment, error)
}
