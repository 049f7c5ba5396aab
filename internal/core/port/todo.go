package port

import (
	"context"
	"time"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
)

// TodoRepository is the storage port for todos and their label associations.
// Search implements the fixed-precedence filter composition; it returns the
// matching page and the total count taken before sort/paginate.
type TodoRepository interface {
	Search(ctx context.Context, userID int, filter request.SearchFilterRequest, now time.Time) ([]domain.Todo, int, error)
	ListByUser(ctx context.Context, userID int, sortBy string, priority *int) ([]domain.Todo, error)
	ListAllByUser(ctx context.Context, userID int) ([]domain.Todo, error)
	ListByIDs(ctx context.Context, userID int, ids []int) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo, categoryIDs, tagIDs []int) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo, categoryIDs, tagIDs domain.Patch[[]int]) (domain.Todo, error)
	Delete(ctx context.Context, id, userID int) error

	BulkMarkComplete(ctx context.Context, userID int, ids []int, completed bool, now time.Time) (int, error)
	ReorderTodos(ctx context.Context, userID int, orders []request.TodoOrder, now time.Time) error
	ArchiveOldCompleted(ctx context.Context, userID int, cutoff, now time.Time) (int, error)

	// Reminder poller scans.
	ListDueReminders(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Todo, error)
	ClearReminder(ctx context.Context, todoID int) error
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Todo, error)
}
