package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

type ShareRepository struct {
	db    *database.DB
	todos *TodoRepository
}

func NewShareRepository(db *database.DB) port.ShareRepository {
	return &ShareRepository{db: db, todos: &TodoRepository{db: db}}
}

// shareSelect joins both sides of the grant so responses can show names
// without extra lookups.
func (r *ShareRepository) shareSelect() sq.SelectBuilder {
	return r.db.Builder.Select(
		"ts.id", "ts.todo_id", "ts.shared_with_user_id", "ts.shared_by_user_id",
		"ts.permission", "ts.is_assigned", "ts.created_at", "ts.updated_at",
		"sw.email", "sw.first_name", "sw.last_name", "sb.email",
	).
		From("todo_shares ts").
		Join("users sw ON sw.id = ts.shared_with_user_id").
		Join("users sb ON sb.id = ts.shared_by_user_id")
}

func (r *ShareRepository) Create(ctx context.Context, share domain.TodoShare) (domain.TodoShare, error) {
	insertSQL, args, err := r.db.Builder.Insert("todo_shares").
		Columns("todo_id", "shared_with_user_id", "shared_by_user_id", "permission", "is_assigned", "created_at").
		Values(share.TodoID, share.SharedWithUserID, share.SharedByUserID, share.Permission.String(), share.IsAssigned, share.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.TodoShare{}, err
	}

	if err := r.db.QueryRowContext(ctx, insertSQL, args...).Scan(&share.ID); err != nil {
		return domain.TodoShare{}, err
	}

	return r.GetByTodoAndUser(ctx, share.TodoID, share.SharedWithUserID)
}

func (r *ShareRepository) GetByTodoAndUser(ctx context.Context, todoID, userID int) (domain.TodoShare, error) {
	querySQL, args, err := r.shareSelect().
		Where(sq.Eq{"ts.todo_id": todoID, "ts.shared_with_user_id": userID}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.TodoShare{}, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return domain.TodoShare{}, err
	}

	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.TodoShare{}, err
		}
		return domain.TodoShare{}, domain.NotFoundf("share on todo %d for user %d", todoID, userID)
	}

	return scanShare(rows)
}

func (r *ShareRepository) UpdatePermission(ctx context.Context, todoID, userID int, permission domain.SharePermission) error {
	updateSQL, args, err := r.db.Builder.Update("todo_shares").
		Set("permission", permission.String()).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"todo_id": todoID, "shared_with_user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("share on todo %d for user %d", todoID, userID)
	}

	return nil
}

func (r *ShareRepository) Delete(ctx context.Context, todoID, userID int) error {
	deleteSQL, args, err := r.db.Builder.Delete("todo_shares").
		Where(sq.Eq{"todo_id": todoID, "shared_with_user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, deleteSQL, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("share on todo %d for user %d", todoID, userID)
	}

	return nil
}

func (r *ShareRepository) ListByTodo(ctx context.Context, todoID int) ([]domain.TodoShare, error) {
	querySQL, args, err := r.shareSelect().
		Where(sq.Eq{"ts.todo_id": todoID}).
		OrderBy("ts.created_at ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	shares := []domain.TodoShare{}

	for rows.Next() {
		share, err := scanShare(rows)

		if err != nil {
			return nil, err
		}

		shares = append(shares, share)
	}

	return shares, rows.Err()
}

func (r *ShareRepository) ListTodosSharedWith(ctx context.Context, userID int) ([]domain.Todo, error) {
	cols := make([]string, 0, len(todoColumns))

	for _, c := range todoColumns {
		cols = append(cols, "todos."+c)
	}

	querySQL, args, err := r.db.Builder.Select(cols...).
		From("todos").
		Join("todo_shares ts ON ts.todo_id = todos.id").
		Where(sq.Eq{"ts.shared_with_user_id": userID}).
		OrderBy("ts.created_at DESC").
		ToSql()

	if err != nil {
		return nil, err
	}

	todos, err := r.todos.queryTodos(ctx, querySQL, args)

	if err != nil {
		return nil, err
	}

	if err := r.todos.attachLabels(ctx, todos); err != nil {
		return nil, err
	}

	return todos, nil
}

func scanShare(rows *sql.Rows) (domain.TodoShare, error) {
	var (
		share      domain.TodoShare
		permission string
		updatedAt  sql.NullTime
		firstName  sql.NullString
		lastName   sql.NullString
	)

	err := rows.Scan(
		&share.ID, &share.TodoID, &share.SharedWithUserID, &share.SharedByUserID,
		&permission, &share.IsAssigned, &share.CreatedAt, &updatedAt,
		&share.SharedWithEmail, &firstName, &lastName, &share.SharedByEmail,
	)

	if err != nil {
		return domain.TodoShare{}, err
	}

	share.Permission, err = domain.ParsePermission(permission)

	if err != nil {
		return domain.TodoShare{}, err
	}

	share.UpdatedAt = timePtr(updatedAt)
	share.SharedWithName = fullName(firstName.String, lastName.String)

	return share, nil
}
