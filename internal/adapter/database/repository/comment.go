package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) port.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) commentSelect() sq.SelectBuilder {
	return r.db.Builder.Select(
		"tc.id", "tc.todo_id", "tc.user_id", "tc.comment", "tc.created_at", "tc.updated_at",
		"u.email", "u.first_name", "u.last_name",
	).
		From("todo_comments tc").
		Join("users u ON u.id = tc.user_id")
}

func (r *CommentRepository) Create(ctx context.Context, comment domain.TodoComment) (domain.TodoComment, error) {
	insertSQL, args, err := r.db.Builder.Insert("todo_comments").
		Columns("todo_id", "user_id", "comment", "created_at").
		Values(comment.TodoID, comment.UserID, comment.Comment, comment.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.TodoComment{}, err
	}

	if err := r.db.QueryRowContext(ctx, insertSQL, args...).Scan(&comment.ID); err != nil {
		return domain.TodoComment{}, err
	}

	return r.GetByID(ctx, comment.ID)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (domain.TodoComment, error) {
	querySQL, args, err := r.commentSelect().
		Where(sq.Eq{"tc.id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.TodoComment{}, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return domain.TodoComment{}, err
	}

	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.TodoComment{}, err
		}
		return domain.TodoComment{}, domain.NotFoundf("comment %d", id)
	}

	return scanComment(rows)
}

func (r *CommentRepository) Update(ctx context.Context, comment domain.TodoComment) (domain.TodoComment, error) {
	updateSQL, args, err := r.db.Builder.Update("todo_comments").
		Set("comment", comment.Comment).
		Set("updated_at", comment.UpdatedAt).
		Where(sq.Eq{"id": comment.ID}).
		ToSql()

	if err != nil {
		return domain.TodoComment{}, err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return domain.TodoComment{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.TodoComment{}, domain.NotFoundf("comment %d", comment.ID)
	}

	return r.GetByID(ctx, comment.ID)
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	deleteSQL, args, err := r.db.Builder.Delete("todo_comments").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, deleteSQL, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("comment %d", id)
	}

	return nil
}

// ListByTodo returns the thread oldest first.
func (r *CommentRepository) ListByTodo(ctx context.Context, todoID int) ([]domain.TodoComment, error) {
	querySQL, args, err := r.commentSelect().
		Where(sq.Eq{"tc.todo_id": todoID}).
		OrderBy("tc.created_at ASC", "tc.id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	comments := []domain.TodoComment{}

	for rows.Next() {
		comment, err := scanComment(rows)

		if err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func scanComment(rows *sql.Rows) (domain.TodoComment, error) {
	var (
		comment   domain.TodoComment
		updatedAt sql.NullTime
		firstName sql.NullString
		lastName  sql.NullString
	)

	err := rows.Scan(
		&comment.ID, &comment.TodoID, &comment.UserID, &comment.Comment,
		&comment.CreatedAt, &updatedAt,
		&comment.UserEmail, &firstName, &lastName,
	)

	if err != nil {
		return domain.TodoComment{}, err
	}

	comment.UpdatedAt = timePtr(updatedAt)
	comment.UserName = fullName(firstName.String, lastName.String)

	return comment, nil
}
