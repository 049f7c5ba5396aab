package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

type ActivityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) port.ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, activity domain.TodoActivity) error {
	insertSQL, args, err := r.db.Builder.Insert("todo_activities").
		Columns("todo_id", "user_id", "activity_type", "description", "related_user_id", "created_at").
		Values(activity.TodoID, activity.UserID, activity.Type.String(), activity.Description, activity.RelatedUserID, activity.CreatedAt).
		ToSql()

	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertSQL, args...)

	return err
}

// ListByTodo returns the trail newest first, with actor and related-user
// display fields joined in.
func (r *ActivityRepository) ListByTodo(ctx context.Context, todoID int) ([]domain.TodoActivity, error) {
	querySQL, args, err := r.db.Builder.Select(
		"ta.id", "ta.todo_id", "ta.user_id", "ta.activity_type", "ta.description",
		"ta.related_user_id", "ta.created_at",
		"u.email", "u.first_name", "u.last_name",
		"ru.email", "ru.first_name", "ru.last_name",
	).
		From("todo_activities ta").
		Join("users u ON u.id = ta.user_id").
		LeftJoin("users ru ON ru.id = ta.related_user_id").
		Where(sq.Eq{"ta.todo_id": todoID}).
		OrderBy("ta.created_at DESC", "ta.id DESC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	activities := []domain.TodoActivity{}

	for rows.Next() {
		var (
			a                domain.TodoActivity
			activityType     string
			description      sql.NullString
			relatedUserID    sql.NullInt64
			firstName        sql.NullString
			lastName         sql.NullString
			relatedEmail     sql.NullString
			relatedFirstName sql.NullString
			relatedLastName  sql.NullString
		)

		err := rows.Scan(
			&a.ID, &a.TodoID, &a.UserID, &activityType, &description,
			&relatedUserID, &a.CreatedAt,
			&a.UserEmail, &firstName, &lastName,
			&relatedEmail, &relatedFirstName, &relatedLastName,
		)

		if err != nil {
			return nil, err
		}

		a.Type = parseActivityType(activityType)
		a.Description = description.String
		a.UserName = fullName(firstName.String, lastName.String)
		a.RelatedUserEmail = relatedEmail.String
		a.RelatedUserName = fullName(relatedFirstName.String, relatedLastName.String)

		if relatedUserID.Valid {
			id := int(relatedUserID.Int64)
			a.RelatedUserID = &id
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func parseActivityType(name string) domain.ActivityType {
	for t := domain.ActivityCreated; t <= domain.ActivityPermissionChanged; t++ {
		if t.String() == name {
			return t
		}
	}

	return domain.ActivityUpdated
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
