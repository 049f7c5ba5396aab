package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

var userColumns = []string{
	"id", "email", "encrypted_password", "first_name", "last_name", "theme", "created_at", "updated_at",
}

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	insertSQL, args, err := r.db.Builder.Insert("users").
		Columns("email", "encrypted_password", "first_name", "last_name", "theme", "created_at").
		Values(user.Email, user.EncryptedPassword, user.FirstName, user.LastName, user.Theme, user.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if err := r.db.QueryRowContext(ctx, insertSQL, args...).Scan(&user.ID); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id}, domain.NotFoundf("user %d", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email}, domain.NotFoundf("user %s", email))
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updateSQL, args, err := r.db.Builder.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("theme", user.Theme).
		Set("updated_at", user.UpdatedAt).
		Where(sq.Eq{"id": user.ID}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return domain.User{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.User{}, domain.NotFoundf("user %d", user.ID)
	}

	return user, nil
}

func (r *UserRepository) getBy(ctx context.Context, pred sq.Eq, notFound error) (domain.User, error) {
	querySQL, args, err := r.db.Builder.Select(userColumns...).
		From("users").
		Where(pred).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var (
		user      domain.User
		firstName sql.NullString
		lastName  sql.NullString
		theme     sql.NullString
		updatedAt sql.NullTime
	)

	err = r.db.QueryRowContext(ctx, querySQL, args...).Scan(
		&user.ID, &user.Email, &user.EncryptedPassword,
		&firstName, &lastName, &theme, &user.CreatedAt, &updatedAt,
	)

	if err != nil {
		return domain.User{}, notFoundOr(err, notFound)
	}

	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.Theme = theme.String
	user.UpdatedAt = timePtr(updatedAt)

	return user, nil
}
