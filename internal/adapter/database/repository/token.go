package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

type RefreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) port.RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token domain.RefreshToken) (domain.RefreshToken, error) {
	insertSQL, args, err := r.db.Builder.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at", "created_at").
		Values(token.UserID, token.Token, token.ExpiresAt, token.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.RefreshToken{}, err
	}

	if err := r.db.QueryRowContext(ctx, insertSQL, args...).Scan(&token.ID); err != nil {
		return domain.RefreshToken{}, err
	}

	return token, nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, value string) (domain.RefreshToken, error) {
	querySQL, args, err := r.db.Builder.
		Select("id", "user_id", "token", "expires_at", "created_at", "revoked_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": value}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.RefreshToken{}, err
	}

	var (
		token     domain.RefreshToken
		revokedAt sql.NullTime
	)

	err = r.db.QueryRowContext(ctx, querySQL, args...).Scan(
		&token.ID, &token.UserID, &token.Token, &token.ExpiresAt, &token.CreatedAt, &revokedAt,
	)

	if err != nil {
		return domain.RefreshToken{}, notFoundOr(err, domain.NotFoundf("refresh token"))
	}

	token.RevokedAt = timePtr(revokedAt)

	return token, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int, revokedAt time.Time) error {
	updateSQL, args, err := r.db.Builder.Update("refresh_tokens").
		Set("revoked_at", revokedAt).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("refresh token %d", id)
	}

	return nil
}
