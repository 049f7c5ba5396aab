package port

import (
	"context"
	"time"

	"todohub/internal/core/domain"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token domain.RefreshToken) (domain.RefreshToken, error)
	GetByToken(ctx context.Context, token string) (domain.RefreshToken, error)
	Revoke(ctx context.Context, id int, revokedAt time.Time) error
}
