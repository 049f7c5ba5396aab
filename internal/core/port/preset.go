package port

import (
	"context"

	"todohub/internal/core/domain"
)

type PresetRepository interface {
	ListByUser(ctx context.Context, userID int) ([]domain.FilterPreset, error)
	GetByID(ctx context.Context, id, userID int) (domain.FilterPreset, error)
	Create(ctx context.Context, preset domain.FilterPreset) (domain.FilterPreset, error)
	Update(ctx context.Context, preset domain.FilterPreset) (domain.FilterPreset, error)
	Delete(ctx context.Context, id, userID int) error
}
