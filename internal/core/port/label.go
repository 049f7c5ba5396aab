package port

import (
	"context"

	"todohub/internal/core/domain"
)

// LabelKind selects which of the two structurally identical label tables a
// repository call touches.
type LabelKind string

const (
	LabelCategory LabelKind = "category"
	LabelTag      LabelKind = "tag"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int) (domain.Category, error)
	GetByName(ctx context.Context, name string) (domain.Category, error)
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id int) error
	// FilterExistingIDs drops ids that do not reference a stored category.
	FilterExistingIDs(ctx context.Context, ids []int) ([]int, error)
}

type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int) (domain.Tag, error)
	GetByName(ctx context.Context, name string) (domain.Tag, error)
	Create(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	Update(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	Delete(ctx context.Context, id int) error
	FilterExistingIDs(ctx context.Context, ids []int) ([]int, error)
}
