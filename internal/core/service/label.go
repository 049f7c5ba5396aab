package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/port"
)

// LabelService covers both label vocabularies. Categories and tags share
// structure and rules but live in separate tables, so the service keeps the
// two repositories side by side instead of merging them.
type LabelService struct {
	categories port.CategoryRepository
	tags       port.TagRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewLabelService(categories port.CategoryRepository, tags port.TagRepository, logger zerolog.Logger) *LabelService {
	return &LabelService{
		categories: categories,
		tags:       tags,
		logger:     logger.With().Str("service", "label").Logger(),
		now:        time.Now,
	}
}

func (s *LabelService) ListCategories(ctx context.Context) ([]response.LabelResponse, error) {
	categories, err := s.categories.List(ctx)

	if err != nil {
		return nil, err
	}

	out := make([]response.LabelResponse, 0, len(categories))

	for _, c := range categories {
		out = append(out, mapLabel(c.ID, c.Name, c.Color, c.Description, c.CreatedAt, c.UpdatedAt))
	}

	return out, nil
}

func (s *LabelService) GetCategory(ctx context.Context, id int) (response.LabelResponse, error) {
	c, err := s.categories.GetByID(ctx, id)

	if err != nil {
		return response.LabelResponse{}, err
	}

	return mapLabel(c.ID, c.Name, c.Color, c.Description, c.CreatedAt, c.UpdatedAt), nil
}

// CreateCategory rejects names that collide case-insensitively.
func (s *LabelService) CreateCategory(ctx context.Context, req request.LabelRequest) (response.LabelResponse, error) {
	if err := s.checkCategoryName(ctx, req.Name, 0); err != nil {
		return response.LabelResponse{}, err
	}

	created, err := s.categories.Create(ctx, domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Color:       labelColor(req.Color),
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
	})

	if err != nil {
		return response.LabelResponse{}, err
	}

	return mapLabel(created.ID, created.Name, created.Color, created.Description, created.CreatedAt, created.UpdatedAt), nil
}

func (s *LabelService) UpdateCategory(ctx context.Context, id int, req request.UpdateLabelRequest) (response.LabelResponse, error) {
	c, err := s.categories.GetByID(ctx, id)

	if err != nil {
		return response.LabelResponse{}, err
	}

	if name, ok := req.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return response.LabelResponse{}, domain.Invalidf("name cannot be blank")
		}
		if err := s.checkCategoryName(ctx, name, id); err != nil {
			return response.LabelResponse{}, err
		}
		c.Name = name
	}

	if color, ok := req.Color.Get(); ok {
		c.Color = labelColor(color)
	}

	if description, ok := req.Description.Get(); ok {
		c.Description = description
	}

	now := s.now().UTC()
	c.UpdatedAt = &now

	updated, err := s.categories.Update(ctx, c)

	if err != nil {
		return response.LabelResponse{}, err
	}

	return mapLabel(updated.ID, updated.Name, updated.Color, updated.Description, updated.CreatedAt, updated.UpdatedAt), nil
}

// DeleteCategory removes the category; association rows cascade away while
// the todos themselves survive.
func (s *LabelService) DeleteCategory(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}

func (s *LabelService) ListTags(ctx context.Context) ([]response.LabelResponse, error) {
	tags, err := s.tags.List(ctx)

	if err != nil {
		return nil, err
	}

	out := make([]response.LabelResponse, 0, len(tags))

	for _, t := range tags {
		out = append(out, mapLabel(t.ID, t.Name, t.Color, t.Description, t.CreatedAt, t.UpdatedAt))
	}

	return out, nil
}

func (s *LabelService) GetTag(ctx context.Context, id int) (response.LabelResponse, error) {
	t, err := s.tags.GetByID(ctx, id)

	if err != nil {
		return response.LabelResponse{}, err
	}

	return mapLabel(t.ID, t.Name, t.Color, t.Description, t.CreatedAt, t.UpdatedAt), nil
}

func (s *LabelService) CreateTag(ctx context.Context, req request.LabelRequest) (response.LabelResponse, error) {
	if err := s.checkTagName(ctx, req.Name, 0); err != nil {
		return response.LabelResponse{}, err
	}

	created, err := s.tags.Create(ctx, domain.Tag{
		Name:        strings.TrimSpace(req.Name),
		Color:       labelColor(req.Color),
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
	})

	if err != nil {
		return response.LabelResponse{}, err
	}

	return mapLabel(created.ID, created.Name, created.Color, created.Description, created.CreatedAt, created.UpdatedAt), nil
}

func (s *LabelService) UpdateTag(ctx context.Context, id int, req request.UpdateLabelRequest) (response.LabelResponse, error) {
	t, err := s.tags.GetByID(ctx, id)

	if err != nil {
		return response.LabelResponse{}, err
	}

	if name, ok := req.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return response.LabelResponse{}, domain.Invalidf("name cannot be blank")
		}
		if err := s.checkTagName(ctx, name, id); err != nil {
			return response.LabelResponse{}, err
		}
		t.Name = name
	}

	if color, ok := req.Color.Get(); ok {
		t.Color = labelColor(color)
	}

	if description, ok := req.Description.Get(); ok {
		t.Description = description
	}

	now := s.now().UTC()
	t.UpdatedAt = &now

	updated, err := s.tags.Update(ctx, t)

	if err != nil {
		return response.LabelResponse{}, err
	}

	return mapLabel(updated.ID, updated.Name, updated.Color, updated.Description, updated.CreatedAt, updated.UpdatedAt), nil
}

func (s *LabelService) DeleteTag(ctx context.Context, id int) error {
	return s.tags.Delete(ctx, id)
}

func (s *LabelService) checkCategoryName(ctx context.Context, name string, selfID int) error {
	existing, err := s.categories.GetByName(ctx, strings.TrimSpace(name))

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if existing.ID != selfID {
		return domain.Conflictf("category %q already exists", existing.Name)
	}

	return nil
}

func (s *LabelService) checkTagName(ctx context.Context, name string, selfID int) error {
	existing, err := s.tags.GetByName(ctx, strings.TrimSpace(name))

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if existing.ID != selfID {
		return domain.Conflictf("tag %q already exists", existing.Name)
	}

	return nil
}

func labelColor(color string) string {
	if color == "" {
		return domain.DefaultLabelColor
	}
	return color
}

func mapLabel(id int, name, color, description string, createdAt time.Time, updatedAt *time.Time) response.LabelResponse {
	return response.LabelResponse{
		ID:          id,
		Name:        name,
		Color:       color,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}
