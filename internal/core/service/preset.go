package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/port"
)

// PresetService stores saved searches per user and replays them through the
// todo search path.
type PresetService struct {
	presets port.PresetRepository
	todos   *TodoService
	logger  zerolog.Logger
	now     func() time.Time
}

func NewPresetService(presets port.PresetRepository, todos *TodoService, logger zerolog.Logger) *PresetService {
	return &PresetService{
		presets: presets,
		todos:   todos,
		logger:  logger.With().Str("service", "preset").Logger(),
		now:     time.Now,
	}
}

func (s *PresetService) List(ctx context.Context, userID int) ([]response.FilterPresetResponse, error) {
	presets, err := s.presets.ListByUser(ctx, userID)

	if err != nil {
		return nil, err
	}

	out := make([]response.FilterPresetResponse, 0, len(presets))

	for _, p := range presets {
		out = append(out, mapPreset(p))
	}

	return out, nil
}

func (s *PresetService) Get(ctx context.Context, id, userID int) (response.FilterPresetResponse, error) {
	preset, err := s.presets.GetByID(ctx, id, userID)

	if err != nil {
		return response.FilterPresetResponse{}, err
	}

	return mapPreset(preset), nil
}

func (s *PresetService) Create(ctx context.Context, userID int, req request.FilterPresetRequest) (response.FilterPresetResponse, error) {
	preset := presetFromRequest(req)
	preset.UserID = userID
	preset.CreatedAt = s.now().UTC()

	created, err := s.presets.Create(ctx, preset)

	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Str("name", req.Name).Msg("create preset failed")
		return response.FilterPresetResponse{}, err
	}

	return mapPreset(created), nil
}

// Update replaces the whole filter payload. Presets are small enough that
// partial patching is not worth the surface.
func (s *PresetService) Update(ctx context.Context, id, userID int, req request.FilterPresetRequest) (response.FilterPresetResponse, error) {
	existing, err := s.presets.GetByID(ctx, id, userID)

	if err != nil {
		return response.FilterPresetResponse{}, err
	}

	now := s.now().UTC()

	preset := presetFromRequest(req)
	preset.ID = existing.ID
	preset.UserID = existing.UserID
	preset.CreatedAt = existing.CreatedAt
	preset.UpdatedAt = &now

	updated, err := s.presets.Update(ctx, preset)

	if err != nil {
		return response.FilterPresetResponse{}, err
	}

	return mapPreset(updated), nil
}

func (s *PresetService) Delete(ctx context.Context, id, userID int) error {
	return s.presets.Delete(ctx, id, userID)
}

// Apply replays the saved filter as a search, with pagination supplied at
// apply time rather than stored in the preset.
func (s *PresetService) Apply(ctx context.Context, id, userID, pageNumber, pageSize int) (response.SearchFilterResponse, error) {
	preset, err := s.presets.GetByID(ctx, id, userID)

	if err != nil {
		return response.SearchFilterResponse{}, err
	}

	filter := request.SearchFilterRequest{
		SearchQuery:   preset.SearchQuery,
		IsCompleted:   preset.IsCompleted,
		IsOverdue:     preset.IsOverdue,
		Priority:      preset.Priority,
		CategoryIDs:   preset.CategoryIDs,
		TagIDs:        preset.TagIDs,
		DueDateFrom:   preset.DueDateFrom,
		DueDateTo:     preset.DueDateTo,
		CreatedAtFrom: preset.CreatedAtFrom,
		CreatedAtTo:   preset.CreatedAtTo,
		SortBy:        preset.SortBy,
		SortOrder:     preset.SortOrder,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
	}

	return s.todos.Search(ctx, userID, filter)
}

func presetFromRequest(req request.FilterPresetRequest) domain.FilterPreset {
	return domain.FilterPreset{
		Name:          req.Name,
		SearchQuery:   req.SearchQuery,
		IsCompleted:   req.IsCompleted,
		IsOverdue:     req.IsOverdue,
		Priority:      req.Priority,
		CategoryIDs:   req.CategoryIDs,
		TagIDs:        req.TagIDs,
		DueDateFrom:   req.DueDateFrom,
		DueDateTo:     req.DueDateTo,
		CreatedAtFrom: req.CreatedAtFrom,
		CreatedAtTo:   req.CreatedAtTo,
		SortBy:        domain.NormalizeSortBy(req.SortBy),
		SortOrder:     domain.NormalizeSortOrder(req.SortOrder),
	}
}

func mapPreset(preset domain.FilterPreset) response.FilterPresetResponse {
	return response.FilterPresetResponse{
		ID:            preset.ID,
		Name:          preset.Name,
		SearchQuery:   preset.SearchQuery,
		IsCompleted:   preset.IsCompleted,
		IsOverdue:     preset.IsOverdue,
		Priority:      preset.Priority,
		CategoryIDs:   preset.CategoryIDs,
		TagIDs:        preset.TagIDs,
		DueDateFrom:   preset.DueDateFrom,
		DueDateTo:     preset.DueDateTo,
		CreatedAtFrom: preset.CreatedAtFrom,
		CreatedAtTo:   preset.CreatedAtTo,
		SortBy:        preset.SortBy,
		SortOrder:     preset.SortOrder,
		CreatedAt:     preset.CreatedAt,
		UpdatedAt:     preset.UpdatedAt,
	}
}
