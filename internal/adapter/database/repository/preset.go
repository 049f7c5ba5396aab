package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

var presetColumns = []string{
	"id", "user_id", "name", "search_query", "is_completed", "is_overdue", "priority",
	"category_ids", "tag_ids", "due_date_from", "due_date_to",
	"created_at_from", "created_at_to", "sort_by", "sort_order",
	"created_at", "updated_at",
}

type PresetRepository struct {
	db *database.DB
}

func NewPresetRepository(db *database.DB) port.PresetRepository {
	return &PresetRepository{db: db}
}

func (r *PresetRepository) ListByUser(ctx context.Context, userID int) ([]domain.FilterPreset, error) {
	querySQL, args, err := r.db.Builder.Select(presetColumns...).
		From("filter_presets").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("LOWER(name) ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	presets := []domain.FilterPreset{}

	for rows.Next() {
		preset, err := scanPreset(rows)

		if err != nil {
			return nil, err
		}

		presets = append(presets, preset)
	}

	return presets, rows.Err()
}

func (r *PresetRepository) GetByID(ctx context.Context, id, userID int) (domain.FilterPreset, error) {
	querySQL, args, err := r.db.Builder.Select(presetColumns...).
		From("filter_presets").
		Where(sq.Eq{"id": id, "user_id": userID}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.FilterPreset{}, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return domain.FilterPreset{}, err
	}

	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.FilterPreset{}, err
		}
		return domain.FilterPreset{}, domain.NotFoundf("filter preset %d", id)
	}

	return scanPreset(rows)
}

func (r *PresetRepository) Create(ctx context.Context, preset domain.FilterPreset) (domain.FilterPreset, error) {
	categoryIDs, tagIDs, err := marshalIDLists(preset)

	if err != nil {
		return domain.FilterPreset{}, err
	}

	insertSQL, args, err := r.db.Builder.Insert("filter_presets").
		Columns(
			"user_id", "name", "search_query", "is_completed", "is_overdue", "priority",
			"category_ids", "tag_ids", "due_date_from", "due_date_to",
			"created_at_from", "created_at_to", "sort_by", "sort_order", "created_at",
		).
		Values(
			preset.UserID, preset.Name, preset.SearchQuery, preset.IsCompleted, preset.IsOverdue, preset.Priority,
			categoryIDs, tagIDs, preset.DueDateFrom, preset.DueDateTo,
			preset.CreatedAtFrom, preset.CreatedAtTo, preset.SortBy, preset.SortOrder, preset.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.FilterPreset{}, err
	}

	if err := r.db.QueryRowContext(ctx, insertSQL, args...).Scan(&preset.ID); err != nil {
		return domain.FilterPreset{}, err
	}

	return preset, nil
}

func (r *PresetRepository) Update(ctx context.Context, preset domain.FilterPreset) (domain.FilterPreset, error) {
	categoryIDs, tagIDs, err := marshalIDLists(preset)

	if err != nil {
		return domain.FilterPreset{}, err
	}

	updateSQL, args, err := r.db.Builder.Update("filter_presets").
		Set("name", preset.Name).
		Set("search_query", preset.SearchQuery).
		Set("is_completed", preset.IsCompleted).
		Set("is_overdue", preset.IsOverdue).
		Set("priority", preset.Priority).
		Set("category_ids", categoryIDs).
		Set("tag_ids", tagIDs).
		Set("due_date_from", preset.DueDateFrom).
		Set("due_date_to", preset.DueDateTo).
		Set("created_at_from", preset.CreatedAtFrom).
		Set("created_at_to", preset.CreatedAtTo).
		Set("sort_by", preset.SortBy).
		Set("sort_order", preset.SortOrder).
		Set("updated_at", preset.UpdatedAt).
		Where(sq.Eq{"id": preset.ID, "user_id": preset.UserID}).
		ToSql()

	if err != nil {
		return domain.FilterPreset{}, err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return domain.FilterPreset{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.FilterPreset{}, domain.NotFoundf("filter preset %d", preset.ID)
	}

	return preset, nil
}

func (r *PresetRepository) Delete(ctx context.Context, id, userID int) error {
	deleteSQL, args, err := r.db.Builder.Delete("filter_presets").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, deleteSQL, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("filter preset %d", id)
	}

	return nil
}

// marshalIDLists serializes the id lists as JSON text, the same shape they
// travel in over the API.
func marshalIDLists(preset domain.FilterPreset) (string, string, error) {
	categoryIDs, err := json.Marshal(emptyIfNil(preset.CategoryIDs))

	if err != nil {
		return "", "", err
	}

	tagIDs, err := json.Marshal(emptyIfNil(preset.TagIDs))

	if err != nil {
		return "", "", err
	}

	return string(categoryIDs), string(tagIDs), nil
}

func emptyIfNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}

	return ids
}

func scanPreset(rows *sql.Rows) (domain.FilterPreset, error) {
	var (
		preset        domain.FilterPreset
		searchQuery   sql.NullString
		isCompleted   sql.NullBool
		isOverdue     sql.NullBool
		priority      sql.NullInt64
		categoryIDs   string
		tagIDs        string
		dueDateFrom   sql.NullTime
		dueDateTo     sql.NullTime
		createdAtFrom sql.NullTime
		createdAtTo   sql.NullTime
		sortBy        sql.NullString
		sortOrder     sql.NullString
		updatedAt     sql.NullTime
	)

	err := rows.Scan(
		&preset.ID, &preset.UserID, &preset.Name, &searchQuery, &isCompleted, &isOverdue, &priority,
		&categoryIDs, &tagIDs, &dueDateFrom, &dueDateTo,
		&createdAtFrom, &createdAtTo, &sortBy, &sortOrder,
		&preset.CreatedAt, &updatedAt,
	)

	if err != nil {
		return domain.FilterPreset{}, err
	}

	preset.SearchQuery = searchQuery.String
	preset.SortBy = sortBy.String
	preset.SortOrder = sortOrder.String
	preset.DueDateFrom = timePtr(dueDateFrom)
	preset.DueDateTo = timePtr(dueDateTo)
	preset.CreatedAtFrom = timePtr(createdAtFrom)
	preset.CreatedAtTo = timePtr(createdAtTo)
	preset.UpdatedAt = timePtr(updatedAt)

	if isCompleted.Valid {
		v := isCompleted.Bool
		preset.IsCompleted = &v
	}

	if isOverdue.Valid {
		v := isOverdue.Bool
		preset.IsOverdue = &v
	}

	if priority.Valid {
		v := int(priority.Int64)
		preset.Priority = &v
	}

	if err := json.Unmarshal([]byte(categoryIDs), &preset.CategoryIDs); err != nil {
		return domain.FilterPreset{}, err
	}

	if err := json.Unmarshal([]byte(tagIDs), &preset.TagIDs); err != nil {
		return domain.FilterPreset{}, err
	}

	return preset, nil
}
