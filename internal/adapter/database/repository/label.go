package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

// label is the shared row shape behind both vocabularies.
type label struct {
	ID          int
	Name        string
	Color       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// labelTable implements the storage once; the category and tag repositories
// are thin typed views over it.
type labelTable struct {
	db    *database.DB
	table string
	kind  port.LabelKind
}

var labelColumns = []string{"id", "name", "color", "description", "created_at", "updated_at"}

func (t *labelTable) list(ctx context.Context) ([]label, error) {
	querySQL, args, err := t.db.Builder.Select(labelColumns...).
		From(t.table).
		OrderBy("LOWER(name) ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := t.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	labels := []label{}

	for rows.Next() {
		l, err := scanLabel(rows)

		if err != nil {
			return nil, err
		}

		labels = append(labels, l)
	}

	return labels, rows.Err()
}

func (t *labelTable) getByID(ctx context.Context, id int) (label, error) {
	return t.getBy(ctx, sq.Eq{"id": id}, domain.NotFoundf("%s %d", t.kind, id))
}

// getByName matches case-insensitively so "Work" and "work" are one label.
func (t *labelTable) getByName(ctx context.Context, name string) (label, error) {
	return t.getBy(ctx,
		sq.Eq{"LOWER(name)": strings.ToLower(name)},
		domain.NotFoundf("%s %q", t.kind, name),
	)
}

func (t *labelTable) getBy(ctx context.Context, pred sq.Eq, notFound error) (label, error) {
	querySQL, args, err := t.db.Builder.Select(labelColumns...).
		From(t.table).
		Where(pred).
		Limit(1).
		ToSql()

	if err != nil {
		return label{}, err
	}

	rows, err := t.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return label{}, err
	}

	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return label{}, err
		}
		return label{}, notFound
	}

	return scanLabel(rows)
}

func (t *labelTable) create(ctx context.Context, l label) (label, error) {
	insertSQL, args, err := t.db.Builder.Insert(t.table).
		Columns("name", "color", "description", "created_at").
		Values(l.Name, l.Color, l.Description, l.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return label{}, err
	}

	if err := t.db.QueryRowContext(ctx, insertSQL, args...).Scan(&l.ID); err != nil {
		return label{}, err
	}

	return l, nil
}

func (t *labelTable) update(ctx context.Context, l label) (label, error) {
	updateSQL, args, err := t.db.Builder.Update(t.table).
		Set("name", l.Name).
		Set("color", l.Color).
		Set("description", l.Description).
		Set("updated_at", l.UpdatedAt).
		Where(sq.Eq{"id": l.ID}).
		ToSql()

	if err != nil {
		return label{}, err
	}

	result, err := t.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return label{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return label{}, domain.NotFoundf("%s %d", t.kind, l.ID)
	}

	return l, nil
}

func (t *labelTable) delete(ctx context.Context, id int) error {
	deleteSQL, args, err := t.db.Builder.Delete(t.table).Where(sq.Eq{"id": id}).ToSql()

	if err != nil {
		return err
	}

	result, err := t.db.ExecContext(ctx, deleteSQL, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("%s %d", t.kind, id)
	}

	return nil
}

// filterExistingIDs keeps only ids with a backing row, preserving input
// order and dropping duplicates.
func (t *labelTable) filterExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return []int{}, nil
	}

	querySQL, args, err := t.db.Builder.Select("id").
		From(t.table).
		Where(sq.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := t.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	existing := map[int]bool{}

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	valid := make([]int, 0, len(ids))

	for _, id := range ids {
		if existing[id] {
			valid = append(valid, id)
			existing[id] = false
		}
	}

	return valid, nil
}

func scanLabel(rows *sql.Rows) (label, error) {
	var (
		l           label
		description sql.NullString
		updatedAt   sql.NullTime
	)

	err := rows.Scan(&l.ID, &l.Name, &l.Color, &description, &l.CreatedAt, &updatedAt)

	if err != nil {
		return label{}, err
	}

	l.Description = description.String
	l.UpdatedAt = timePtr(updatedAt)

	return l, nil
}

type CategoryRepository struct {
	table labelTable
}

func NewCategoryRepository(db *database.DB) port.CategoryRepository {
	return &CategoryRepository{table: labelTable{db: db, table: "categories", kind: port.LabelCategory}}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	labels, err := r.table.list(ctx)

	if err != nil {
		return nil, err
	}

	out := make([]domain.Category, 0, len(labels))

	for _, l := range labels {
		out = append(out, domain.Category(l))
	}

	return out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (domain.Category, error) {
	l, err := r.table.getByID(ctx, id)
	return domain.Category(l), err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (domain.Category, error) {
	l, err := r.table.getByName(ctx, name)
	return domain.Category(l), err
}

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	l, err := r.table.create(ctx, label(category))
	return domain.Category(l), err
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	l, err := r.table.update(ctx, label(category))
	return domain.Category(l), err
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	return r.table.delete(ctx, id)
}

func (r *CategoryRepository) FilterExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	return r.table.filterExistingIDs(ctx, ids)
}

type TagRepository struct {
	table labelTable
}

func NewTagRepository(db *database.DB) port.TagRepository {
	return &TagRepository{table: labelTable{db: db, table: "tags", kind: port.LabelTag}}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	labels, err := r.table.list(ctx)

	if err != nil {
		return nil, err
	}

	out := make([]domain.Tag, 0, len(labels))

	for _, l := range labels {
		out = append(out, domain.Tag(l))
	}

	return out, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id int) (domain.Tag, error) {
	l, err := r.table.getByID(ctx, id)
	return domain.Tag(l), err
}

func (r *TagRepository) GetByName(ctx context.Context, name string) (domain.Tag, error) {
	l, err := r.table.getByName(ctx, name)
	return domain.Tag(l), err
}

func (r *TagRepository) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	l, err := r.table.create(ctx, label(tag))
	return domain.Tag(l), err
}

func (r *TagRepository) Update(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	l, err := r.table.update(ctx, label(tag))
	return domain.Tag(l), err
}

func (r *TagRepository) Delete(ctx context.Context, id int) error {
	return r.table.delete(ctx, id)
}

func (r *TagRepository) FilterExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	return r.table.filterExistingIDs(ctx, ids)
}
