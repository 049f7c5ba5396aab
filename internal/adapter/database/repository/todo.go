package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todohub/internal/adapter/database"
	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/port"
)

var todoColumns = []string{
	"id", "user_id", "title", "description", "status",
	"due_date", "reminder_date", "priority", "display_order",
	"created_at", "updated_at", "completed_at", "archived_at",
}

type TodoRepository struct {
	db *database.DB
}

func NewTodoRepository(db *database.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

// Search applies the filters in fixed precedence, takes the total count, then
// sorts and paginates. The count reflects the filtered set, never the page.
func (r *TodoRepository) Search(ctx context.Context, userID int, filter request.SearchFilterRequest, now time.Time) ([]domain.Todo, int, error) {
	where, err := r.searchPredicate(userID, filter, now)

	if err != nil {
		return nil, 0, err
	}

	countSQL, countArgs, err := r.db.Builder.Select("COUNT(*)").From("todos").Where(where).ToSql()

	if err != nil {
		return nil, 0, err
	}

	var total int

	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := uint64((filter.PageNumber - 1) * filter.PageSize)

	query := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(where).
		OrderBy(sortExpr(filter.SortBy, filter.SortOrder), "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(offset)

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return nil, 0, err
	}

	todos, err := r.queryTodos(ctx, querySQL, queryArgs)

	if err != nil {
		return nil, 0, err
	}

	if err := r.attachLabels(ctx, todos); err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// searchPredicate builds the WHERE clause. Archived todos stay hidden unless
// asked for explicitly through is_archived or status=archived.
func (r *TodoRepository) searchPredicate(userID int, filter request.SearchFilterRequest, now time.Time) (sq.And, error) {
	where := sq.And{sq.Eq{"user_id": userID}}
	today := domain.StartOfDay(now)

	// Free text matches the title, the description, and the names of attached
	// categories and tags.
	if q := strings.TrimSpace(filter.SearchQuery); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, sq.Or{
			sq.Like{"LOWER(title)": pattern},
			sq.Like{"LOWER(description)": pattern},
			labelNameLike("todo_categories", "categories", "category_id", pattern),
			labelNameLike("todo_tags", "tags", "tag_id", pattern),
		})
	}

	// Overdue filters only when requested; false reads as absent. The cutoff
	// is day granularity, so a todo due later today is not overdue yet.
	overdueRequested := filter.IsOverdue != nil && *filter.IsOverdue

	if overdueRequested {
		where = append(where,
			sq.NotEq{"status": domain.StatusCompleted.String()},
			sq.NotEq{"due_date": nil},
			sq.Lt{"due_date": today},
		)
	}

	archivedRequested := false
	hideCompleted := filter.HideCompleted != nil && *filter.HideCompleted

	if filter.IsArchived != nil {
		archivedRequested = true
		if *filter.IsArchived {
			where = append(where, sq.Eq{"status": domain.StatusArchived.String()})
		} else {
			where = append(where, sq.NotEq{"status": domain.StatusArchived.String()})
		}
	}

	// Status takes precedence over the is_completed boolean when both appear.
	if filter.Status != nil && *filter.Status != "" {
		status, err := domain.ParseStatus(*filter.Status)
		if err != nil {
			return nil, err
		}
		where = append(where, sq.Eq{"status": status.String()})
		if status == domain.StatusArchived {
			archivedRequested = true
		}
	} else if filter.IsCompleted != nil {
		if *filter.IsCompleted {
			where = append(where, sq.Eq{"status": domain.StatusCompleted.String()})
		} else if !overdueRequested {
			// Pending means not past due on top of not completed; an overdue
			// request supersedes this branch.
			where = append(where,
				sq.Eq{"status": domain.StatusPending.String()},
				sq.Or{
					sq.Eq{"due_date": nil},
					sq.GtOrEq{"due_date": today},
				},
			)
		}
	}

	// Archived rows stay hidden unless asked for, except when hide_completed
	// takes over the filtering.
	if !archivedRequested && !hideCompleted {
		where = append(where, sq.NotEq{"status": domain.StatusArchived.String()})
	}

	if hideCompleted {
		where = append(where, sq.NotEq{"status": domain.StatusCompleted.String()})
	}

	if filter.Priority != nil {
		where = append(where, sq.Eq{"priority": *filter.Priority})
	}

	if len(filter.CategoryIDs) > 0 {
		where = append(where, existsLabelLink("todo_categories", "category_id", filter.CategoryIDs))
	}

	if len(filter.TagIDs) > 0 {
		where = append(where, existsLabelLink("todo_tags", "tag_id", filter.TagIDs))
	}

	if filter.DueDateFrom != nil {
		where = append(where, sq.GtOrEq{"due_date": *filter.DueDateFrom})
	}

	if filter.DueDateTo != nil {
		where = append(where, sq.LtOrEq{"due_date": domain.EndOfDay(*filter.DueDateTo)})
	}

	if filter.CreatedAtFrom != nil {
		where = append(where, sq.GtOrEq{"created_at": *filter.CreatedAtFrom})
	}

	if filter.CreatedAtTo != nil {
		where = append(where, sq.LtOrEq{"created_at": domain.EndOfDay(*filter.CreatedAtTo)})
	}

	return where, nil
}

func labelNameLike(joinTable, labelTable, column, pattern string) sq.Sqlizer {
	return sq.Expr(
		"EXISTS (SELECT 1 FROM "+joinTable+
			" JOIN "+labelTable+" ON "+labelTable+".id = "+joinTable+"."+column+
			" WHERE "+joinTable+".todo_id = todos.id AND LOWER("+labelTable+".name) LIKE ?)",
		pattern,
	)
}

func existsLabelLink(table, column string, ids []int) sq.Sqlizer {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))

	for _, id := range ids {
		args = append(args, id)
	}

	return sq.Expr(
		"EXISTS (SELECT 1 FROM "+table+" WHERE "+table+".todo_id = todos.id AND "+table+"."+column+" IN ("+placeholders+"))",
		args...,
	)
}

func sortExpr(sortBy, sortOrder string) string {
	direction := "DESC"

	if sortOrder == "asc" {
		direction = "ASC"
	}

	switch sortBy {
	case domain.SortByTitle:
		return "LOWER(title) " + direction
	case domain.SortByPriority:
		return "priority " + direction
	case domain.SortByDueDate:
		// Undated todos sort last in either direction.
		return "CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date " + direction
	default:
		return "created_at " + direction
	}
}

// ListByUser is the plain listing: archived excluded, manual order first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID int, sortBy string, priority *int) ([]domain.Todo, error) {
	query := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.NotEq{"status": domain.StatusArchived.String()})

	if priority != nil {
		query = query.Where(sq.Eq{"priority": *priority})
	}

	switch domain.NormalizeSortBy(sortBy) {
	case domain.SortByTitle:
		query = query.OrderBy("LOWER(title) ASC")
	case domain.SortByPriority:
		query = query.OrderBy("priority DESC", "display_order ASC")
	case domain.SortByDueDate:
		query = query.OrderBy("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END", "due_date ASC", "display_order ASC")
	default:
		query = query.OrderBy("display_order ASC", "created_at DESC")
	}

	querySQL, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	todos, err := r.queryTodos(ctx, querySQL, args)

	if err != nil {
		return nil, err
	}

	if err := r.attachLabels(ctx, todos); err != nil {
		return nil, err
	}

	return todos, nil
}

// ListAllByUser includes archived rows; the statistics scan needs them.
func (r *TodoRepository) ListAllByUser(ctx context.Context, userID int) ([]domain.Todo, error) {
	querySQL, args, err := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, err
	}

	return r.queryTodos(ctx, querySQL, args)
}

func (r *TodoRepository) ListByIDs(ctx context.Context, userID int, ids []int) ([]domain.Todo, error) {
	if len(ids) == 0 {
		return []domain.Todo{}, nil
	}

	querySQL, args, err := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, err
	}

	return r.queryTodos(ctx, querySQL, args)
}

func (r *TodoRepository) GetByID(ctx context.Context, id int) (domain.Todo, error) {
	querySQL, args, err := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todos, err := r.queryTodos(ctx, querySQL, args)

	if err != nil {
		return domain.Todo{}, err
	}

	if len(todos) == 0 {
		return domain.Todo{}, domain.NotFoundf("todo %d", id)
	}

	if err := r.attachLabels(ctx, todos); err != nil {
		return domain.Todo{}, err
	}

	return todos[0], nil
}

// Create inserts the todo at the end of the user's manual order and links the
// already-validated label ids in the same transaction.
func (r *TodoRepository) Create(ctx context.Context, todo domain.Todo, categoryIDs, tagIDs []int) (domain.Todo, error) {
	var id int

	err := r.db.InTx(func(tx *sql.Tx) error {
		insertSQL, args, err := r.db.Builder.Insert("todos").
			Columns("user_id", "title", "description", "status", "due_date", "reminder_date", "priority", "display_order", "created_at").
			Values(
				todo.UserID, todo.Title, todo.Description, todo.Status.String(),
				todo.DueDate, todo.ReminderDate, todo.Priority,
				sq.Expr("(SELECT COALESCE(MAX(t.display_order), 0) + 1 FROM todos t WHERE t.user_id = ?)", todo.UserID),
				todo.CreatedAt,
			).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx, insertSQL, args...).Scan(&id); err != nil {
			return err
		}

		if err := r.linkLabels(ctx, tx, "todo_categories", "category_id", id, categoryIDs); err != nil {
			return err
		}

		return r.linkLabels(ctx, tx, "todo_tags", "tag_id", id, tagIDs)
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return r.GetByID(ctx, id)
}

// Update rewrites the row and, for each label patch that is set, replaces the
// association rows wholesale.
func (r *TodoRepository) Update(ctx context.Context, todo domain.Todo, categoryIDs, tagIDs domain.Patch[[]int]) (domain.Todo, error) {
	err := r.db.InTx(func(tx *sql.Tx) error {
		updateSQL, args, err := r.db.Builder.Update("todos").
			Set("title", todo.Title).
			Set("description", todo.Description).
			Set("status", todo.Status.String()).
			Set("due_date", todo.DueDate).
			Set("reminder_date", todo.ReminderDate).
			Set("priority", todo.Priority).
			Set("display_order", todo.DisplayOrder).
			Set("updated_at", todo.UpdatedAt).
			Set("completed_at", todo.CompletedAt).
			Set("archived_at", todo.ArchivedAt).
			Where(sq.Eq{"id": todo.ID}).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, updateSQL, args...)

		if err != nil {
			return err
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			return domain.NotFoundf("todo %d", todo.ID)
		}

		if ids, ok := categoryIDs.Get(); ok {
			if err := r.replaceLabels(ctx, tx, "todo_categories", "category_id", todo.ID, ids); err != nil {
				return err
			}
		}

		if ids, ok := tagIDs.Get(); ok {
			if err := r.replaceLabels(ctx, tx, "todo_tags", "tag_id", todo.ID, ids); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return r.GetByID(ctx, todo.ID)
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID int) error {
	deleteSQL, args, err := r.db.Builder.Delete("todos").
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
		return domain.NotFoundf("todo %d", id)
	}

	return nil
}

// BulkMarkComplete touches every owned todo in ids, including those already
// in the target state, so the returned count is stable across repeats.
func (r *TodoRepository) BulkMarkComplete(ctx context.Context, userID int, ids []int, completed bool, now time.Time) (int, error) {
	update := r.db.Builder.Update("todos").
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID, "id": ids}).
		Where(sq.NotEq{"status": domain.StatusArchived.String()})

	if completed {
		update = update.
			Set("status", domain.StatusCompleted.String()).
			Set("completed_at", now)
	} else {
		update = update.
			Set("status", domain.StatusPending.String()).
			Set("completed_at", nil)
	}

	updateSQL, args, err := update.ToSql()

	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()

	return int(affected), err
}

// ReorderTodos applies every new position or none: an id the user does not
// own aborts the transaction.
func (r *TodoRepository) ReorderTodos(ctx context.Context, userID int, orders []request.TodoOrder, now time.Time) error {
	return r.db.InTx(func(tx *sql.Tx) error {
		for _, order := range orders {
			updateSQL, args, err := r.db.Builder.Update("todos").
				Set("display_order", order.DisplayOrder).
				Set("updated_at", now).
				Where(sq.Eq{"id": order.TodoID, "user_id": userID}).
				ToSql()

			if err != nil {
				return err
			}

			result, err := tx.ExecContext(ctx, updateSQL, args...)

			if err != nil {
				return err
			}

			if affected, _ := result.RowsAffected(); affected == 0 {
				return domain.NotFoundf("todo %d", order.TodoID)
			}
		}

		return nil
	})
}

func (r *TodoRepository) ArchiveOldCompleted(ctx context.Context, userID int, cutoff, now time.Time) (int, error) {
	updateSQL, args, err := r.db.Builder.Update("todos").
		Set("status", domain.StatusArchived.String()).
		Set("archived_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID, "status": domain.StatusCompleted.String()}).
		Where(sq.LtOrEq{"completed_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, updateSQL, args...)

	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()

	return int(affected), err
}

// ListDueReminders finds open todos whose reminder falls inside the upcoming
// window and whose due date, if any, has not yet passed.
func (r *TodoRepository) ListDueReminders(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Todo, error) {
	querySQL, args, err := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"status": domain.StatusPending.String()}).
		Where(sq.NotEq{"reminder_date": nil}).
		Where(sq.GtOrEq{"reminder_date": windowStart}).
		Where(sq.LtOrEq{"reminder_date": windowEnd}).
		Where(sq.Or{
			sq.Eq{"due_date": nil},
			sq.GtOrEq{"due_date": windowStart},
		}).
		ToSql()

	if err != nil {
		return nil, err
	}

	return r.queryTodos(ctx, querySQL, args)
}

func (r *TodoRepository) ClearReminder(ctx context.Context, todoID int) error {
	updateSQL, args, err := r.db.Builder.Update("todos").
		Set("reminder_date", nil).
		Where(sq.Eq{"id": todoID}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, updateSQL, args...)

	return err
}

func (r *TodoRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Todo, error) {
	querySQL, args, err := r.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"status": domain.StatusPending.String()}).
		Where(sq.NotEq{"due_date": nil}).
		Where(sq.Lt{"due_date": now}).
		ToSql()

	if err != nil {
		return nil, err
	}

	return r.queryTodos(ctx, querySQL, args)
}

func (r *TodoRepository) queryTodos(ctx context.Context, querySQL string, args []any) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func scanTodo(rows *sql.Rows) (domain.Todo, error) {
	var (
		todo        domain.Todo
		status      string
		description sql.NullString
		dueDate     sql.NullTime
		reminder    sql.NullTime
		updatedAt   sql.NullTime
		completedAt sql.NullTime
		archivedAt  sql.NullTime
	)

	err := rows.Scan(
		&todo.ID, &todo.UserID, &todo.Title, &description, &status,
		&dueDate, &reminder, &todo.Priority, &todo.DisplayOrder,
		&todo.CreatedAt, &updatedAt, &completedAt, &archivedAt,
	)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Description = description.String
	todo.Status, err = domain.ParseStatus(status)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.DueDate = timePtr(dueDate)
	todo.ReminderDate = timePtr(reminder)
	todo.UpdatedAt = timePtr(updatedAt)
	todo.CompletedAt = timePtr(completedAt)
	todo.ArchivedAt = timePtr(archivedAt)

	return todo, nil
}

func (r *TodoRepository) linkLabels(ctx context.Context, tx *sql.Tx, table, column string, todoID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	insert := r.db.Builder.Insert(table).Columns("todo_id", column)

	for _, id := range ids {
		insert = insert.Values(todoID, id)
	}

	insertSQL, args, err := insert.ToSql()

	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, insertSQL, args...)

	return err
}

func (r *TodoRepository) replaceLabels(ctx context.Context, tx *sql.Tx, table, column string, todoID int, ids []int) error {
	deleteSQL, args, err := r.db.Builder.Delete(table).Where(sq.Eq{"todo_id": todoID}).ToSql()

	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteSQL, args...); err != nil {
		return err
	}

	return r.linkLabels(ctx, tx, table, column, todoID, ids)
}

// attachLabels loads categories and tags for the batch in two queries rather
// than per todo.
func (r *TodoRepository) attachLabels(ctx context.Context, todos []domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	ids := make([]int, 0, len(todos))
	index := make(map[int]*domain.Todo, len(todos))

	for i := range todos {
		ids = append(ids, todos[i].ID)
		index[todos[i].ID] = &todos[i]
		todos[i].Categories = []domain.Category{}
		todos[i].Tags = []domain.Tag{}
	}

	categorySQL, args, err := r.db.Builder.
		Select("tc.todo_id", "c.id", "c.name", "c.color", "c.description", "c.created_at", "c.updated_at").
		From("todo_categories tc").
		Join("categories c ON c.id = tc.category_id").
		Where(sq.Eq{"tc.todo_id": ids}).
		ToSql()

	if err != nil {
		return err
	}

	if err := r.scanLabelRows(ctx, categorySQL, args, index, true); err != nil {
		return err
	}

	tagSQL, args, err := r.db.Builder.
		Select("tt.todo_id", "t.id", "t.name", "t.color", "t.description", "t.created_at", "t.updated_at").
		From("todo_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(sq.Eq{"tt.todo_id": ids}).
		ToSql()

	if err != nil {
		return err
	}

	return r.scanLabelRows(ctx, tagSQL, args, index, false)
}

func (r *TodoRepository) scanLabelRows(ctx context.Context, querySQL string, args []any, index map[int]*domain.Todo, categories bool) error {
	rows, err := r.db.QueryContext(ctx, querySQL, args...)

	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			todoID      int
			id          int
			name        string
			color       string
			description sql.NullString
			createdAt   time.Time
			updatedAt   sql.NullTime
		)

		if err := rows.Scan(&todoID, &id, &name, &color, &description, &createdAt, &updatedAt); err != nil {
			return err
		}

		todo, ok := index[todoID]

		if !ok {
			continue
		}

		if categories {
			todo.Categories = append(todo.Categories, domain.Category{
				ID: id, Name: name, Color: color, Description: description.String,
				CreatedAt: createdAt, UpdatedAt: timePtr(updatedAt),
			})
		} else {
			todo.Tags = append(todo.Tags, domain.Tag{
				ID: id, Name: name, Color: color, Description: description.String,
				CreatedAt: createdAt, UpdatedAt: timePtr(updatedAt),
			})
		}
	}

	return rows.Err()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	value := t.Time

	return &value
}

func notFoundOr(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	return err
}
