package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/port"
)

const (
	defaultPageSize   = 50
	defaultArchiveAge = 30
	labelListPageSize = 1000
)

// TodoService owns the search/filter/sort/pagination composition and every
// todo mutation. All operations are scoped to the acting user id supplied by
// the caller; the service never authenticates.
type TodoService struct {
	todos      port.TodoRepository
	categories port.CategoryRepository
	tags       port.TagRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewTodoService(todos port.TodoRepository, categories port.CategoryRepository, tags port.TagRepository, logger zerolog.Logger) *TodoService {
	return &TodoService{
		todos:      todos,
		categories: categories,
		tags:       tags,
		logger:     logger.With().Str("service", "todo").Logger(),
		now:        time.Now,
	}
}

// Search runs the composed filter query and maps the page to the read model.
// Page number and size fall back to 1/50; the total count is taken after all
// filters and before pagination.
func (s *TodoService) Search(ctx context.Context, userID int, filter request.SearchFilterRequest) (response.SearchFilterResponse, error) {
	if filter.PageNumber < 1 {
		filter.PageNumber = 1
	}

	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}

	filter.SortBy = domain.NormalizeSortBy(filter.SortBy)
	filter.SortOrder = domain.NormalizeSortOrder(filter.SortOrder)

	now := s.now().UTC()

	todos, total, err := s.todos.Search(ctx, userID, filter, now)

	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("search failed")
		return response.SearchFilterResponse{}, err
	}

	return response.SearchFilterResponse{
		Todos:      s.mapTodos(todos, now),
		TotalCount: total,
		PageNumber: filter.PageNumber,
		PageSize:   filter.PageSize,
	}, nil
}

// List is the plain listing: display order first, archived always excluded,
// optional single priority filter.
func (s *TodoService) List(ctx context.Context, userID int, sortBy string, priority *int) ([]response.TodoResponse, error) {
	if priority != nil {
		if err := domain.ValidatePriority(*priority); err != nil {
			return nil, err
		}
	}

	todos, err := s.todos.ListByUser(ctx, userID, sortBy, priority)

	if err != nil {
		return nil, err
	}

	return s.mapTodos(todos, s.now().UTC()), nil
}

// ListByCategory returns every todo of the caller carrying the category,
// replayed through the search composition so archived visibility and ordering
// match a search for that single filter.
func (s *TodoService) ListByCategory(ctx context.Context, userID, categoryID int) ([]response.TodoResponse, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	return s.listByLabel(ctx, userID, request.SearchFilterRequest{CategoryIDs: []int{categoryID}})
}

// ListByTag is ListByCategory for the tag vocabulary.
func (s *TodoService) ListByTag(ctx context.Context, userID, tagID int) ([]response.TodoResponse, error) {
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		return nil, err
	}

	return s.listByLabel(ctx, userID, request.SearchFilterRequest{TagIDs: []int{tagID}})
}

func (s *TodoService) listByLabel(ctx context.Context, userID int, filter request.SearchFilterRequest) ([]response.TodoResponse, error) {
	filter.PageSize = labelListPageSize

	result, err := s.Search(ctx, userID, filter)

	if err != nil {
		return nil, err
	}

	return result.Todos, nil
}

func (s *TodoService) Get(ctx context.Context, todoID, userID int) (response.TodoResponse, error) {
	todo, err := s.ownedTodo(ctx, todoID, userID)

	if err != nil {
		return response.TodoResponse{}, err
	}

	return s.mapTodo(todo, s.now().UTC()), nil
}

// Create assigns the next display order and silently drops category or tag
// ids that reference nothing.
func (s *TodoService) Create(ctx context.Context, userID int, req request.CreateTodoRequest) (response.TodoResponse, error) {
	if err := domain.ValidatePriority(req.Priority); err != nil {
		return response.TodoResponse{}, err
	}

	now := s.now().UTC()

	todo := domain.Todo{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.StatusPending,
		DueDate:      req.DueDate,
		ReminderDate: req.ReminderDate,
		Priority:     req.Priority,
		CreatedAt:    now,
	}

	categoryIDs, err := s.categories.FilterExistingIDs(ctx, req.CategoryIDs)

	if err != nil {
		return response.TodoResponse{}, err
	}

	tagIDs, err := s.tags.FilterExistingIDs(ctx, req.TagIDs)

	if err != nil {
		return response.TodoResponse{}, err
	}

	created, err := s.todos.Create(ctx, todo, categoryIDs, tagIDs)

	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Str("title", req.Title).Msg("create failed")
		return response.TodoResponse{}, err
	}

	return s.mapTodo(created, now), nil
}

// Update applies only the fields present in the request. An explicitly empty
// category or tag list clears all associations, which is distinct from the
// field being absent. Toggling is_completed drives the status machine.
func (s *TodoService) Update(ctx context.Context, todoID, userID int, req request.UpdateTodoRequest) (response.TodoResponse, error) {
	todo, err := s.ownedTodo(ctx, todoID, userID)

	if err != nil {
		return response.TodoResponse{}, err
	}

	now := s.now().UTC()

	if title, ok := req.Title.Get(); ok {
		if title == "" {
			return response.TodoResponse{}, domain.Invalidf("title cannot be blank")
		}
		todo.Title = title
	}

	if description, ok := req.Description.Get(); ok {
		todo.Description = description
	}

	if completed, ok := req.IsCompleted.Get(); ok {
		if completed && !todo.Status.Completed() {
			todo.MarkCompleted(now)
		} else if !completed && todo.Status.Completed() {
			todo.MarkPending(now)
		}
	}

	if dueDate, ok := req.DueDate.Get(); ok {
		todo.DueDate = dueDate
	}

	if reminderDate, ok := req.ReminderDate.Get(); ok {
		todo.ReminderDate = reminderDate
	}

	if priority, ok := req.Priority.Get(); ok {
		if err := domain.ValidatePriority(priority); err != nil {
			return response.TodoResponse{}, err
		}
		todo.Priority = priority
	}

	todo.UpdatedAt = &now

	categoryIDs := req.CategoryIDs
	if ids, ok := categoryIDs.Get(); ok {
		valid, err := s.categories.FilterExistingIDs(ctx, ids)
		if err != nil {
			return response.TodoResponse{}, err
		}
		categoryIDs = domain.Set(valid)
	}

	tagIDs := req.TagIDs
	if ids, ok := tagIDs.Get(); ok {
		valid, err := s.tags.FilterExistingIDs(ctx, ids)
		if err != nil {
			return response.TodoResponse{}, err
		}
		tagIDs = domain.Set(valid)
	}

	updated, err := s.todos.Update(ctx, todo, categoryIDs, tagIDs)

	if err != nil {
		s.logger.Error().Err(err).Int("todo_id", todoID).Msg("update failed")
		return response.TodoResponse{}, err
	}

	return s.mapTodo(updated, now), nil
}

func (s *TodoService) Delete(ctx context.Context, todoID, userID int) error {
	return s.todos.Delete(ctx, todoID, userID)
}

// BulkMarkComplete applies the same transition to every listed todo owned by
// the user, ignoring foreign ids. The returned count reflects matched rows,
// not changed ones, so repeating the call reports the same count.
func (s *TodoService) BulkMarkComplete(ctx context.Context, userID int, req request.BulkTodoRequest) (int, error) {
	if len(req.TodoIDs) == 0 {
		return 0, domain.Invalidf("todo_ids cannot be empty")
	}

	return s.todos.BulkMarkComplete(ctx, userID, req.TodoIDs, req.IsCompleted, s.now().UTC())
}

// Reorder fails atomically when any supplied id does not belong to the user.
func (s *TodoService) Reorder(ctx context.Context, userID int, req request.ReorderTodosRequest) error {
	if len(req.TodoOrders) == 0 {
		return domain.Invalidf("todo_orders cannot be empty")
	}

	return s.todos.ReorderTodos(ctx, userID, req.TodoOrders, s.now().UTC())
}

// ArchiveOldCompleted flips completed todos older than the cutoff to
// archived and reports how many moved.
func (s *TodoService) ArchiveOldCompleted(ctx context.Context, userID, daysOld int) (int, error) {
	if daysOld <= 0 {
		daysOld = defaultArchiveAge
	}

	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, -daysOld)

	return s.todos.ArchiveOldCompleted(ctx, userID, cutoff, now)
}

// Statistics scans all of the user's todos once.
func (s *TodoService) Statistics(ctx context.Context, userID int) (response.StatisticsResponse, error) {
	todos, err := s.todos.ListAllByUser(ctx, userID)

	if err != nil {
		return response.StatisticsResponse{}, err
	}

	now := s.now().UTC()
	stats := response.StatisticsResponse{
		TotalTodos:       len(todos),
		CompletionByDate: map[string]int{},
	}

	histogramStart := now.AddDate(0, 0, -30)

	for i := range todos {
		t := &todos[i]

		switch t.Status {
		case domain.StatusCompleted:
			stats.CompletedTodos++
		case domain.StatusPending:
			stats.PendingTodos++
		case domain.StatusArchived:
			stats.ArchivedTodos++
		}

		if t.Overdue(now) {
			stats.OverdueTodos++
		}

		if !t.Status.Completed() {
			switch t.Priority {
			case domain.PriorityHigh:
				stats.HighPriorityTodos++
			case domain.PriorityMedium:
				stats.MediumPriorityTodos++
			case domain.PriorityLow:
				stats.LowPriorityTodos++
			}
		}

		if t.CompletedAt != nil && !t.CompletedAt.Before(histogramStart) {
			stats.CompletionByDate[t.CompletedAt.Format("2006-01-02")]++
		}
	}

	if stats.TotalTodos > 0 {
		rate := float64(stats.CompletedTodos) / float64(stats.TotalTodos) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}

	return stats, nil
}

// ownedTodo resolves a todo the user owns, reporting not-found rather than
// forbidden so callers cannot probe for other users' todos.
func (s *TodoService) ownedTodo(ctx context.Context, todoID, userID int) (domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, todoID)

	if err != nil {
		return domain.Todo{}, err
	}

	if !todo.BelongsTo(userID) {
		return domain.Todo{}, domain.NotFoundf("todo %d", todoID)
	}

	return todo, nil
}

func (s *TodoService) mapTodos(todos []domain.Todo, now time.Time) []response.TodoResponse {
	out := make([]response.TodoResponse, 0, len(todos))

	for i := range todos {
		out = append(out, s.mapTodo(todos[i], now))
	}

	return out
}

func (s *TodoService) mapTodo(todo domain.Todo, now time.Time) response.TodoResponse {
	return MapTodo(todo, now)
}

// MapTodo builds the read model; the derived overdue/approaching flags are
// computed relative to the supplied now.
func MapTodo(todo domain.Todo, now time.Time) response.TodoResponse {
	categories := make([]response.LabelResponse, 0, len(todo.Categories))
	for _, c := range todo.Categories {
		categories = append(categories, response.LabelResponse{
			ID:          c.ID,
			Name:        c.Name,
			Color:       c.Color,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}

	tags := make([]response.LabelResponse, 0, len(todo.Tags))
	for _, t := range todo.Tags {
		tags = append(tags, response.LabelResponse{
			ID:          t.ID,
			Name:        t.Name,
			Color:       t.Color,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}

	return response.TodoResponse{
		ID:               todo.ID,
		Title:            todo.Title,
		Description:      todo.Description,
		Status:           todo.Status.String(),
		IsCompleted:      todo.Status.Completed(),
		IsArchived:       todo.Status.Archived(),
		DueDate:          todo.DueDate,
		ReminderDate:     todo.ReminderDate,
		Priority:         todo.Priority,
		DisplayOrder:     todo.DisplayOrder,
		IsOverdue:        todo.Overdue(now),
		IsApproachingDue: todo.ApproachingDue(now),
		CreatedAt:        todo.CreatedAt,
		UpdatedAt:        todo.UpdatedAt,
		CompletedAt:      todo.CompletedAt,
		ArchivedAt:       todo.ArchivedAt,
		Categories:       categories,
		Tags:             tags,
	}
}
