package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todohub/internal/adapter/database/repository"
	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/port"
	. "todohub/internal/core/service"
	"todohub/pkg/test"
	"todohub/pkg/test/factory"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service   *TodoService
	Labels    *LabelService
	TodoRepo  port.TodoRepository
	UserRepo  port.UserRepository
	ctx       context.Context
	owner     domain.User
	otherUser domain.User
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := test.NewDB(s.T())

	s.ctx = context.Background()
	s.TodoRepo = repository.NewTodoRepository(db)
	s.UserRepo = repository.NewUserRepository(db)

	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)

	s.Service = NewTodoService(s.TodoRepo, categoryRepo, tagRepo, zerolog.Nop())
	s.Labels = NewLabelService(categoryRepo, tagRepo, zerolog.Nop())

	s.owner, _ = s.UserRepo.Create(s.ctx, factory.NewUser(map[string]any{
		"Email": "owner@example.com",
	}))
	s.otherUser, _ = s.UserRepo.Create(s.ctx, factory.NewUser(map[string]any{
		"Email": "other@example.com",
	}))
}

func TestTodoServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) createTodo(userID int, req request.CreateTodoRequest) int {
	created, err := s.Service.Create(s.ctx, userID, req)
	assert.NoError(s.T(), err)
	return created.ID
}

func (s *TodoServiceTestSuite) TestCreate_AssignsDisplayOrder() {
	first, err := s.Service.Create(s.ctx, s.owner.ID, request.CreateTodoRequest{Title: "First"})
	assert.NoError(s.T(), err)

	second, err := s.Service.Create(s.ctx, s.owner.ID, request.CreateTodoRequest{Title: "Second"})
	assert.NoError(s.T(), err)

	assert.Equal(s.T(), "pending", first.Status)
	assert.False(s.T(), first.IsCompleted)
	assert.Equal(s.T(), first.DisplayOrder+1, second.DisplayOrder)
}

func (s *TodoServiceTestSuite) TestCreate_DropsUnknownLabelIDs() {
	category, err := s.Labels.CreateCategory(s.ctx, request.LabelRequest{Name: "Work"})
	assert.NoError(s.T(), err)

	created, err := s.Service.Create(s.ctx, s.owner.ID, request.CreateTodoRequest{
		Title:       "Labelled",
		CategoryIDs: []int{category.ID, 9999},
		TagIDs:      []int{12345},
	})

	assert.NoError(s.T(), err)
	assert.Len(s.T(), created.Categories, 1)
	assert.Equal(s.T(), category.ID, created.Categories[0].ID)
	assert.Empty(s.T(), created.Tags)
}

func (s *TodoServiceTestSuite) TestCreate_RejectsInvalidPriority() {
	_, err := s.Service.Create(s.ctx, s.owner.ID, request.CreateTodoRequest{
		Title:    "Broken",
		Priority: 7,
	})

	assert.ErrorIs(s.T(), err, domain.ErrInvalid)
}

func (s *TodoServiceTestSuite) TestListByCategory_ScopedToCallerAndCategory() {
	category, err := s.Labels.CreateCategory(s.ctx, request.LabelRequest{Name: "Errands"})
	assert.NoError(s.T(), err)

	tagged := s.createTodo(s.owner.ID, request.CreateTodoRequest{
		Title:       "Post office",
		CategoryIDs: []int{category.ID},
	})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Unrelated"})
	s.createTodo(s.otherUser.ID, request.CreateTodoRequest{
		Title:       "Someone else's errand",
		CategoryIDs: []int{category.ID},
	})

	todos, err := s.Service.ListByCategory(s.ctx, s.owner.ID, category.ID)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), todos, 1)
	assert.Equal(s.T(), tagged, todos[0].ID)
}

func (s *TodoServiceTestSuite) TestListByTag_UnknownTagNotFound() {
	_, err := s.Service.ListByTag(s.ctx, s.owner.ID, 9999)

	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *TodoServiceTestSuite) TestGet_OtherUsersTodoReadsAsNotFound() {
	id := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Private"})

	_, err := s.Service.Get(s.ctx, id, s.otherUser.ID)

	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *TodoServiceTestSuite) TestSearch_TextMatchesTitleAndDescription() {
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Buy groceries"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Laundry", Description: "buy detergent first"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Unrelated"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		SearchQuery: "BUY",
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, result.TotalCount)
	assert.Len(s.T(), result.Todos, 2)
}

func (s *TodoServiceTestSuite) TestSearch_TextMatchesCategoryAndTagNames() {
	category, err := s.Labels.CreateCategory(s.ctx, request.LabelRequest{Name: "UrgentWork"})
	assert.NoError(s.T(), err)
	tag, err := s.Labels.CreateTag(s.ctx, request.LabelRequest{Name: "deepfocus"})
	assert.NoError(s.T(), err)

	inCategory := s.createTodo(s.owner.ID, request.CreateTodoRequest{
		Title:       "Alpha",
		CategoryIDs: []int{category.ID},
	})
	withTag := s.createTodo(s.owner.ID, request.CreateTodoRequest{
		Title:  "Beta",
		TagIDs: []int{tag.ID},
	})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Gamma"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		SearchQuery: "urgentwork",
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), inCategory, result.Todos[0].ID)

	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		SearchQuery: "DEEPFOCUS",
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), withTag, result.Todos[0].ID)
}

func (s *TodoServiceTestSuite) TestSearch_PaginationKeepsTotalCount() {
	for i := 0; i < 5; i++ {
		s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Item"})
	}

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		PageNumber: 2,
		PageSize:   2,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 5, result.TotalCount)
	assert.Len(s.T(), result.Todos, 2)
	assert.Equal(s.T(), 2, result.PageNumber)
}

func (s *TodoServiceTestSuite) TestSearch_PageBeyondEndIsEmpty() {
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Only one"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		PageNumber: 4,
		PageSize:   10,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Empty(s.T(), result.Todos)
}

func (s *TodoServiceTestSuite) TestSearch_OverdueFilter() {
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)

	overdueID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Late", DueDate: &past})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "On time", DueDate: &future})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "No due date"})

	isOverdue := true
	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsOverdue: &isOverdue,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), overdueID, result.Todos[0].ID)
	assert.True(s.T(), result.Todos[0].IsOverdue)
}

func (s *TodoServiceTestSuite) TestSearch_OverdueCutoffIsStartOfToday() {
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	earlierToday := domain.StartOfDay(time.Now().UTC())

	lateID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Yesterday", DueDate: &yesterday})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Today", DueDate: &earlierToday})

	// A todo due today is not overdue yet; the cutoff is day granularity.
	isOverdue := true
	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsOverdue: &isOverdue,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), lateID, result.Todos[0].ID)
}

func (s *TodoServiceTestSuite) TestSearch_OverdueFalseReadsAsAbsent() {
	past := time.Now().UTC().Add(-48 * time.Hour)

	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Late", DueDate: &past})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "No due date"})

	notOverdue := false
	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsOverdue: &notOverdue,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, result.TotalCount)
}

func (s *TodoServiceTestSuite) TestSearch_PendingFilterExcludesPastDue() {
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)

	pastDueID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Past due", DueDate: &yesterday})
	upcomingID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Upcoming", DueDate: &tomorrow})
	undatedID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Undated"})
	doneID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Done"})

	_, err := s.Service.Update(s.ctx, doneID, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(true),
	})
	assert.NoError(s.T(), err)

	// is_completed=false means pending: not completed AND due date absent or
	// today-or-later. The past-due todo drops out.
	notCompleted := false
	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsCompleted: &notCompleted,
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, result.TotalCount)

	ids := []int{result.Todos[0].ID, result.Todos[1].ID}
	assert.ElementsMatch(s.T(), []int{upcomingID, undatedID}, ids)

	// An overdue request supersedes the pending rule.
	isOverdue := true
	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsCompleted: &notCompleted,
		IsOverdue:   &isOverdue,
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), pastDueID, result.Todos[0].ID)

	// is_completed=true is untouched by the pending rule.
	completed := true
	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsCompleted: &completed,
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), doneID, result.Todos[0].ID)
}

func (s *TodoServiceTestSuite) TestSearch_HideCompleted() {
	doneID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Done"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Open"})

	completed := true
	_, err := s.Service.Update(s.ctx, doneID, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(completed),
	})
	assert.NoError(s.T(), err)

	hide := true
	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		HideCompleted: &hide,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), "Open", result.Todos[0].Title)
}

func (s *TodoServiceTestSuite) archiveTodo(id int) {
	todo, err := s.TodoRepo.GetByID(s.ctx, id)
	assert.NoError(s.T(), err)

	todo.Archive(time.Now().UTC())

	_, err = s.TodoRepo.Update(s.ctx, todo, domain.Patch[[]int]{}, domain.Patch[[]int]{})
	assert.NoError(s.T(), err)
}

func (s *TodoServiceTestSuite) TestSearch_ArchivedHiddenUnlessRequested() {
	archivedID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Old"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Current"})

	s.archiveTodo(archivedID)

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), "Current", result.Todos[0].Title)

	archived := true
	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		IsArchived: &archived,
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), archivedID, result.Todos[0].ID)

	status := "archived"
	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		Status: &status,
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
}

func (s *TodoServiceTestSuite) TestSearch_HideCompletedKeepsArchivedVisible() {
	archivedID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Shelved"})
	doneID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Done"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Open"})

	s.archiveTodo(archivedID)

	_, err := s.Service.Update(s.ctx, doneID, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(true),
	})
	assert.NoError(s.T(), err)

	// hide_completed takes over the filtering: the archived default
	// exclusion does not stack on top of it.
	hide := true
	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		HideCompleted: &hide,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, result.TotalCount)

	ids := []int{result.Todos[0].ID, result.Todos[1].ID}
	assert.Contains(s.T(), ids, archivedID)
	assert.NotContains(s.T(), ids, doneID)
}

func (s *TodoServiceTestSuite) TestSearch_StatusOverridesIsCompleted() {
	doneID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Done"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Open"})

	_, err := s.Service.Update(s.ctx, doneID, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(true),
	})
	assert.NoError(s.T(), err)

	status := "completed"
	notCompleted := false

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		Status:      &status,
		IsCompleted: &notCompleted,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), doneID, result.Todos[0].ID)
}

func (s *TodoServiceTestSuite) TestSearch_CategoryAndTagFilter() {
	category, _ := s.Labels.CreateCategory(s.ctx, request.LabelRequest{Name: "Errands"})
	tag, _ := s.Labels.CreateTag(s.ctx, request.LabelRequest{Name: "urgent"})

	taggedID := s.createTodo(s.owner.ID, request.CreateTodoRequest{
		Title:       "Tagged",
		CategoryIDs: []int{category.ID},
		TagIDs:      []int{tag.ID},
	})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Plain"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		CategoryIDs: []int{category.ID},
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), taggedID, result.Todos[0].ID)

	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		TagIDs: []int{tag.ID},
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
}

func (s *TodoServiceTestSuite) TestSearch_DueDateToIsInclusiveOfWholeDay() {
	due := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Evening deadline", DueDate: &due})

	// Midnight of the same day still matches because the bound extends to
	// end of day.
	to := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		DueDateTo: &to,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
}

func (s *TodoServiceTestSuite) TestSearch_SortByDueDatePutsUndatedLast() {
	nearDue := time.Now().UTC().Add(24 * time.Hour)
	farDue := time.Now().UTC().Add(7 * 24 * time.Hour)

	nearID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Soon", DueDate: &nearDue})
	farID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Later", DueDate: &farDue})
	undatedID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Whenever"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		SortBy:    "duedate",
		SortOrder: "asc",
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []int{nearID, farID, undatedID},
		[]int{result.Todos[0].ID, result.Todos[1].ID, result.Todos[2].ID})

	result, err = s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		SortBy:    "duedate",
		SortOrder: "desc",
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []int{farID, nearID, undatedID},
		[]int{result.Todos[0].ID, result.Todos[1].ID, result.Todos[2].ID})
}

func (s *TodoServiceTestSuite) TestSearch_SortByTitle() {
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "banana"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Apple"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "cherry"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{
		SortBy:    "title",
		SortOrder: "asc",
	})

	assert.NoError(s.T(), err)
	assert.Len(s.T(), result.Todos, 3)
	assert.Equal(s.T(), "Apple", result.Todos[0].Title)
	assert.Equal(s.T(), "banana", result.Todos[1].Title)
	assert.Equal(s.T(), "cherry", result.Todos[2].Title)
}

func (s *TodoServiceTestSuite) TestSearch_ScopedToUser() {
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Mine"})
	s.createTodo(s.otherUser.ID, request.CreateTodoRequest{Title: "Theirs"})

	result, err := s.Service.Search(s.ctx, s.owner.ID, request.SearchFilterRequest{})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.TotalCount)
	assert.Equal(s.T(), "Mine", result.Todos[0].Title)
}

func (s *TodoServiceTestSuite) TestUpdate_PatchesOnlyPresentFields() {
	id := s.createTodo(s.owner.ID, request.CreateTodoRequest{
		Title:       "Original",
		Description: "Keep me",
	})

	updated, err := s.Service.Update(s.ctx, id, s.owner.ID, request.UpdateTodoRequest{
		Title: domain.Set("Renamed"),
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Renamed", updated.Title)
	assert.Equal(s.T(), "Keep me", updated.Description)
}

func (s *TodoServiceTestSuite) TestUpdate_BlankTitleRejected() {
	id := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Original"})

	_, err := s.Service.Update(s.ctx, id, s.owner.ID, request.UpdateTodoRequest{
		Title: domain.Set(""),
	})

	assert.ErrorIs(s.T(), err, domain.ErrInvalid)
}

func (s *TodoServiceTestSuite) TestUpdate_CompletionTogglesTimestamps() {
	id := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Toggle"})

	updated, err := s.Service.Update(s.ctx, id, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(true),
	})
	assert.NoError(s.T(), err)
	assert.True(s.T(), updated.IsCompleted)
	assert.NotNil(s.T(), updated.CompletedAt)

	updated, err = s.Service.Update(s.ctx, id, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(false),
	})
	assert.NoError(s.T(), err)
	assert.False(s.T(), updated.IsCompleted)
	assert.Nil(s.T(), updated.CompletedAt)
}

func (s *TodoServiceTestSuite) TestUpdate_EmptyListClearsAssociations() {
	category, _ := s.Labels.CreateCategory(s.ctx, request.LabelRequest{Name: "Home"})

	id := s.createTodo(s.owner.ID, request.CreateTodoRequest{
		Title:       "Labelled",
		CategoryIDs: []int{category.ID},
	})

	// Absent list leaves associations alone.
	updated, err := s.Service.Update(s.ctx, id, s.owner.ID, request.UpdateTodoRequest{
		Title: domain.Set("Still labelled"),
	})
	assert.NoError(s.T(), err)
	assert.Len(s.T(), updated.Categories, 1)

	// Explicit empty list clears them.
	updated, err = s.Service.Update(s.ctx, id, s.owner.ID, request.UpdateTodoRequest{
		CategoryIDs: domain.Set([]int{}),
	})
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), updated.Categories)
}

func (s *TodoServiceTestSuite) TestDelete_ScopedToOwner() {
	id := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Mine"})

	err := s.Service.Delete(s.ctx, id, s.otherUser.ID)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)

	err = s.Service.Delete(s.ctx, id, s.owner.ID)
	assert.NoError(s.T(), err)

	_, err = s.Service.Get(s.ctx, id, s.owner.ID)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *TodoServiceTestSuite) TestBulkMarkComplete_CountsMatchedRowsIdempotently() {
	first := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "One"})
	second := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Two"})
	foreign := s.createTodo(s.otherUser.ID, request.CreateTodoRequest{Title: "Not mine"})

	req := request.BulkTodoRequest{
		TodoIDs:     []int{first, second, foreign, 9999},
		IsCompleted: true,
	}

	count, err := s.Service.BulkMarkComplete(s.ctx, s.owner.ID, req)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, count)

	// Repeating the call reports the same count.
	count, err = s.Service.BulkMarkComplete(s.ctx, s.owner.ID, req)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, count)

	// The foreign todo was never touched.
	theirs, err := s.Service.Get(s.ctx, foreign, s.otherUser.ID)
	assert.NoError(s.T(), err)
	assert.False(s.T(), theirs.IsCompleted)
}

func (s *TodoServiceTestSuite) TestBulkMarkComplete_EmptyListRejected() {
	_, err := s.Service.BulkMarkComplete(s.ctx, s.owner.ID, request.BulkTodoRequest{})
	assert.ErrorIs(s.T(), err, domain.ErrInvalid)
}

func (s *TodoServiceTestSuite) TestReorder_FailsAtomicallyOnForeignID() {
	first := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "One"})
	foreign := s.createTodo(s.otherUser.ID, request.CreateTodoRequest{Title: "Not mine"})

	before, err := s.Service.Get(s.ctx, first, s.owner.ID)
	assert.NoError(s.T(), err)

	err = s.Service.Reorder(s.ctx, s.owner.ID, request.ReorderTodosRequest{
		TodoOrders: []request.TodoOrder{
			{TodoID: first, DisplayOrder: 42},
			{TodoID: foreign, DisplayOrder: 43},
		},
	})
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)

	after, err := s.Service.Get(s.ctx, first, s.owner.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), before.DisplayOrder, after.DisplayOrder)
}

func (s *TodoServiceTestSuite) TestReorder_Success() {
	first := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "One"})
	second := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Two"})

	err := s.Service.Reorder(s.ctx, s.owner.ID, request.ReorderTodosRequest{
		TodoOrders: []request.TodoOrder{
			{TodoID: first, DisplayOrder: 2},
			{TodoID: second, DisplayOrder: 1},
		},
	})
	assert.NoError(s.T(), err)

	todos, err := s.Service.List(s.ctx, s.owner.ID, "", nil)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), second, todos[0].ID)
	assert.Equal(s.T(), first, todos[1].ID)
}

func (s *TodoServiceTestSuite) TestList_FiltersByPriority() {
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "High", Priority: domain.PriorityHigh})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Low", Priority: domain.PriorityLow})

	high := domain.PriorityHigh
	todos, err := s.Service.List(s.ctx, s.owner.ID, "", &high)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), todos, 1)
	assert.Equal(s.T(), "High", todos[0].Title)
}

func (s *TodoServiceTestSuite) TestList_ExcludesArchived() {
	archivedID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Gone"})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Visible"})

	s.archiveTodo(archivedID)

	todos, err := s.Service.List(s.ctx, s.owner.ID, "", nil)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), todos, 1)
	assert.Equal(s.T(), "Visible", todos[0].Title)
}

func (s *TodoServiceTestSuite) TestStatistics() {
	past := time.Now().UTC().Add(-48 * time.Hour)

	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Open high", Priority: domain.PriorityHigh})
	s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Overdue", DueDate: &past})
	doneID := s.createTodo(s.owner.ID, request.CreateTodoRequest{Title: "Done"})

	_, err := s.Service.Update(s.ctx, doneID, s.owner.ID, request.UpdateTodoRequest{
		IsCompleted: domain.Set(true),
	})
	assert.NoError(s.T(), err)

	stats, err := s.Service.Statistics(s.ctx, s.owner.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 3, stats.TotalTodos)
	assert.Equal(s.T(), 1, stats.CompletedTodos)
	assert.Equal(s.T(), 2, stats.PendingTodos)
	assert.Equal(s.T(), 1, stats.OverdueTodos)
	assert.Equal(s.T(), 1, stats.HighPriorityTodos)
	assert.InDelta(s.T(), 33.33, stats.CompletionRate, 0.01)
	assert.NotEmpty(s.T(), stats.CompletionByDate)
}
