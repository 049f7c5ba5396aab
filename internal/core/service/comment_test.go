package service_test

import (
	"context"
	"testing"

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

type CommentServiceTestSuite struct {
	suite.Suite
	Service  *CommentService
	Sharing  *SharingService
	Todos    *TodoService
	UserRepo port.UserRepository
	ctx      context.Context
	owner    domain.User
	friend   domain.User
	stranger domain.User
	todoID   int
}

func (s *CommentServiceTestSuite) SetupTest() {
	db := test.NewDB(s.T())

	s.ctx = context.Background()

	todoRepo := repository.NewTodoRepository(db)
	s.UserRepo = repository.NewUserRepository(db)
	shareRepo := repository.NewShareRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)

	s.Sharing = NewSharingService(todoRepo, s.UserRepo, shareRepo, activityRepo, nil, zerolog.Nop())
	s.Service = NewCommentService(commentRepo, todoRepo, s.Sharing, zerolog.Nop())
	s.Todos = NewTodoService(todoRepo, categoryRepo, tagRepo, zerolog.Nop())

	s.owner, _ = s.UserRepo.Create(s.ctx, factory.NewUser(map[string]any{
		"Email": "owner@example.com",
	}))
	s.friend, _ = s.UserRepo.Create(s.ctx, factory.NewUser(map[string]any{
		"Email": "friend@example.com",
	}))
	s.stranger, _ = s.UserRepo.Create(s.ctx, factory.NewUser(map[string]any{
		"Email": "stranger@example.com",
	}))

	created, err := s.Todos.Create(s.ctx, s.owner.ID, request.CreateTodoRequest{Title: "Discussed"})
	assert.NoError(s.T(), err)
	s.todoID = created.ID

	_, err = s.Sharing.Share(s.ctx, request.ShareTodoRequest{
		TodoID:           s.todoID,
		SharedWithUserID: s.friend.ID,
		Permission:       "view_only",
	}, s.owner.ID)
	assert.NoError(s.T(), err)
}

func TestCommentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommentServiceTestSuite))
}

func (s *CommentServiceTestSuite) TestCreate_ByShareHolder() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Looks good",
	}, s.friend.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Looks good", comment.Comment)
	assert.Equal(s.T(), s.friend.ID, comment.UserID)
	assert.Equal(s.T(), "friend@example.com", comment.UserEmail)

	// Commenting lands in the activity log too.
	activities, err := s.Sharing.ListActivity(s.ctx, s.todoID, s.owner.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "comment_added", activities[0].Type)
}

func (s *CommentServiceTestSuite) TestCreate_TrimsWhitespace() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "  padded text  ",
	}, s.friend.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "padded text", comment.Comment)

	updated, err := s.Service.Update(s.ctx, comment.ID, request.UpdateCommentRequest{
		Comment: "  edited  ",
	}, s.friend.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "edited", updated.Comment)
}

func (s *CommentServiceTestSuite) TestCreate_ByStrangerReadsAsNotFound() {
	_, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Sneaky",
	}, s.stranger.ID)

	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *CommentServiceTestSuite) TestGet_GatedByTodoAccess() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Visible to the thread",
	}, s.owner.ID)
	assert.NoError(s.T(), err)

	fetched, err := s.Service.Get(s.ctx, comment.ID, s.friend.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Visible to the thread", fetched.Comment)

	_, err = s.Service.Get(s.ctx, comment.ID, s.stranger.ID)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *CommentServiceTestSuite) TestUpdate_ByAuthor() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Draft",
	}, s.friend.ID)
	assert.NoError(s.T(), err)

	updated, err := s.Service.Update(s.ctx, comment.ID, request.UpdateCommentRequest{
		Comment: "Final",
	}, s.friend.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Final", updated.Comment)
	assert.NotNil(s.T(), updated.UpdatedAt)
}

func (s *CommentServiceTestSuite) TestUpdate_ByNonAuthorViewOnlyForbidden() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Mine",
	}, s.owner.ID)
	assert.NoError(s.T(), err)

	_, err = s.Service.Update(s.ctx, comment.ID, request.UpdateCommentRequest{
		Comment: "Hijacked",
	}, s.friend.ID)

	assert.ErrorIs(s.T(), err, domain.ErrForbidden)
}

func (s *CommentServiceTestSuite) TestUpdate_ByTodoOwnerForbidden() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Friend's words",
	}, s.friend.ID)
	assert.NoError(s.T(), err)

	// Editing is author-only; even the todo owner cannot rewrite it.
	_, err = s.Service.Update(s.ctx, comment.ID, request.UpdateCommentRequest{
		Comment: "Owner's words",
	}, s.owner.ID)

	assert.ErrorIs(s.T(), err, domain.ErrForbidden)
}

func (s *CommentServiceTestSuite) TestDelete_ByAdminShareHolderForbidden() {
	err := s.Sharing.UpdatePermission(s.ctx, s.todoID, s.friend.ID, request.UpdateSharePermissionRequest{
		Permission: "admin",
	}, s.owner.ID)
	assert.NoError(s.T(), err)

	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Owner's note",
	}, s.owner.ID)
	assert.NoError(s.T(), err)

	// Deletion is for the author or the todo owner; an admin grant on the
	// todo does not extend to other people's comments.
	err = s.Service.Delete(s.ctx, comment.ID, s.friend.ID)

	assert.ErrorIs(s.T(), err, domain.ErrForbidden)
}

func (s *CommentServiceTestSuite) TestDelete_ByTodoOwner() {
	comment, err := s.Service.Create(s.ctx, request.CreateCommentRequest{
		TodoID:  s.todoID,
		Comment: "Off topic",
	}, s.friend.ID)
	assert.NoError(s.T(), err)

	// The todo owner can moderate comments they did not write.
	err = s.Service.Delete(s.ctx, comment.ID, s.owner.ID)
	assert.NoError(s.T(), err)

	comments, err := s.Service.ListByTodo(s.ctx, s.todoID, s.owner.ID)
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), comments)
}

func (s *CommentServiceTestSuite) TestListByTodo_OrderedOldestFirst() {
	_, err := s.Service.Create(s.ctx, request.CreateCommentRequest{TodoID: s.todoID, Comment: "first"}, s.owner.ID)
	assert.NoError(s.T(), err)
	_, err = s.Service.Create(s.ctx, request.CreateCommentRequest{TodoID: s.todoID, Comment: "second"}, s.friend.ID)
	assert.NoError(s.T(), err)

	comments, err := s.Service.ListByTodo(s.ctx, s.todoID, s.friend.ID)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), comments, 2)
	assert.Equal(s.T(), "first", comments[0].Comment)
	assert.Equal(s.T(), "second", comments[1].Comment)
}

func (s *CommentServiceTestSuite) TestListByTodo_InaccessibleReadsEmpty() {
	_, err := s.Service.Create(s.ctx, request.CreateCommentRequest{TodoID: s.todoID, Comment: "hidden"}, s.owner.ID)
	assert.NoError(s.T(), err)

	comments, err := s.Service.ListByTodo(s.ctx, s.todoID, s.stranger.ID)

	assert.NoError(s.T(), err)
	assert.Empty(s.T(), comments)
}
