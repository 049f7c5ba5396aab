package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/port"
)

// CommentService handles the discussion thread on a todo. Anyone with access
// can read and post; only the author may edit a comment, and only the author
// or the todo owner may delete one.
type CommentService struct {
	comments port.CommentRepository
	todos    port.TodoRepository
	sharing  *SharingService
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCommentService(comments port.CommentRepository, todos port.TodoRepository, sharing *SharingService, logger zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		todos:    todos,
		sharing:  sharing,
		logger:   logger.With().Str("service", "comment").Logger(),
		now:      time.Now,
	}
}

func (s *CommentService) Create(ctx context.Context, req request.CreateCommentRequest, userID int) (response.CommentResponse, error) {
	ok, err := s.sharing.CanAccess(ctx, req.TodoID, userID)

	if err != nil {
		return response.CommentResponse{}, err
	}

	if !ok {
		return response.CommentResponse{}, domain.NotFoundf("todo %d", req.TodoID)
	}

	created, err := s.comments.Create(ctx, domain.TodoComment{
		TodoID:    req.TodoID,
		UserID:    userID,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: s.now().UTC(),
	})

	if err != nil {
		s.logger.Error().Err(err).Int("todo_id", req.TodoID).Msg("create comment failed")
		return response.CommentResponse{}, err
	}

	s.sharing.LogActivity(ctx, req.TodoID, userID, domain.ActivityCommentAdded, "Added a comment", nil)

	return mapComment(created), nil
}

// Get is access-gated like the thread listing; a comment on an inaccessible
// todo reads as not found.
func (s *CommentService) Get(ctx context.Context, commentID, userID int) (response.CommentResponse, error) {
	comment, err := s.comments.GetByID(ctx, commentID)

	if err != nil {
		return response.CommentResponse{}, err
	}

	ok, err := s.sharing.CanAccess(ctx, comment.TodoID, userID)

	if err != nil {
		return response.CommentResponse{}, err
	}

	if !ok {
		return response.CommentResponse{}, domain.NotFoundf("comment %d", commentID)
	}

	return mapComment(comment), nil
}

func (s *CommentService) Update(ctx context.Context, commentID int, req request.UpdateCommentRequest, userID int) (response.CommentResponse, error) {
	comment, err := s.comments.GetByID(ctx, commentID)

	if err != nil {
		return response.CommentResponse{}, err
	}

	// Only the author may edit, and only while they still have access.
	if comment.UserID != userID {
		return response.CommentResponse{}, domain.Forbiddenf("cannot modify comment %d", comment.ID)
	}

	ok, err := s.sharing.CanAccess(ctx, comment.TodoID, userID)

	if err != nil {
		return response.CommentResponse{}, err
	}

	if !ok {
		return response.CommentResponse{}, domain.Forbiddenf("cannot modify comment %d", comment.ID)
	}

	now := s.now().UTC()
	comment.Comment = strings.TrimSpace(req.Comment)
	comment.UpdatedAt = &now

	updated, err := s.comments.Update(ctx, comment)

	if err != nil {
		return response.CommentResponse{}, err
	}

	return mapComment(updated), nil
}

func (s *CommentService) Delete(ctx context.Context, commentID, userID int) error {
	comment, err := s.comments.GetByID(ctx, commentID)

	if err != nil {
		return err
	}

	if err := s.requireDelete(ctx, comment, userID); err != nil {
		return err
	}

	return s.comments.Delete(ctx, commentID)
}

// ListByTodo returns the thread oldest first. Inaccessible todos read as an
// empty thread.
func (s *CommentService) ListByTodo(ctx context.Context, todoID, userID int) ([]response.CommentResponse, error) {
	ok, err := s.sharing.CanAccess(ctx, todoID, userID)

	if err != nil {
		return nil, err
	}

	if !ok {
		return []response.CommentResponse{}, nil
	}

	comments, err := s.comments.ListByTodo(ctx, todoID)

	if err != nil {
		return nil, err
	}

	out := make([]response.CommentResponse, 0, len(comments))

	for _, c := range comments {
		out = append(out, mapComment(c))
	}

	return out, nil
}

// requireDelete allows the comment author or the todo owner to remove a
// comment.
func (s *CommentService) requireDelete(ctx context.Context, comment domain.TodoComment, userID int) error {
	if comment.UserID == userID {
		return nil
	}

	todo, err := s.todos.GetByID(ctx, comment.TodoID)

	if err != nil {
		return err
	}

	if todo.BelongsTo(userID) {
		return nil
	}

	return domain.Forbiddenf("cannot modify comment %d", comment.ID)
}

func mapComment(comment domain.TodoComment) response.CommentResponse {
	return response.CommentResponse{
		ID:        comment.ID,
		TodoID:    comment.TodoID,
		UserID:    comment.UserID,
		UserEmail: comment.UserEmail,
		UserName:  comment.UserName,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
