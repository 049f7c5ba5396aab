package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/port"
)

// SharingService is the authorization predicate plus the sharing/activity
// engine. Owners hold implicit admin permission; everyone else holds exactly
// what their share row grants.
type SharingService struct {
	todos      port.TodoRepository
	users      port.UserRepository
	shares     port.ShareRepository
	activities port.ActivityRepository
	realtime   port.RealtimePublisher
	logger     zerolog.Logger
	now        func() time.Time
}

func NewSharingService(
	todos port.TodoRepository,
	users port.UserRepository,
	shares port.ShareRepository,
	activities port.ActivityRepository,
	realtime port.RealtimePublisher,
	logger zerolog.Logger,
) *SharingService {
	return &SharingService{
		todos:      todos,
		users:      users,
		shares:     shares,
		activities: activities,
		realtime:   realtime,
		logger:     logger.With().Str("service", "sharing").Logger(),
		now:        time.Now,
	}
}

// CanAccess reports whether the user owns the todo or holds a share on it.
func (s *SharingService) CanAccess(ctx context.Context, todoID, userID int) (bool, error) {
	todo, err := s.todos.GetByID(ctx, todoID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if todo.BelongsTo(userID) {
		return true, nil
	}

	_, err = s.shares.GetByTodoAndUser(ctx, todoID, userID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// PermissionOf resolves the user's effective permission level. The second
// return is false when the user has no access at all.
func (s *SharingService) PermissionOf(ctx context.Context, todoID, userID int) (domain.SharePermission, bool, error) {
	todo, err := s.todos.GetByID(ctx, todoID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	if todo.BelongsTo(userID) {
		return domain.PermissionAdmin, true, nil
	}

	share, err := s.shares.GetByTodoAndUser(ctx, todoID, userID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	return share.Permission, true, nil
}

// Share creates a grant. Only the owner may share; the target must exist,
// must not be the sharer, and must not already hold a share on the todo.
func (s *SharingService) Share(ctx context.Context, req request.ShareTodoRequest, actingUserID int) (response.ShareResponse, error) {
	permission, err := domain.ParsePermission(req.Permission)

	if err != nil {
		return response.ShareResponse{}, err
	}

	todo, err := s.todos.GetByID(ctx, req.TodoID)

	if err != nil {
		return response.ShareResponse{}, err
	}

	if !todo.BelongsTo(actingUserID) {
		return response.ShareResponse{}, domain.Forbiddenf("only the owner can share todo %d", req.TodoID)
	}

	if req.SharedWithUserID == actingUserID {
		return response.ShareResponse{}, domain.Conflictf("cannot share a todo with yourself")
	}

	target, err := s.users.GetByID(ctx, req.SharedWithUserID)

	if err != nil {
		return response.ShareResponse{}, err
	}

	if _, err := s.shares.GetByTodoAndUser(ctx, req.TodoID, req.SharedWithUserID); err == nil {
		return response.ShareResponse{}, domain.Conflictf("todo %d is already shared with user %d", req.TodoID, req.SharedWithUserID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return response.ShareResponse{}, err
	}

	share := domain.TodoShare{
		TodoID:           req.TodoID,
		SharedWithUserID: req.SharedWithUserID,
		SharedByUserID:   actingUserID,
		Permission:       permission,
		IsAssigned:       req.IsAssigned,
		CreatedAt:        s.now().UTC(),
	}

	created, err := s.shares.Create(ctx, share)

	if err != nil {
		return response.ShareResponse{}, err
	}

	activityType := domain.ActivityShared
	description := fmt.Sprintf("Shared with %s (%s permission)", target.Email, permission)

	if req.IsAssigned {
		activityType = domain.ActivityAssigned
		description = fmt.Sprintf("Assigned to %s", target.Email)
	}

	s.logActivity(ctx, req.TodoID, actingUserID, activityType, description, &req.SharedWithUserID)

	s.publish(fmt.Sprintf("user_%d", req.SharedWithUserID), "TodoShared", map[string]any{"todo_id": req.TodoID})
	s.publish(fmt.Sprintf("todo_%d", req.TodoID), "TodoUpdated", map[string]any{"todo_id": req.TodoID, "action": "shared"})

	return mapShare(created), nil
}

// Unshare is permitted to the owner, the shared user themself, or another
// admin-permission share holder on the same todo.
func (s *SharingService) Unshare(ctx context.Context, todoID, sharedWithUserID, actingUserID int) error {
	todo, err := s.todos.GetByID(ctx, todoID)

	if err != nil {
		return err
	}

	share, err := s.shares.GetByTodoAndUser(ctx, todoID, sharedWithUserID)

	if err != nil {
		return err
	}

	if !todo.BelongsTo(actingUserID) && sharedWithUserID != actingUserID {
		if err := s.requireAdminShare(ctx, todoID, actingUserID); err != nil {
			return err
		}
	}

	if err := s.shares.Delete(ctx, todoID, sharedWithUserID); err != nil {
		return err
	}

	activityType := domain.ActivityUnshared
	description := "Unshared"

	if share.IsAssigned {
		activityType = domain.ActivityUnassigned
		description = "Unassigned"
	}

	s.logActivity(ctx, todoID, actingUserID, activityType, description, &sharedWithUserID)

	s.publish(fmt.Sprintf("user_%d", sharedWithUserID), "TodoUnshared", map[string]any{"todo_id": todoID})
	s.publish(fmt.Sprintf("todo_%d", todoID), "TodoUpdated", map[string]any{"todo_id": todoID, "action": "unshared"})

	return nil
}

// UpdatePermission is permitted to the owner or an admin share holder.
func (s *SharingService) UpdatePermission(ctx context.Context, todoID, sharedWithUserID int, req request.UpdateSharePermissionRequest, actingUserID int) error {
	permission, err := domain.ParsePermission(req.Permission)

	if err != nil {
		return err
	}

	todo, err := s.todos.GetByID(ctx, todoID)

	if err != nil {
		return err
	}

	if !todo.BelongsTo(actingUserID) {
		if err := s.requireAdminShare(ctx, todoID, actingUserID); err != nil {
			return err
		}
	}

	share, err := s.shares.GetByTodoAndUser(ctx, todoID, sharedWithUserID)

	if err != nil {
		return err
	}

	if err := s.shares.UpdatePermission(ctx, todoID, sharedWithUserID, permission); err != nil {
		return err
	}

	description := fmt.Sprintf("Permission changed from %s to %s", share.Permission, permission)
	s.logActivity(ctx, todoID, actingUserID, domain.ActivityPermissionChanged, description, &sharedWithUserID)

	return nil
}

// ListShares returns every share row on the todo. Visible to the owner and
// admin share holders; everyone else sees an empty list.
func (s *SharingService) ListShares(ctx context.Context, todoID, userID int) ([]response.ShareResponse, error) {
	todo, err := s.todos.GetByID(ctx, todoID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []response.ShareResponse{}, nil
		}
		return nil, err
	}

	if !todo.BelongsTo(userID) {
		share, err := s.shares.GetByTodoAndUser(ctx, todoID, userID)
		if err != nil || share.Permission != domain.PermissionAdmin {
			return []response.ShareResponse{}, nil
		}
	}

	shares, err := s.shares.ListByTodo(ctx, todoID)

	if err != nil {
		return nil, err
	}

	return mapShares(shares), nil
}

// ListSharedWithMe returns every todo shared with the caller, carrying the
// caller's own grant and the full co-sharer list. Co-sharer visibility is
// deliberately not restricted to the owner in this read path.
func (s *SharingService) ListSharedWithMe(ctx context.Context, userID int) ([]response.SharedTodoResponse, error) {
	todos, err := s.shares.ListTodosSharedWith(ctx, userID)

	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := make([]response.SharedTodoResponse, 0, len(todos))

	for i := range todos {
		todo := todos[i]

		owner, err := s.users.GetByID(ctx, todo.UserID)

		if err != nil {
			return nil, err
		}

		shares, err := s.shares.ListByTodo(ctx, todo.ID)

		if err != nil {
			return nil, err
		}

		item := response.SharedTodoResponse{
			TodoResponse: MapTodo(todo, now),
			OwnerUserID:  todo.UserID,
			OwnerEmail:   owner.Email,
			OwnerName:    owner.FullName(),
			SharedWith:   mapShares(shares),
		}

		for _, share := range shares {
			if share.SharedWithUserID == userID {
				item.UserPermission = share.Permission.String()
				item.IsAssigned = share.IsAssigned
				break
			}
		}

		out = append(out, item)
	}

	return out, nil
}

// ListActivity returns the todo's audit trail, newest first, gated by the
// access predicate. Inaccessible todos read as empty rather than forbidden.
func (s *SharingService) ListActivity(ctx context.Context, todoID, userID int) ([]response.ActivityResponse, error) {
	ok, err := s.CanAccess(ctx, todoID, userID)

	if err != nil {
		return nil, err
	}

	if !ok {
		return []response.ActivityResponse{}, nil
	}

	activities, err := s.activities.ListByTodo(ctx, todoID)

	if err != nil {
		return nil, err
	}

	out := make([]response.ActivityResponse, 0, len(activities))

	for _, a := range activities {
		out = append(out, response.ActivityResponse{
			ID:               a.ID,
			TodoID:           a.TodoID,
			UserID:           a.UserID,
			UserEmail:        a.UserEmail,
			UserName:         a.UserName,
			Type:             a.Type.String(),
			Description:      a.Description,
			RelatedUserID:    a.RelatedUserID,
			RelatedUserEmail: a.RelatedUserEmail,
			RelatedUserName:  a.RelatedUserName,
			CreatedAt:        a.CreatedAt,
		})
	}

	return out, nil
}

// LogActivity appends an audit row. Exposed for the comment service.
func (s *SharingService) LogActivity(ctx context.Context, todoID, userID int, activityType domain.ActivityType, description string, relatedUserID *int) {
	s.logActivity(ctx, todoID, userID, activityType, description, relatedUserID)
}

func (s *SharingService) logActivity(ctx context.Context, todoID, userID int, activityType domain.ActivityType, description string, relatedUserID *int) {
	err := s.activities.Append(ctx, domain.TodoActivity{
		TodoID:        todoID,
		UserID:        userID,
		Type:          activityType,
		Description:   description,
		RelatedUserID: relatedUserID,
		CreatedAt:     s.now().UTC(),
	})

	if err != nil {
		s.logger.Error().Err(err).Int("todo_id", todoID).Stringer("type", activityType).Msg("failed to append activity")
	}
}

// requireAdminShare verifies the acting user holds an admin share row on the
// todo. Writes report forbidden, not not-found: the actor already proved the
// todo exists.
func (s *SharingService) requireAdminShare(ctx context.Context, todoID, userID int) error {
	share, err := s.shares.GetByTodoAndUser(ctx, todoID, userID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Forbiddenf("no admin permission on todo %d", todoID)
		}
		return err
	}

	if share.Permission != domain.PermissionAdmin {
		return domain.Forbiddenf("no admin permission on todo %d", todoID)
	}

	return nil
}

// publish pushes a realtime event; failures never surface to the caller.
func (s *SharingService) publish(groupKey, event string, payload any) {
	if s.realtime == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("event", event).Msg("realtime publish panicked")
		}
	}()

	s.realtime.Publish(groupKey, event, payload)
}

func mapShares(shares []domain.TodoShare) []response.ShareResponse {
	out := make([]response.ShareResponse, 0, len(shares))

	for _, share := range shares {
		out = append(out, mapShare(share))
	}

	return out
}

func mapShare(share domain.TodoShare) response.ShareResponse {
	return response.ShareResponse{
		ID:                  share.ID,
		TodoID:              share.TodoID,
		SharedWithUserID:    share.SharedWithUserID,
		SharedWithUserEmail: share.SharedWithEmail,
		SharedWithUserName:  share.SharedWithName,
		SharedByUserID:      share.SharedByUserID,
		SharedByUserEmail:   share.SharedByEmail,
		Permission:          share.Permission.String(),
		IsAssigned:          share.IsAssigned,
		CreatedAt:           share.CreatedAt,
		UpdatedAt:           share.UpdatedAt,
	}
}
