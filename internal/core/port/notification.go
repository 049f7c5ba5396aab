package port

import (
	"context"

	"todohub/internal/core/domain"
)

// NotificationSender delivers reminder and overdue notices. Fire-and-forget:
// callers log failures and move on.
type NotificationSender interface {
	SendReminder(ctx context.Context, todo domain.Todo, user domain.User) error
	SendOverdue(ctx context.Context, todo domain.Todo, user domain.User) error
}

// RealtimePublisher pushes events to connected clients. Group keys follow the
// "user_<id>" / "todo_<id>" convention. Failures are non-fatal.
type RealtimePublisher interface {
	Publish(groupKey, event string, payload any)
}
