package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/port"
)

// LogSender writes notifications to the structured log and pushes them to the
// realtime hub when one is attached. It stands in for an email or push
// provider without changing the poller.
type LogSender struct {
	logger   zerolog.Logger
	realtime port.RealtimePublisher
}

func NewLogSender(logger zerolog.Logger, realtime port.RealtimePublisher) *LogSender {
	return &LogSender{
		logger:   logger.With().Str("component", "notifications").Logger(),
		realtime: realtime,
	}
}

func (s *LogSender) SendReminder(ctx context.Context, todo domain.Todo, user domain.User) error {
	s.logger.Info().
		Int("todo_id", todo.ID).
		Str("title", todo.Title).
		Str("email", user.Email).
		Time("reminder_date", derefTime(todo.ReminderDate)).
		Msg("reminder notification")

	s.publish(user.ID, "ReminderDue", todo)

	return nil
}

func (s *LogSender) SendOverdue(ctx context.Context, todo domain.Todo, user domain.User) error {
	s.logger.Info().
		Int("todo_id", todo.ID).
		Str("title", todo.Title).
		Str("email", user.Email).
		Time("due_date", derefTime(todo.DueDate)).
		Msg("overdue notification")

	s.publish(user.ID, "TodoOverdue", todo)

	return nil
}

func (s *LogSender) publish(userID int, event string, todo domain.Todo) {
	if s.realtime == nil {
		return
	}

	s.realtime.Publish(fmt.Sprintf("user_%d", userID), event, map[string]any{
		"todo_id": todo.ID,
		"title":   todo.Title,
	})
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
