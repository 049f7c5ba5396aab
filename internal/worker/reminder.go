package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"todohub/internal/core/port"
	"todohub/pkg/metrics"
)

const defaultPollInterval = 15 * time.Minute

// ReminderPoller wakes on a fixed interval, delivers reminders whose date
// falls inside the upcoming window (skipping todos already past due), and
// re-notifies overdue todos every tick. A delivered reminder is cleared so it
// cannot fire twice; clearing happens only after a successful send, so a
// failed delivery is retried on the next tick. Overdue notices repeat until
// the todo is completed.
type ReminderPoller struct {
	todos    port.TodoRepository
	users    port.UserRepository
	sender   port.NotificationSender
	logger   zerolog.Logger
	metrics  *metrics.AppMetrics
	interval time.Duration
	now      func() time.Time
}

func NewReminderPoller(
	todos port.TodoRepository,
	users port.UserRepository,
	sender port.NotificationSender,
	logger zerolog.Logger,
	m *metrics.AppMetrics,
	interval time.Duration,
) *ReminderPoller {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &ReminderPoller{
		todos:    todos,
		users:    users,
		sender:   sender,
		logger:   logger.With().Str("worker", "reminder_poller").Logger(),
		metrics:  m,
		interval: interval,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. Poll failures are logged and retried on
// the next tick; one bad todo never stops the scan.
func (p *ReminderPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().Dur("interval", p.interval).Msg("reminder poller started")

	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-ctx.Done():
			p.logger.Info().Msg("reminder poller stopped")
			return
		}
	}
}

// Poll runs one scan. Exported so tests and manual triggers can drive the
// poller without the ticker.
func (p *ReminderPoller) Poll(ctx context.Context) {
	now := p.now().UTC()

	p.sendReminders(ctx, now)
	p.sendOverdueNotices(ctx, now)
}

func (p *ReminderPoller) sendReminders(ctx context.Context, now time.Time) {
	windowEnd := now.Add(p.interval)

	todos, err := p.todos.ListDueReminders(ctx, now, windowEnd)

	if err != nil {
		p.logger.Error().Err(err).Msg("reminder scan failed")
		return
	}

	for i := range todos {
		todo := todos[i]

		user, err := p.users.GetByID(ctx, todo.UserID)

		if err != nil {
			p.logger.Error().Err(err).Int("todo_id", todo.ID).Msg("reminder owner lookup failed")
			continue
		}

		if err := p.sender.SendReminder(ctx, todo, user); err != nil {
			p.logger.Error().Err(err).Int("todo_id", todo.ID).Msg("reminder delivery failed")
			continue
		}

		// Clear only after a successful send so a failed delivery retries.
		if err := p.todos.ClearReminder(ctx, todo.ID); err != nil {
			p.logger.Error().Err(err).Int("todo_id", todo.ID).Msg("failed to clear reminder")
			continue
		}

		if p.metrics != nil {
			p.metrics.RecordReminderSent()
		}
	}
}

func (p *ReminderPoller) sendOverdueNotices(ctx context.Context, now time.Time) {
	todos, err := p.todos.ListOverdue(ctx, now)

	if err != nil {
		p.logger.Error().Err(err).Msg("overdue scan failed")
		return
	}

	for i := range todos {
		todo := todos[i]

		user, err := p.users.GetByID(ctx, todo.UserID)

		if err != nil {
			p.logger.Error().Err(err).Int("todo_id", todo.ID).Msg("overdue owner lookup failed")
			continue
		}

		if err := p.sender.SendOverdue(ctx, todo, user); err != nil {
			p.logger.Error().Err(err).Int("todo_id", todo.ID).Msg("overdue delivery failed")
			continue
		}

		if p.metrics != nil {
			p.metrics.RecordOverdueNotice()
		}
	}
}
