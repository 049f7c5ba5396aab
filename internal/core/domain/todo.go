package domain

import (
	"fmt"
	"strings"
	"time"
)

// TodoStatus is the single source of truth for a todo's lifecycle. The
// boolean views the API exposes (isCompleted, isArchived) are derived from
// it, never stored separately.
type TodoStatus int

const (
	StatusPending TodoStatus = iota
	StatusCompleted
	StatusArchived
)

func (s TodoStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

func (s TodoStatus) Completed() bool {
	return s == StatusCompleted
}

func (s TodoStatus) Archived() bool {
	return s == StatusArchived
}

func ParseStatus(status string) (TodoStatus, error) {
	switch strings.ToLower(status) {
	case "pending", "":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	case "archived":
		return StatusArchived, nil
	default:
		return 0, Invalidf("invalid status %q, valid statuses are: pending, completed, archived", status)
	}
}

// Priority levels. Stored as the raw int the original API used.
const (
	PriorityLow    = 0
	PriorityMedium = 1
	PriorityHigh   = 2
)

const approachingDueWindow = 3 * 24 * time.Hour

type Todo struct {
	ID           int
	UserID       int
	Title        string `validate:"required,min=1,max=255"`
	Description  string `validate:"max=2000"`
	Status       TodoStatus
	DueDate      *time.Time
	ReminderDate *time.Time
	Priority     int `validate:"gte=0,lte=2"`
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	CompletedAt  *time.Time
	ArchivedAt   *time.Time

	Categories []Category
	Tags       []Tag
}

func (t *Todo) BelongsTo(userID int) bool {
	return t.UserID == userID
}

// Overdue reports whether the todo is past due and still open.
func (t *Todo) Overdue(now time.Time) bool {
	return t.DueDate != nil && !t.Status.Completed() && t.DueDate.Before(now)
}

// ApproachingDue reports whether the due date falls within the next three
// days. An overdue todo is never approaching.
func (t *Todo) ApproachingDue(now time.Time) bool {
	if t.DueDate == nil || t.Status.Completed() || t.Overdue(now) {
		return false
	}

	return !t.DueDate.Before(now) && !t.DueDate.After(now.Add(approachingDueWindow))
}

// MarkCompleted and MarkPending drive the status machine so completedAt can
// never disagree with the status.
func (t *Todo) MarkCompleted(now time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = &now
}

func (t *Todo) MarkPending(now time.Time) {
	t.Status = StatusPending
	t.CompletedAt = nil
	t.UpdatedAt = &now
}

func (t *Todo) Archive(now time.Time) {
	t.Status = StatusArchived
	t.ArchivedAt = &now
	t.UpdatedAt = &now
}

func ValidatePriority(priority int) error {
	if priority < PriorityLow || priority > PriorityHigh {
		return Invalidf("priority must be between %d and %d, got %d", PriorityLow, PriorityHigh, priority)
	}

	return nil
}

// Sort fields accepted by the search endpoint. Anything else falls back to
// created_at, matching the documented leniency for malformed enumerated
// values.
const (
	SortByTitle     = "title"
	SortByPriority  = "priority"
	SortByDueDate   = "duedate"
	SortByCreatedAt = "createdat"
)

func NormalizeSortBy(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case SortByTitle, SortByPriority, SortByDueDate:
		return strings.ToLower(sortBy)
	default:
		return SortByCreatedAt
	}
}

func NormalizeSortOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "asc"
	}

	return "desc"
}

// EndOfDay extends an inclusive range bound to the last nanosecond of the
// given calendar date.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfDay truncates to midnight of the given calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (t *Todo) String() string {
	return fmt.Sprintf("Todo(%d %q %s)", t.ID, t.Title, t.Status)
}
