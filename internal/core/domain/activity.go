package domain

import "time"

// ActivityType enumerates the mutations recorded in the append-only log.
type ActivityType int

const (
	ActivityCreated ActivityType = iota
	ActivityUpdated
	ActivityCompleted
	ActivityUncompleted
	ActivityDeleted
	ActivityShared
	ActivityUnshared
	ActivityAssigned
	ActivityUnassigned
	ActivityCommentAdded
	ActivityPermissionChanged
)

func (a ActivityType) String() string {
	names := []string{
		"created", "updated", "completed", "uncompleted", "deleted",
		"shared", "unshared", "assigned", "unassigned",
		"comment_added", "permission_changed",
	}

	if int(a) < 0 || int(a) >= len(names) {
		return "unknown"
	}

	return names[a]
}

// TodoActivity rows are never updated or deleted through normal flows.
type TodoActivity struct {
	ID            int
	TodoID        int
	UserID        int
	Type          ActivityType
	Description   string
	RelatedUserID *int
	CreatedAt     time.Time

	// Display fields joined in by the repository.
	UserEmail        string
	UserName         string
	RelatedUserEmail string
	RelatedUserName  string
}
