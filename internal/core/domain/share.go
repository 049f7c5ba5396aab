package domain

import (
	"strings"
	"time"
)

// SharePermission levels form a strict ladder: ViewOnly < Edit < Admin.
type SharePermission int

const (
	PermissionViewOnly SharePermission = iota
	PermissionEdit
	PermissionAdmin
)

func (p SharePermission) String() string {
	switch p {
	case PermissionViewOnly:
		return "view_only"
	case PermissionEdit:
		return "edit"
	case PermissionAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// AtLeast reports whether p grants everything min grants.
func (p SharePermission) AtLeast(min SharePermission) bool {
	return p >= min
}

func ParsePermission(permission string) (SharePermission, error) {
	switch strings.ToLower(permission) {
	case "view_only", "viewonly", "":
		return PermissionViewOnly, nil
	case "edit":
		return PermissionEdit, nil
	case "admin":
		return PermissionAdmin, nil
	default:
		return 0, Invalidf("invalid permission %q, valid permissions are: view_only, edit, admin", permission)
	}
}

// TodoShare grants one user a permission level on one todo. At most one row
// may exist per (todo, user) pair; ownership is never transferred by shares.
type TodoShare struct {
	ID               int
	TodoID           int
	SharedWithUserID int
	SharedByUserID   int
	Permission       SharePermission
	IsAssigned       bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time

	// Display fields joined in by the repository.
	SharedWithEmail string
	SharedWithName  string
	SharedByEmail   string
}
