package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"

	"todohub/internal/core/domain"
)

// mergeData folds defaults and per-test overrides into one map so Build sees
// a single source of truth. Override values win over defaults.
func mergeData(defaults map[string]any, customData []map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults))

	for key, value := range defaults {
		merged[key] = value
	}

	for _, data := range customData {
		for key, value := range data {
			merged[key] = value
		}
	}

	return merged
}

// NewUser builds a user with a known password ("12345678") unless the test
// overrides EncryptedPassword itself.
func NewUser(customData ...map[string]any) domain.User {
	hasEncryptedPassword := false

	for _, data := range customData {
		if _, exists := data["EncryptedPassword"]; exists {
			hasEncryptedPassword = true
			break
		}
	}

	defaults := map[string]any{
		"ID":        0,
		"Theme":     domain.ThemeLight,
		"CreatedAt": time.Now().UTC(),
		"UpdatedAt": (*time.Time)(nil),
	}

	if !hasEncryptedPassword {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.DefaultCost)
		defaults["EncryptedPassword"] = string(encryptedPassword)
	}

	return fab.New(domain.User{}).Build(mergeData(defaults, customData))
}

// NewTodo builds a pending todo owned by nobody; tests override UserID.
func NewTodo(customData ...map[string]any) domain.Todo {
	defaults := map[string]any{
		"ID":           0,
		"Status":       domain.StatusPending,
		"Priority":     domain.PriorityMedium,
		"DisplayOrder": 0,
		"DueDate":      (*time.Time)(nil),
		"ReminderDate": (*time.Time)(nil),
		"CreatedAt":    time.Now().UTC(),
		"UpdatedAt":    (*time.Time)(nil),
		"CompletedAt":  (*time.Time)(nil),
		"ArchivedAt":   (*time.Time)(nil),
		"Categories":   []domain.Category(nil),
		"Tags":         []domain.Tag(nil),
	}

	return fab.New(domain.Todo{}).Build(mergeData(defaults, customData))
}

func NewCategory(customData ...map[string]any) domain.Category {
	defaults := map[string]any{
		"ID":        0,
		"Color":     domain.DefaultLabelColor,
		"CreatedAt": time.Now().UTC(),
		"UpdatedAt": (*time.Time)(nil),
	}

	return fab.New(domain.Category{}).Build(mergeData(defaults, customData))
}

func NewTag(customData ...map[string]any) domain.Tag {
	defaults := map[string]any{
		"ID":        0,
		"Color":     domain.DefaultLabelColor,
		"CreatedAt": time.Now().UTC(),
		"UpdatedAt": (*time.Time)(nil),
	}

	return fab.New(domain.Tag{}).Build(mergeData(defaults, customData))
}
