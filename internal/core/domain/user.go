package domain

import (
	"strings"
	"time"
)

type User struct {
	ID                int
	Email             string `validate:"required,email"`
	EncryptedPassword string
	FirstName         string
	LastName          string
	Theme             string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func ValidateTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark:
		return nil
	default:
		return Invalidf("theme must be %q or %q", ThemeLight, ThemeDark)
	}
}
