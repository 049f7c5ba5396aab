package request

import (
	"time"

	"todohub/internal/core/domain"
)

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName domain.Patch[string] `json:"first_name"`
	LastName  domain.Patch[string] `json:"last_name"`
}

type ThemePreferenceRequest struct {
	Theme string `json:"theme" validate:"required"`
}

type CreateTodoRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=255"`
	Description  string     `json:"description" validate:"max=2000"`
	DueDate      *time.Time `json:"due_date"`
	ReminderDate *time.Time `json:"reminder_date"`
	Priority     int        `json:"priority" validate:"gte=0,lte=2"`
	CategoryIDs  []int      `json:"category_ids"`
	TagIDs       []int      `json:"tag_ids"`
}

// UpdateTodoRequest carries partial-update semantics: an unset Patch leaves
// the field untouched, an explicitly empty id list clears every association.
type UpdateTodoRequest struct {
	Title        domain.Patch[string]     `json:"title"`
	Description  domain.Patch[string]     `json:"description"`
	IsCompleted  domain.Patch[bool]       `json:"is_completed"`
	DueDate      domain.Patch[*time.Time] `json:"due_date"`
	ReminderDate domain.Patch[*time.Time] `json:"reminder_date"`
	Priority     domain.Patch[int]        `json:"priority"`
	CategoryIDs  domain.Patch[[]int]      `json:"category_ids"`
	TagIDs       domain.Patch[[]int]      `json:"tag_ids"`
}

// SearchFilterRequest is the multi-field search/filter/sort/pagination input.
// All fields are optional; the composition order is fixed in the repository.
type SearchFilterRequest struct {
	SearchQuery   string     `json:"search_query" form:"search_query"`
	IsCompleted   *bool      `json:"is_completed" form:"is_completed"`
	IsArchived    *bool      `json:"is_archived" form:"is_archived"`
	Status        *string    `json:"status" form:"status"`
	IsOverdue     *bool      `json:"is_overdue" form:"is_overdue"`
	HideCompleted *bool      `json:"hide_completed" form:"hide_completed"`
	Priority      *int       `json:"priority" form:"priority"`
	CategoryIDs   []int      `json:"category_ids" form:"category_ids"`
	TagIDs        []int      `json:"tag_ids" form:"tag_ids"`
	DueDateFrom   *time.Time `json:"due_date_from" form:"due_date_from"`
	DueDateTo     *time.Time `json:"due_date_to" form:"due_date_to"`
	CreatedAtFrom *time.Time `json:"created_at_from" form:"created_at_from"`
	CreatedAtTo   *time.Time `json:"created_at_to" form:"created_at_to"`
	SortBy        string     `json:"sort_by" form:"sort_by"`
	SortOrder     string     `json:"sort_order" form:"sort_order"`
	PageNumber    int        `json:"page_number" form:"page_number"`
	PageSize      int        `json:"page_size" form:"page_size"`
}

type BulkTodoRequest struct {
	TodoIDs     []int `json:"todo_ids" validate:"required,min=1"`
	IsCompleted bool  `json:"is_completed"`
}

type TodoOrder struct {
	TodoID       int `json:"todo_id" validate:"required"`
	DisplayOrder int `json:"display_order"`
}

type ReorderTodosRequest struct {
	TodoOrders []TodoOrder `json:"todo_orders" validate:"required,min=1,dive"`
}

type ArchiveOldRequest struct {
	DaysOld int `json:"days_old" validate:"gte=0"`
}

type ShareTodoRequest struct {
	TodoID           int    `json:"todo_id" validate:"required"`
	SharedWithUserID int    `json:"shared_with_user_id" validate:"required"`
	Permission       string `json:"permission"`
	IsAssigned       bool   `json:"is_assigned"`
}

type UpdateSharePermissionRequest struct {
	Permission string `json:"permission" validate:"required"`
}

type CreateCommentRequest struct {
	TodoID  int    `json:"todo_id" validate:"required"`
	Comment string `json:"comment" validate:"required,min=1,max=2000"`
}

type UpdateCommentRequest struct {
	Comment string `json:"comment" validate:"required,min=1,max=2000"`
}

type LabelRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateLabelRequest struct {
	Name        domain.Patch[string] `json:"name"`
	Color       domain.Patch[string] `json:"color"`
	Description domain.Patch[string] `json:"description"`
}

type FilterPresetRequest struct {
	Name          string     `json:"name" validate:"required,min=1,max=100"`
	SearchQuery   string     `json:"search_query"`
	IsCompleted   *bool      `json:"is_completed"`
	IsOverdue     *bool      `json:"is_overdue"`
	Priority      *int       `json:"priority"`
	CategoryIDs   []int      `json:"category_ids"`
	TagIDs        []int      `json:"tag_ids"`
	DueDateFrom   *time.Time `json:"due_date_from"`
	DueDateTo     *time.Time `json:"due_date_to"`
	CreatedAtFrom *time.Time `json:"created_at_from"`
	CreatedAtTo   *time.Time `json:"created_at_to"`
	SortBy        string     `json:"sort_by"`
	SortOrder     string     `json:"sort_order"`
}
