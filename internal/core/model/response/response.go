package response

import "time"

type UserResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type LabelResponse struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TodoResponse is the read model for a todo. IsCompleted and IsArchived are
// views over the status machine; IsOverdue and IsApproachingDue are computed
// relative to "now" when the response is built.
type TodoResponse struct {
	ID               int             `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Status           string          `json:"status"`
	IsCompleted      bool            `json:"is_completed"`
	IsArchived       bool            `json:"is_archived"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	ReminderDate     *time.Time      `json:"reminder_date,omitempty"`
	Priority         int             `json:"priority"`
	DisplayOrder     int             `json:"display_order"`
	IsOverdue        bool            `json:"is_overdue"`
	IsApproachingDue bool            `json:"is_approaching_due"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	ArchivedAt       *time.Time      `json:"archived_at,omitempty"`
	Categories       []LabelResponse `json:"categories"`
	Tags             []LabelResponse `json:"tags"`
}

type SearchFilterResponse struct {
	Todos      []TodoResponse `json:"todos"`
	TotalCount int            `json:"total_count"`
	PageNumber int            `json:"page_number"`
	PageSize   int            `json:"page_size"`
}

type ShareResponse struct {
	ID                  int        `json:"id"`
	TodoID              int        `json:"todo_id"`
	SharedWithUserID    int        `json:"shared_with_user_id"`
	SharedWithUserEmail string     `json:"shared_with_user_email"`
	SharedWithUserName  string     `json:"shared_with_user_name"`
	SharedByUserID      int        `json:"shared_by_user_id"`
	SharedByUserEmail   string     `json:"shared_by_user_email"`
	Permission          string     `json:"permission"`
	IsAssigned          bool       `json:"is_assigned"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

// SharedTodoResponse is a todo as seen by someone it was shared with: the
// full detail plus the caller's own grant and every co-sharer.
type SharedTodoResponse struct {
	TodoResponse

	OwnerUserID    int             `json:"owner_user_id"`
	OwnerEmail     string          `json:"owner_email"`
	OwnerName      string          `json:"owner_name"`
	UserPermission string          `json:"user_permission"`
	IsAssigned     bool            `json:"is_assigned"`
	SharedWith     []ShareResponse `json:"shared_with"`
}

type ActivityResponse struct {
	ID               int       `json:"id"`
	TodoID           int       `json:"todo_id"`
	UserID           int       `json:"user_id"`
	UserEmail        string    `json:"user_email"`
	UserName         string    `json:"user_name"`
	Type             string    `json:"type"`
	Description      string    `json:"description,omitempty"`
	RelatedUserID    *int      `json:"related_user_id,omitempty"`
	RelatedUserEmail string    `json:"related_user_email,omitempty"`
	RelatedUserName  string    `json:"related_user_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type CommentResponse struct {
	ID        int        `json:"id"`
	TodoID    int        `json:"todo_id"`
	UserID    int        `json:"user_id"`
	UserEmail string     `json:"user_email"`
	UserName  string     `json:"user_name"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type StatisticsResponse struct {
	TotalTodos          int            `json:"total_todos"`
	CompletedTodos      int            `json:"completed_todos"`
	PendingTodos        int            `json:"pending_todos"`
	ArchivedTodos       int            `json:"archived_todos"`
	OverdueTodos        int            `json:"overdue_todos"`
	HighPriorityTodos   int            `json:"high_priority_todos"`
	MediumPriorityTodos int            `json:"medium_priority_todos"`
	LowPriorityTodos    int            `json:"low_priority_todos"`
	CompletionRate      float64        `json:"completion_rate"`
	CompletionByDate    map[string]int `json:"completion_by_date"`
}

type FilterPresetResponse struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	SearchQuery   string     `json:"search_query,omitempty"`
	IsCompleted   *bool      `json:"is_completed,omitempty"`
	IsOverdue     *bool      `json:"is_overdue,omitempty"`
	Priority      *int       `json:"priority,omitempty"`
	CategoryIDs   []int      `json:"category_ids,omitempty"`
	TagIDs        []int      `json:"tag_ids,omitempty"`
	DueDateFrom   *time.Time `json:"due_date_from,omitempty"`
	DueDateTo     *time.Time `json:"due_date_to,omitempty"`
	CreatedAtFrom *time.Time `json:"created_at_from,omitempty"`
	CreatedAtTo   *time.Time `json:"created_at_to,omitempty"`
	SortBy        string     `json:"sort_by,omitempty"`
	SortOrder     string     `json:"sort_order,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type BulkResponse struct {
	UpdatedCount int `json:"updated_count"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
