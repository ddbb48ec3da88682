package response

import (
	"time"

	"github.com/google/uuid"

	"todoapi/internal/core/domain"
)

type UserSummary struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type UserResponse struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

type TagResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TodoResponse struct {
	ID          int           `json:"id"`
	UUID        uuid.UUID     `json:"uuid"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Completed   bool          `json:"completed"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TodoPage is the paginated envelope: Total counts the full filtered set
// before limit/offset are applied.
type TodoPage struct {
	Items  []TodoResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		UUID:      u.UUID.String(),
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewTodoResponse(t domain.Todo) TodoResponse {
	tags := make([]TagResponse, 0, len(t.Tags))

	for _, tag := range t.Tags {
		tags = append(tags, TagResponse{ID: tag.ID, Name: tag.Name})
	}

	return TodoResponse{
		ID:          t.ID,
		UUID:        t.UUID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Tags:        tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
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
