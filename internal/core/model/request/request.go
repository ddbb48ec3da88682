package request

import (
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/util"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type TodoCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags" validate:"dive,required,max=50"`
}

// TodoUpdateRequest uses tri-state fields: a key left out of the body is not
// touched, an explicit null clears a nullable field, and tags (when present,
// even empty) replace the todo's whole tag set.
type TodoUpdateRequest struct {
	Title       util.Field[string]    `json:"title"`
	Description util.Field[string]    `json:"description"`
	Completed   util.Field[bool]      `json:"completed"`
	DueDate     util.Field[time.Time] `json:"due_date"`
	Tags        util.Field[[]string]  `json:"tags"`
}

func (r *TodoUpdateRequest) ToPatch() domain.TodoPatch {
	return domain.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
}
