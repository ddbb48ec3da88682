package domain

import (
	"time"

	"github.com/google/uuid"

	"todoapi/internal/core/util"
)

type Todo struct {
	ID          int
	UUID        uuid.UUID
	Title       string `validate:"required,min=3,max=100"`
	Description string
	Completed   bool
	DueDate     *time.Time
	UserId      int
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) BelongsToUser(userID int) bool {
	return t.UserId == userID
}

func (t *Todo) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
}

type TodoSort string

const (
	TodoSortCreatedAtDesc TodoSort = "created_at_desc"
	TodoSortCreatedAtAsc  TodoSort = "created_at_asc"
)

// TodoFilter narrows a listing. Completed is a tri-state toggle (nil means
// both); Query matches title or description as a case-insensitive substring.
type TodoFilter struct {
	Completed *bool
	Query     string
}

// TodoPatch carries a partial update. Each field distinguishes absent from
// explicitly set, and set-to-null from set-to-value, so an update touches
// only what the caller supplied. Tags, when set (even empty or null),
// replaces the whole tag set.
type TodoPatch struct {
	Title       util.Field[string]
	Description util.Field[string]
	Completed   util.Field[bool]
	DueDate     util.Field[time.Time]
	Tags        util.Field[[]string]
}

func (p *TodoPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set &&
		!p.DueDate.Set && !p.Tags.Set
}
