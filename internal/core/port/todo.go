package port

import (
	"context"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
)

// TodoRepository is the owner-scoped data-access boundary. Every operation
// takes the owning user id and applies it as a hard filter; a todo that
// exists under another owner is reported as domain.ErrNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo, tagNames []string) (domain.Todo, error)
	GetByID(ctx context.Context, id, ownerID int) (domain.Todo, error)
	List(ctx context.Context, ownerID int, filter domain.TodoFilter, sort domain.TodoSort, limit, offset int) ([]domain.Todo, int, error)
	Update(ctx context.Context, id, ownerID int, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id, ownerID int) (bool, error)
	MarkComplete(ctx context.Context, id, ownerID int) (domain.Todo, error)
	ListOverdue(ctx context.Context, ownerID, limit, offset int) ([]domain.Todo, int, error)
	ListDueToday(ctx context.Context, ownerID, limit, offset int) ([]domain.Todo, int, error)
}

type TodoService interface {
	Create(ctx context.Context, todo domain.Todo, tagNames []string) (response.TodoResponse, error)
	Get(ctx context.Context, id, ownerID int) (response.TodoResponse, error)
	List(ctx context.Context, ownerID int, filter domain.TodoFilter, sort domain.TodoSort, limit, offset int) (*response.TodoPage, error)
	Update(ctx context.Context, id, ownerID int, patch domain.TodoPatch) (response.TodoResponse, error)
	Delete(ctx context.Context, id, ownerID int) (bool, error)
	MarkComplete(ctx context.Context, id, ownerID int) (response.TodoResponse, error)
	ListOverdue(ctx context.Context, ownerID, limit, offset int) (*response.TodoPage, error)
	ListDueToday(ctx context.Context, ownerID, limit, offset int) (*response.TodoPage, error)
}
