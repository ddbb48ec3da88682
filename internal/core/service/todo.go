package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
)

// TodoService is pure orchestration: it stamps new todos, delegates to the
// owner-scoped repository and shapes results into the paginated envelope.
// No business rule lives here.
type TodoService struct {
	repo port.TodoRepository
}

func NewTodoService(repo port.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo, tagNames []string) (response.TodoResponse, error) {
	now := time.Now().UTC()

	todo.UUID = uuid.New()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	saved, err := ts.repo.Create(ctx, todo, tagNames)

	if err != nil {
		slog.Error("Todo#Create", "error", err, "title", todo.Title)
		return response.TodoResponse{}, err
	}

	return response.NewTodoResponse(saved), nil
}

func (ts *TodoService) Get(ctx context.Context, id, ownerID int) (response.TodoResponse, error) {
	todo, err := ts.repo.GetByID(ctx, id, ownerID)

	if err != nil {
		return response.TodoResponse{}, err
	}

	return response.NewTodoResponse(todo), nil
}

func (ts *TodoService) List(ctx context.Context, ownerID int, filter domain.TodoFilter, sort domain.TodoSort, limit, offset int) (*response.TodoPage, error) {
	todos, total, err := ts.repo.List(ctx, ownerID, filter, sort, limit, offset)

	if err != nil {
		return nil, err
	}

	return newTodoPage(todos, total, limit, offset), nil
}

func (ts *TodoService) Update(ctx context.Context, id, ownerID int, patch domain.TodoPatch) (response.TodoResponse, error) {
	// An empty patch is a read; it does not even touch updated_at.
	if patch.Empty() {
		return ts.Get(ctx, id, ownerID)
	}

	todo, err := ts.repo.Update(ctx, id, ownerID, patch)

	if err != nil {
		return response.TodoResponse{}, err
	}

	return response.NewTodoResponse(todo), nil
}

func (ts *TodoService) Delete(ctx context.Context, id, ownerID int) (bool, error) {
	return ts.repo.Delete(ctx, id, ownerID)
}

func (ts *TodoService) MarkComplete(ctx context.Context, id, ownerID int) (response.TodoResponse, error) {
	todo, err := ts.repo.MarkComplete(ctx, id, ownerID)

	if err != nil {
		return response.TodoResponse{}, err
	}

	return response.NewTodoResponse(todo), nil
}

func (ts *TodoService) ListOverdue(ctx context.Context, ownerID, limit, offset int) (*response.TodoPage, error) {
	todos, total, err := ts.repo.ListOverdue(ctx, ownerID, limit, offset)

	if err != nil {
		return nil, err
	}

	return newTodoPage(todos, total, limit, offset), nil
}

func (ts *TodoService) ListDueToday(ctx context.Context, ownerID, limit, offset int) (*response.TodoPage, error) {
	todos, total, err := ts.repo.ListDueToday(ctx, ownerID, limit, offset)

	if err != nil {
		return nil, err
	}

	return newTodoPage(todos, total, limit, offset), nil
}

func newTodoPage(todos []domain.Todo, total, limit, offset int) *response.TodoPage {
	items := make([]response.TodoResponse, 0, len(todos))

	for _, todo := range todos {
		items = append(items, response.NewTodoResponse(todo))
	}

	return &response.TodoPage{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
