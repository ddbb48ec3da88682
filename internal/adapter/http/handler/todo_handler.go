package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/helper"
	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/internal/shared"
)

type TodoHandler struct {
	svc     port.TodoService
	metrics *shared.AppMetrics
}

func NewTodoHandler(svc port.TodoService, metrics *shared.AppMetrics) *TodoHandler {
	return &TodoHandler{svc: svc, metrics: metrics}
}

func (t *TodoHandler) GetTodos(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	filter := domain.TodoFilter{Query: c.Query("q")}

	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)

		if err != nil {
			helper.SendFieldError(c, http.StatusBadRequest, "BAD_REQUEST", "completed", "completed must be true or false")
			return
		}

		filter.Completed = &completed
	}

	sort := domain.TodoSortCreatedAtDesc

	if c.Query("sort") == string(domain.TodoSortCreatedAtAsc) {
		sort = domain.TodoSortCreatedAtAsc
	}

	limit, offset := helper.ParsePagination(c)

	page, err := t.svc.List(ctx, ownerID, filter, sort, limit, offset)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	id, ok := todoID(c)

	if !ok {
		return
	}

	todo, err := t.svc.Get(ctx, id, ownerID)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	params, err := helper.BindJSON[request.TodoCreateRequest](c)

	if err != nil {
		helper.SendFieldError(c, http.StatusBadRequest, "BAD_REQUEST", "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	todo := domain.Todo{
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
		DueDate:     params.DueDate,
		UserId:      ownerID,
	}

	created, err := t.svc.Create(ctx, todo, params.Tags)

	if err != nil {
		t.metrics.RecordTodoOperation("create", "failure")
		helper.SendDomainError(c, err)
		return
	}

	t.metrics.RecordTodoOperation("create", "success")

	if len(params.Tags) > 0 {
		t.metrics.RecordTagResolution()
	}

	c.JSON(http.StatusCreated, created)
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	id, ok := todoID(c)

	if !ok {
		return
	}

	params, err := helper.BindJSON[request.TodoUpdateRequest](c)

	if err != nil {
		helper.SendFieldError(c, http.StatusBadRequest, "BAD_REQUEST", "request", "Invalid request parameters")
		return
	}

	if errs := validatePatch(&params); len(errs) > 0 {
		helper.SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", errs)
		return
	}

	updated, err := t.svc.Update(ctx, id, ownerID, params.ToPatch())

	if err != nil {
		t.metrics.RecordTodoOperation("update", "failure")
		helper.SendDomainError(c, err)
		return
	}

	t.metrics.RecordTodoOperation("update", "success")

	if params.Tags.Set {
		t.metrics.RecordTagResolution()
	}

	c.JSON(http.StatusOK, updated)
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	id, ok := todoID(c)

	if !ok {
		return
	}

	deleted, err := t.svc.Delete(ctx, id, ownerID)

	if err != nil {
		t.metrics.RecordTodoOperation("delete", "failure")
		helper.SendDomainError(c, err)
		return
	}

	if !deleted {
		helper.SendDomainError(c, domain.ErrNotFound)
		return
	}

	t.metrics.RecordTodoOperation("delete", "success")
	helper.SendSuccess(c, http.StatusOK, nil, "Todo deleted successfully")
}

func (t *TodoHandler) CompleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	id, ok := todoID(c)

	if !ok {
		return
	}

	todo, err := t.svc.MarkComplete(ctx, id, ownerID)

	if err != nil {
		t.metrics.RecordTodoOperation("complete", "failure")
		helper.SendDomainError(c, err)
		return
	}

	t.metrics.RecordTodoOperation("complete", "success")
	c.JSON(http.StatusOK, todo)
}

func (t *TodoHandler) GetOverdueTodos(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	limit, offset := helper.ParsePagination(c)

	page, err := t.svc.ListOverdue(ctx, ownerID, limit, offset)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (t *TodoHandler) GetTodosDueToday(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := c.GetInt("x-user-id")

	limit, offset := helper.ParsePagination(c)

	page, err := t.svc.ListDueToday(ctx, ownerID, limit, offset)

	if err != nil {
		helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func todoID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil || id < 1 {
		helper.SendFieldError(c, http.StatusBadRequest, "BAD_REQUEST", "id", "id must be a positive integer")
		return 0, false
	}

	return id, true
}

// validatePatch checks only the fields the body actually carried. Title and
// completed are not nullable, so an explicit null is rejected rather than
// silently ignored.
func validatePatch(params *request.TodoUpdateRequest) []response.ValidationError {
	var errs []response.ValidationError

	if params.Title.Set {
		if !params.Title.Valid {
			errs = append(errs, response.ValidationError{Field: "title", Message: "title cannot be null"})
		} else if err := validation.Validator.Var(params.Title.Value, "min=3,max=100"); err != nil {
			errs = append(errs, response.ValidationError{Field: "title", Message: "title must be between 3 and 100 characters"})
		}
	}

	if params.Description.Set && params.Description.Valid {
		if err := validation.Validator.Var(params.Description.Value, "max=1000"); err != nil {
			errs = append(errs, response.ValidationError{Field: "description", Message: "description must be at most 1000 characters"})
		}
	}

	if params.Completed.Set && !params.Completed.Valid {
		errs = append(errs, response.ValidationError{Field: "completed", Message: "completed cannot be null"})
	}

	if params.Tags.Set && params.Tags.Valid {
		for _, name := range params.Tags.Value {
			if err := validation.Validator.Var(name, "required,max=50"); err != nil {
				errs = append(errs, response.ValidationError{Field: "tags", Message: "tags must be non-empty and at most 50 characters"})
				break
			}
		}
	}

	return errs
}
