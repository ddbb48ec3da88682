package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/adapter/database"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/pkg/tracing"
)

var todoColumns = []string{"id", "uuid", "title", "description", "completed", "due_date", "user_id", "created_at", "updated_at"}

type TodoRepository struct {
	db *database.DB
}

func NewTodoRepository(db *database.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

// scopedTodos is the single place the owner filter is attached. Every read
// path builds on it, so a missing filter cannot drift in per operation.
func (tr *TodoRepository) scopedTodos(ownerID int) sq.SelectBuilder {
	return tr.db.QueryBuilder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"user_id": ownerID})
}

// ownedRow is the matching invariant for mutations: id and owner are always
// filtered jointly, so a foreign id behaves exactly like a missing one.
func ownedRow(id, ownerID int) sq.Eq {
	return sq.Eq{"id": id, "user_id": ownerID}
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo, tagNames []string) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Create", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "INSERT"),
		attribute.Int("user.id", todo.UserId),
	})

	defer span.End()

	var id int

	err := tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := tr.db.QueryBuilder.Insert("todos").
			Columns("uuid", "title", "description", "completed", "due_date", "user_id", "created_at", "updated_at").
			Values(todo.UUID, todo.Title, nullString(todo.Description), todo.Completed, nullTime(todo.DueDate), todo.UserId, todo.CreatedAt, todo.UpdatedAt).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
			return err
		}

		tags, err := resolveTags(ctx, tx, tr.db.QueryBuilder, tagNames)

		if err != nil {
			return err
		}

		return tr.replaceAssociations(ctx, tx, id, tags)
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error creating todo", "error", err)
		return domain.Todo{}, err
	}

	return tr.GetByID(ctx, id, todo.UserId)
}

func (tr *TodoRepository) GetByID(ctx context.Context, id, ownerID int) (domain.Todo, error) {
	stmt, args, err := tr.scopedTodos(ownerID).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodoRow(tr.db.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.ErrNotFound
	}

	if err != nil {
		slog.Error("Error getting todo", "error", err)
		return domain.Todo{}, err
	}

	if err := tr.loadTags(ctx, tr.db, []*domain.Todo{&todo}); err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) List(ctx context.Context, ownerID int, filter domain.TodoFilter, sort domain.TodoSort, limit, offset int) ([]domain.Todo, int, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.List", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("user.id", ownerID),
		attribute.Int("todo.limit", limit),
		attribute.Int("todo.offset", offset),
	})

	defer span.End()

	conds := filterConds(filter)

	order := "created_at DESC, id DESC"

	if sort == domain.TodoSortCreatedAtAsc {
		order = "created_at ASC, id ASC"
	}

	todos, total, err := tr.pagedList(ctx, ownerID, conds, order, limit, offset)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(todos)))

	return todos, total, nil
}

func (tr *TodoRepository) Update(ctx context.Context, id, ownerID int, patch domain.TodoPatch) (domain.Todo, error) {
	err := tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := tr.ensureOwned(ctx, tx, id, ownerID); err != nil {
			return err
		}

		set := map[string]interface{}{"updated_at": time.Now().UTC()}

		if patch.Title.Set && patch.Title.Valid {
			set["title"] = patch.Title.Value
		}

		if patch.Description.Set {
			set["description"] = nullString(patch.Description.Value)

			if !patch.Description.Valid {
				set["description"] = nil
			}
		}

		if patch.Completed.Set && patch.Completed.Valid {
			set["completed"] = patch.Completed.Value
		}

		if patch.DueDate.Set {
			if patch.DueDate.Valid {
				set["due_date"] = patch.DueDate.Value.UTC()
			} else {
				set["due_date"] = nil
			}
		}

		stmt, args, err := tr.db.QueryBuilder.Update("todos").
			SetMap(set).
			Where(ownedRow(id, ownerID)).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}

		if !patch.Tags.Set {
			return nil
		}

		tags, err := resolveTags(ctx, tx, tr.db.QueryBuilder, patch.Tags.Value)

		if err != nil {
			return err
		}

		return tr.replaceAssociations(ctx, tx, id, tags)
	})

	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("Error updating todo", "error", err, "id", id)
		}

		return domain.Todo{}, err
	}

	return tr.GetByID(ctx, id, ownerID)
}

func (tr *TodoRepository) Delete(ctx context.Context, id, ownerID int) (bool, error) {
	var deleted bool

	err := tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := tr.ensureOwned(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}

			return err
		}

		clear, clearArgs, err := tr.db.QueryBuilder.Delete("todo_tags").
			Where(sq.Eq{"todo_id": id}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, clear, clearArgs...); err != nil {
			return err
		}

		stmt, args, err := tr.db.QueryBuilder.Delete("todos").
			Where(ownedRow(id, ownerID)).
			ToSql()

		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()

		if err != nil {
			return err
		}

		deleted = affected > 0
		return nil
	})

	if err != nil {
		slog.Error("Error deleting todo", "error", err, "id", id)
		return false, err
	}

	return deleted, nil
}

// MarkComplete sets completed unconditionally, so repeating the call is a
// no-op rather than an error.
func (tr *TodoRepository) MarkComplete(ctx context.Context, id, ownerID int) (domain.Todo, error) {
	stmt, args, err := tr.db.QueryBuilder.Update("todos").
		SetMap(map[string]interface{}{
			"completed":  true,
			"updated_at": time.Now().UTC(),
		}).
		Where(ownedRow(id, ownerID)).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	res, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error completing todo", "error", err, "id", id)
		return domain.Todo{}, err
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return domain.Todo{}, err
	}

	if affected == 0 {
		return domain.Todo{}, domain.ErrNotFound
	}

	return tr.GetByID(ctx, id, ownerID)
}

func (tr *TodoRepository) ListOverdue(ctx context.Context, ownerID, limit, offset int) ([]domain.Todo, int, error) {
	now := time.Now().UTC()

	conds := []sq.Sqlizer{
		sq.Lt{"due_date": now},
		sq.Eq{"completed": false},
	}

	return tr.pagedList(ctx, ownerID, conds, "due_date ASC, id ASC", limit, offset)
}

func (tr *TodoRepository) ListDueToday(ctx context.Context, ownerID, limit, offset int) ([]domain.Todo, int, error) {
	// Day bounds follow the server clock; both ends inclusive.
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	conds := []sq.Sqlizer{
		sq.GtOrEq{"due_date": start.UTC()},
		sq.LtOrEq{"due_date": end.UTC()},
		sq.Eq{"completed": false},
	}

	return tr.pagedList(ctx, ownerID, conds, "due_date ASC, id ASC", limit, offset)
}

func filterConds(filter domain.TodoFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer

	if filter.Completed != nil {
		conds = append(conds, sq.Eq{"completed": *filter.Completed})
	}

	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"

		conds = append(conds, sq.Or{
			sq.Expr("LOWER(title) LIKE ?", pattern),
			sq.Expr("LOWER(COALESCE(description, '')) LIKE ?", pattern),
		})
	}

	return conds
}

// pagedList runs the shared count-then-window pair: total reflects the full
// filtered set regardless of limit/offset, and a window past the end comes
// back empty rather than failing.
func (tr *TodoRepository) pagedList(ctx context.Context, ownerID int, conds []sq.Sqlizer, orderBy string, limit, offset int) ([]domain.Todo, int, error) {
	count := tr.db.QueryBuilder.Select("COUNT(*)").
		From("todos").
		Where(sq.Eq{"user_id": ownerID})

	query := tr.scopedTodos(ownerID)

	for _, cond := range conds {
		count = count.Where(cond)
		query = query.Where(cond)
	}

	stmt, args, err := count.ToSql()

	if err != nil {
		return nil, 0, err
	}

	var total int

	if err := tr.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		slog.Error("Error counting todos", "error", err)
		return nil, 0, err
	}

	stmt, args, err = query.
		OrderBy(orderBy).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, 0, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching todos", "error", err)
		return nil, 0, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodoRow(rows)

		if err != nil {
			return nil, 0, err
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	refs := make([]*domain.Todo, len(todos))

	for i := range todos {
		refs[i] = &todos[i]
	}

	if err := tr.loadTags(ctx, tr.db, refs); err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (tr *TodoRepository) ensureOwned(ctx context.Context, run database.Queryer, id, ownerID int) error {
	stmt, args, err := tr.db.QueryBuilder.Select("id").
		From("todos").
		Where(ownedRow(id, ownerID)).
		Limit(1).
		ToSql()

	if err != nil {
		return err
	}

	var found int

	if err := run.QueryRowContext(ctx, stmt, args...).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}

		return err
	}

	return nil
}

func (tr *TodoRepository) replaceAssociations(ctx context.Context, run database.Queryer, todoID int, tags []domain.Tag) error {
	clear, clearArgs, err := tr.db.QueryBuilder.Delete("todo_tags").
		Where(sq.Eq{"todo_id": todoID}).
		ToSql()

	if err != nil {
		return err
	}

	if _, err := run.ExecContext(ctx, clear, clearArgs...); err != nil {
		return err
	}

	if len(tags) == 0 {
		return nil
	}

	insert := tr.db.QueryBuilder.Insert("todo_tags").Columns("todo_id", "tag_id")

	for _, tag := range tags {
		insert = insert.Values(todoID, tag.ID)
	}

	stmt, args, err := insert.ToSql()

	if err != nil {
		return err
	}

	_, err = run.ExecContext(ctx, stmt, args...)
	return err
}

func (tr *TodoRepository) loadTags(ctx context.Context, run database.Queryer, todos []*domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	ids := make([]int, 0, len(todos))
	byID := make(map[int]*domain.Todo, len(todos))

	for _, todo := range todos {
		todo.Tags = []domain.Tag{}
		ids = append(ids, todo.ID)
		byID[todo.ID] = todo
	}

	stmt, args, err := tr.db.QueryBuilder.Select("tt.todo_id", "t.id", "t.name").
		From("todo_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(sq.Eq{"tt.todo_id": ids}).
		OrderBy("t.name ASC").
		ToSql()

	if err != nil {
		return err
	}

	rows, err := run.QueryContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var (
			todoID int
			tag    domain.Tag
		)

		if err := rows.Scan(&todoID, &tag.ID, &tag.Name); err != nil {
			return err
		}

		if todo, ok := byID[todoID]; ok {
			todo.Tags = append(todo.Tags, tag)
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodoRow(row rowScanner) (domain.Todo, error) {
	var (
		todo        domain.Todo
		description sql.NullString
		dueDate     sql.NullTime
	)

	err := row.Scan(
		&todo.ID,
		&todo.UUID,
		&todo.Title,
		&description,
		&todo.Completed,
		&dueDate,
		&todo.UserId,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Description = description.String

	if dueDate.Valid {
		due := dueDate.Time
		todo.DueDate = &due
	}

	return todo, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.UTC()
}
