package repository

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"todoapi/internal/adapter/database"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

type TagRepository struct {
	db *database.DB
}

func NewTagRepository(db *database.DB) port.TagRepository {
	return &TagRepository{db: db}
}

func (tr *TagRepository) Resolve(ctx context.Context, names []string) ([]domain.Tag, error) {
	return resolveTags(ctx, tr.db, tr.db.QueryBuilder, names)
}

// resolveTags is the normalizer: distinct names are inserted with
// ON CONFLICT DO NOTHING against the unique name index, then the whole set
// is read back. A concurrent caller racing on a new name loses the insert
// but wins the select, so the name can never yield two rows. Runs against a
// transaction when the caller has one open.
func resolveTags(ctx context.Context, run database.Queryer, qb *sq.StatementBuilderType, names []string) ([]domain.Tag, error) {
	distinct := dedupeNames(names)

	if len(distinct) == 0 {
		return []domain.Tag{}, nil
	}

	for _, name := range distinct {
		stmt, args, err := qb.Insert("tags").
			Columns("name").
			Values(name).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()

		if err != nil {
			return nil, err
		}

		if _, err := run.ExecContext(ctx, stmt, args...); err != nil {
			slog.Error("Error creating tag", "error", err, "name", name)
			return nil, err
		}
	}

	stmt, args, err := qb.Select("id", "name").
		From("tags").
		Where(sq.Eq{"name": distinct}).
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := run.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	tags := make([]domain.Tag, 0, len(distinct))

	for rows.Next() {
		var tag domain.Tag

		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// dedupeNames collapses duplicates case-sensitively, preserving first-seen
// order and dropping empty strings.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	distinct := make([]string, 0, len(names))

	for _, name := range names {
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		distinct = append(distinct, name)
	}

	return distinct
}
