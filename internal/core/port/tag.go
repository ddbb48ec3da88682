package port

import (
	"context"

	"todoapi/internal/core/domain"
)

// TagRepository normalizes free-text tag names into canonical rows.
type TagRepository interface {
	// Resolve maps each distinct name to an existing or newly created tag.
	// Duplicates in the input collapse; result order is unspecified.
	Resolve(ctx context.Context, names []string) ([]domain.Tag, error)
}
