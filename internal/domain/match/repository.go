package match

import "context"

// Repository persists matches with insert-or-detect semantics.
type Repository interface {
	// Insert stores m unless its Key already exists; inserted is false for a
	// duplicate, which is not an error.
	Insert(ctx context.Context, m Match) (inserted bool, err error)
	CountBySeason(ctx context.Context, seasonID string) (int, error)
	List(ctx context.Context, query ListQuery) ([]Match, int, error)
}
