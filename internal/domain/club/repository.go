package club

import "context"

// Repository describes club persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, clubID string) (Club, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Club, error)
	UpdateEAID(ctx context.Context, clubID, eaID string) error
}
