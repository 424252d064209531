package port

import (
	"context"

	"checklens/internal/domain"
)

// CheckRepository abstracts persistence of processed check records.
type CheckRepository interface {
	Create(ctx context.Context, record *domain.CheckRecord) error
	List(ctx context.Context, offset, limit int) ([]domain.CheckRecord, int, error)
	GetByID(ctx context.Context, id int64) (*domain.CheckRecord, error)
	Analytics(ctx context.Context) (*domain.Analytics, error)
}
