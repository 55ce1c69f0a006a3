package content

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, key string) (*models.ContentEntry, error)
	Upsert(ctx context.Context, key, raw string, now time.Time) error
	List(ctx context.Context) ([]*models.ContentEntry, error)
	InsertIfAbsent(ctx context.Context, key, raw string, now time.Time) (bool, error)
}
