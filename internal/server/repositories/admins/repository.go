package admins

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/server/models"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Upsert(ctx context.Context, username, passwordHash string, now time.Time) (*models.Admin, error)
	CreateIfAbsent(ctx context.Context, username, passwordHash string, now time.Time) (bool, error)
}
