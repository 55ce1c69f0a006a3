package messages

import (
	"context"

	"github.com/dmitrijs2005/studiosite/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) (int64, error)
	List(ctx context.Context) ([]*models.Message, error)
	UpdateStatus(ctx context.Context, id int64, status models.MessageStatus) error
	Delete(ctx context.Context, id int64) error
}
