package contents

import (
	"context"

	"github.com/patronly/patronly/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, content *models.Content) (*models.Content, error)
	GetByID(ctx context.Context, id string) (*models.Content, error)
	ListByUsername(ctx context.Context, username string, limit int) ([]*models.Content, error)
	ListFeed(ctx context.Context, limit int) ([]*models.Content, error)
	AddTips(ctx context.Context, id string, amount float64) error
}
