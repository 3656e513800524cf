package subscriptions

import (
	"context"

	"github.com/patronly/patronly/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	Exists(ctx context.Context, subscriberID, creatorUsername string) (bool, error)
	ListBySubscriber(ctx context.Context, subscriberID string) ([]*models.Subscription, error)
}
