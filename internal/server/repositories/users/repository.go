package users

import (
	"context"

	"github.com/patronly/patronly/internal/server/models"
)

// ProfileUpdate carries the optional profile fields of a field-set update.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	DisplayName   *string
	Bio           *string
	WalletAddress *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByWalletAddress(ctx context.Context, address string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error
	SetProfileImage(ctx context.Context, id, storageKey string) error
	SetApproved(ctx context.Context, id string, approved bool) error
	AddTips(ctx context.Context, username string, amount float64) error
	IncrementSubscriberCount(ctx context.Context, username string) error
	ListPendingApprovals(ctx context.Context, limit int) ([]*models.User, error)
	ListTopCreators(ctx context.Context, limit int) ([]*models.User, error)
}
