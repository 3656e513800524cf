// Package services contains server-side business logic. This file implements
// IdentityService, which unifies password and wallet-signature authentication
// into one identity lifecycle and one session-token contract.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/server/auth"
	"github.com/patronly/patronly/internal/server/config"
	"github.com/patronly/patronly/internal/server/models"
	"github.com/patronly/patronly/internal/server/repositories/repomanager"
	"github.com/patronly/patronly/internal/server/repositories/users"
)

// AuthResult is the uniform outcome of every successful authentication path:
// a session token plus the identity it belongs to. The user's password hash
// is never serialized (see models.User).
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// walletUsernameAttempts bounds the collision-checked username generation
// during wallet auto-provisioning.
const walletUsernameAttempts = 3

// IdentityService handles registration, password login, wallet login, and
// per-request session validation.
type IdentityService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
}

// NewIdentityService constructs an IdentityService using repositories and
// server config.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:              db,
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// Register creates a password-backed identity. Email and username uniqueness
// is enforced by the store's constraints; a violation surfaces as
// common.ErrorConflict.
func (s *IdentityService) Register(ctx context.Context, email, password, username, displayName string) (*AuthResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         models.RoleCreator,
		IsApproved:   true,
		KYCStatus:    models.KYCNotRequired,
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issueSession(user)
}

// LoginByPassword verifies the email/password pair. An unknown email and a
// wrong password produce the same error.
func (s *IdentityService) LoginByPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// LoginByWallet verifies a wallet-signature proof and resolves it to an
// identity. An unknown wallet is never an error: it is onboarded on the
// spot with a generated username and no password hash.
func (s *IdentityService) LoginByWallet(ctx context.Context, address, message, signature string) (*AuthResult, error) {
	if !auth.VerifyWalletSignature(address, message, signature) {
		return nil, common.ErrInvalidSignature
	}

	lower := strings.ToLower(address)
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByWalletAddress(ctx, lower)
	if err == nil {
		return s.issueSession(user)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	user, err = s.provisionWalletUser(ctx, repo, lower)
	if err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// provisionWalletUser creates an identity for an unseen wallet. The first
// username attempt is the deterministic address prefix; on a conflict the
// wallet is re-checked (a concurrent login may have won the race) and the
// next attempt carries a random suffix.
func (s *IdentityService) provisionWalletUser(ctx context.Context, repo users.Repository, address string) (*models.User, error) {
	username := walletUsername(address)

	for attempt := 0; attempt < walletUsernameAttempts; attempt++ {
		user := &models.User{
			ID:            uuid.New().String(),
			Username:      username,
			DisplayName:   "Creator " + walletPrefix(address, 6),
			WalletAddress: address,
			Role:          models.RoleCreator,
			IsApproved:    true,
			KYCStatus:     models.KYCNotRequired,
		}

		created, err := repo.Create(ctx, user)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorInternal
		}

		// The conflict may be this very wallet, provisioned concurrently.
		if existing, lookupErr := repo.GetByWalletAddress(ctx, address); lookupErr == nil {
			return existing, nil
		}

		suffix, err := common.MakeRandHexString(3)
		if err != nil {
			return nil, common.ErrorInternal
		}
		username = walletUsername(address) + "_" + suffix
	}

	return nil, common.ErrorInternal
}

// Authenticate validates a session token and re-fetches the identity it
// names. Expiry and malformation map to the token errors from auth; a
// vanished identity maps to common.ErrIdentityGone.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.ParseSessionToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrIdentityGone
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// GetProfile returns the public view of a username.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// UpdateProfile applies a field-set update and returns the refreshed identity.
// A wallet address set through here is lower-cased like everywhere else.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, upd users.ProfileUpdate) (*models.User, error) {
	if upd.WalletAddress != nil {
		lower := strings.ToLower(*upd.WalletAddress)
		upd.WalletAddress = &lower
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateProfile(ctx, userID, upd); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, common.ErrorInternal
	}

	return repo.GetByID(ctx, userID)
}

// SetProfileImage records the uploaded image key; the identity drops back to
// pending approval.
func (s *IdentityService) SetProfileImage(ctx context.Context, userID, storageKey string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	if err := repo.SetProfileImage(ctx, userID, storageKey); err != nil {
		return nil, common.ErrorInternal
	}
	return repo.GetByID(ctx, userID)
}

// ListPendingApprovals returns identities awaiting profile-image review.
func (s *IdentityService) ListPendingApprovals(ctx context.Context, limit int) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.ListPendingApprovals(ctx, clampLimit(limit))
}

// Approve marks an identity as approved.
func (s *IdentityService) Approve(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)
	return repo.SetApproved(ctx, userID, true)
}

// DiscoverCreators lists approved creators by subscriber count.
func (s *IdentityService) DiscoverCreators(ctx context.Context, limit int) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.ListTopCreators(ctx, clampLimit(limit))
}

// --- helpers below ---

// issueSession mints the session token for user. The label is the email when
// present, the wallet address otherwise.
func (s *IdentityService) issueSession(user *models.User) (*AuthResult, error) {
	label := user.Email
	if label == "" {
		label = user.WalletAddress
	}

	token, err := auth.GenerateSessionToken(user.ID, label, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user}, nil
}

func walletPrefix(address string, n int) string {
	if len(address) < n {
		return address
	}
	return address[:n]
}

func walletUsername(address string) string {
	return "user_" + walletPrefix(address, 8)
}
