package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/logging"
	"github.com/patronly/patronly/internal/server/chain"
	"github.com/patronly/patronly/internal/server/models"
	"github.com/patronly/patronly/internal/server/repositories/repomanager"
)

// Classifier is the chain-side verdict the reconciler consumes.
// *chain.Verifier satisfies it.
type Classifier interface {
	Classify(ctx context.Context, txHash string) chain.Classification
}

// TipRequest is a client-submitted claim that a tip transaction happened
// on chain.
type TipRequest struct {
	RecipientUsername string  `json:"recipient_username"`
	Amount            float64 `json:"amount"`
	TxHash            string  `json:"tx_hash"`
	ContentID         string  `json:"content_id,omitempty"`
}

// LedgerService reconciles client-submitted economic events against the
// chain verifier's classification and applies accepted events to the
// aggregate counters and the append-only event log.
//
// Acceptance policy: a Failed classification is rejected; Confirmed and
// Unverifiable are both accepted. The Unverifiable path logs a warning and
// proceeds.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    Classifier
	logger      logging.Logger
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, verifier Classifier, logger logging.Logger) *LedgerService {
	return &LedgerService{
		db:          db,
		repomanager: m,
		verifier:    verifier,
		logger:      logger.With("module", "ledger"),
	}
}

// checkClaim applies the acceptance policy to a claimed transaction.
func (s *LedgerService) checkClaim(ctx context.Context, kind, txHash string) error {
	switch s.verifier.Classify(ctx, txHash) {
	case chain.Failed:
		return common.ErrTransactionFailed
	case chain.Unverifiable:
		s.logger.Warn(ctx, "recording event without on-chain proof", "type", kind, "tx_hash", txHash)
	}
	return nil
}

// Tip applies a claimed tip. The recipient's running total and, when a
// content id is attached, the content's counter are bumped with atomic
// increments; an unresolvable recipient or content is a no-op, not an error.
func (s *LedgerService) Tip(ctx context.Context, from *models.User, req TipRequest) (*models.LedgerEntry, error) {
	if err := s.checkClaim(ctx, models.EventTip, req.TxHash); err != nil {
		return nil, err
	}

	userRepo := s.repomanager.Users(s.db)
	if err := userRepo.AddTips(ctx, req.RecipientUsername, req.Amount); err != nil {
		return nil, common.ErrorInternal
	}

	if req.ContentID != "" {
		contentRepo := s.repomanager.Contents(s.db)
		if err := contentRepo.AddTips(ctx, req.ContentID, req.Amount); err != nil {
			return nil, common.ErrorInternal
		}
	}

	entry := &models.LedgerEntry{
		ID:         uuid.New().String(),
		Kind:       models.EventTip,
		FromUserID: from.ID,
		ToUsername: req.RecipientUsername,
		Amount:     req.Amount,
		TxHash:     req.TxHash,
		ContentID:  req.ContentID,
	}

	ledgerRepo := s.repomanager.Ledger(s.db)
	if err := ledgerRepo.AppendEntry(ctx, entry); err != nil {
		return nil, common.ErrorInternal
	}

	return entry, nil
}

// Mint records a collectible mint of an existing content item.
func (s *LedgerService) Mint(ctx context.Context, owner *models.User, contentID, txHash string) (*models.Mint, error) {
	if err := s.checkClaim(ctx, models.EventMint, txHash); err != nil {
		return nil, err
	}

	contentRepo := s.repomanager.Contents(s.db)
	content, err := contentRepo.GetByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, common.ErrorInternal
	}

	mint := &models.Mint{
		ID:              uuid.New().String(),
		ContentID:       content.ID,
		OwnerID:         owner.ID,
		CreatorUsername: content.Username,
		TxHash:          txHash,
	}

	ledgerRepo := s.repomanager.Ledger(s.db)
	mint, err = ledgerRepo.CreateMint(ctx, mint)
	if err != nil {
		return nil, common.ErrorInternal
	}

	entry := &models.LedgerEntry{
		ID:         uuid.New().String(),
		Kind:       models.EventMint,
		FromUserID: owner.ID,
		ToUsername: content.Username,
		TxHash:     txHash,
		ContentID:  content.ID,
	}
	if err := ledgerRepo.AppendEntry(ctx, entry); err != nil {
		return nil, common.ErrorInternal
	}

	return mint, nil
}

// Subscribe creates the subscriber↔creator pair and bumps the creator's
// subscriber count by exactly one. The pair's uniqueness is enforced by the
// store; the pre-check short-circuits the common repeat case.
func (s *LedgerService) Subscribe(ctx context.Context, subscriber *models.User, creatorUsername string) (*models.Subscription, error) {
	subRepo := s.repomanager.Subscriptions(s.db)

	exists, err := subRepo.Exists(ctx, subscriber.ID, creatorUsername)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrAlreadySubscribed
	}

	sub := &models.Subscription{
		ID:              uuid.New().String(),
		SubscriberID:    subscriber.ID,
		CreatorUsername: creatorUsername,
	}

	sub, err = subRepo.Create(ctx, sub)
	if err != nil {
		if errors.Is(err, common.ErrAlreadySubscribed) {
			return nil, common.ErrAlreadySubscribed
		}
		return nil, common.ErrorInternal
	}

	userRepo := s.repomanager.Users(s.db)
	if err := userRepo.IncrementSubscriberCount(ctx, creatorUsername); err != nil {
		return nil, common.ErrorInternal
	}

	entry := &models.LedgerEntry{
		ID:         uuid.New().String(),
		Kind:       models.EventSubscribe,
		FromUserID: subscriber.ID,
		ToUsername: creatorUsername,
	}
	ledgerRepo := s.repomanager.Ledger(s.db)
	if err := ledgerRepo.AppendEntry(ctx, entry); err != nil {
		return nil, common.ErrorInternal
	}

	return sub, nil
}

// ListSubscriptions returns the caller's subscriptions.
func (s *LedgerService) ListSubscriptions(ctx context.Context, subscriberID string) ([]*models.Subscription, error) {
	subRepo := s.repomanager.Subscriptions(s.db)
	return subRepo.ListBySubscriber(ctx, subscriberID)
}
