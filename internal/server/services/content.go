package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/logging"
	"github.com/patronly/patronly/internal/server/models"
	"github.com/patronly/patronly/internal/server/repositories/repomanager"
)

// Feed listing bounds, matching the public API defaults.
const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// ContentCreate is the payload for publishing a content item. MediaKey must
// reference an object previously uploaded through the media service.
type ContentCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MediaKey    string   `json:"media_key"`
	MediaType   string   `json:"media_type"`
	CTAButtons  []string `json:"cta_buttons"`
}

// ContentService publishes and lists content. Reads resolve media keys to
// presigned download URLs.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       *MediaService
	logger      logging.Logger
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, media *MediaService, logger logging.Logger) *ContentService {
	return &ContentService{
		db:          db,
		repomanager: m,
		media:       media,
		logger:      logger.With("module", "content"),
	}
}

// Create publishes a content item owned by author.
func (s *ContentService) Create(ctx context.Context, author *models.User, in ContentCreate) (*models.Content, error) {
	mediaType := in.MediaType
	if mediaType != models.MediaTypeVideo {
		mediaType = models.MediaTypeImage
	}

	content := &models.Content{
		ID:          uuid.New().String(),
		UserID:      author.ID,
		Username:    author.Username,
		Title:       in.Title,
		Description: in.Description,
		MediaKey:    in.MediaKey,
		MediaType:   mediaType,
		CTAButtons:  in.CTAButtons,
	}

	repo := s.repomanager.Contents(s.db)
	content, err := repo.Create(ctx, content)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.attachMediaURL(ctx, content)
	return content, nil
}

// GetByID returns a content item with its media URL resolved.
func (s *ContentService) GetByID(ctx context.Context, id string) (*models.Content, error) {
	repo := s.repomanager.Contents(s.db)

	content, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, common.ErrorInternal
	}

	s.attachMediaURL(ctx, content)
	return content, nil
}

// ListByUser returns a creator's items, newest first.
func (s *ContentService) ListByUser(ctx context.Context, username string, limit int) ([]*models.Content, error) {
	repo := s.repomanager.Contents(s.db)

	result, err := repo.ListByUsername(ctx, username, clampLimit(limit))
	if err != nil {
		return nil, common.ErrorInternal
	}

	for _, content := range result {
		s.attachMediaURL(ctx, content)
	}
	return result, nil
}

// Feed returns the global feed, newest first.
func (s *ContentService) Feed(ctx context.Context, limit int) ([]*models.Content, error) {
	repo := s.repomanager.Contents(s.db)

	result, err := repo.ListFeed(ctx, clampLimit(limit))
	if err != nil {
		return nil, common.ErrorInternal
	}

	for _, content := range result {
		s.attachMediaURL(ctx, content)
	}
	return result, nil
}

// attachMediaURL resolves the media key best-effort: a presign failure
// leaves the URL empty rather than failing the read.
func (s *ContentService) attachMediaURL(ctx context.Context, content *models.Content) {
	if content.MediaKey == "" {
		return
	}
	url, err := s.media.GetPresignedGetUrl(ctx, content.MediaKey)
	if err != nil {
		s.logger.Warn(ctx, "media url resolution failed", "media_key", content.MediaKey, "error", err.Error())
		return
	}
	content.MediaURL = url
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		return MaxFeedLimit
	}
	return limit
}
