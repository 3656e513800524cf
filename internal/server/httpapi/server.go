// Package httpapi exposes the public JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/patronly/patronly/internal/logging"
	"github.com/patronly/patronly/internal/server/services"
)

type Server struct {
	address  string
	logger   logging.Logger
	identity *services.IdentityService
	content  *services.ContentService
	ledger   *services.LedgerService
	media    *services.MediaService
}

func NewServer(address string, logger logging.Logger,
	identity *services.IdentityService, content *services.ContentService,
	ledger *services.LedgerService, media *services.MediaService) *Server {

	return &Server{
		address:  address,
		logger:   logger.With("module", "http_server"),
		identity: identity,
		content:  content,
		ledger:   ledger,
		media:    media,
	}
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.RegisterHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.LoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/wallet", s.WalletLoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.withAuth(s.MeHandler)).Methods(http.MethodGet)

	api.HandleFunc("/profile/{username}", s.ProfileHandler).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.withAuth(s.UpdateProfileHandler)).Methods(http.MethodPut)
	api.HandleFunc("/profile/image", s.withAuth(s.ProfileImageHandler)).Methods(http.MethodPost)

	api.HandleFunc("/media/upload-url", s.withAuth(s.MediaUploadURLHandler)).Methods(http.MethodPost)

	api.HandleFunc("/content", s.withAuth(s.CreateContentHandler)).Methods(http.MethodPost)
	api.HandleFunc("/content/feed", s.FeedHandler).Methods(http.MethodGet)
	api.HandleFunc("/content/user/{username}", s.UserContentHandler).Methods(http.MethodGet)
	api.HandleFunc("/content/{id}", s.GetContentHandler).Methods(http.MethodGet)

	api.HandleFunc("/tip", s.withAuth(s.TipHandler)).Methods(http.MethodPost)
	api.HandleFunc("/mint", s.withAuth(s.MintHandler)).Methods(http.MethodPost)
	api.HandleFunc("/subscribe", s.withAuth(s.SubscribeHandler)).Methods(http.MethodPost)
	api.HandleFunc("/subscriptions", s.withAuth(s.SubscriptionsHandler)).Methods(http.MethodGet)

	api.HandleFunc("/admin/pending-approvals", s.withAdmin(s.PendingApprovalsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/admin/approve/{user_id}", s.withAdmin(s.ApproveHandler)).Methods(http.MethodPost)

	api.HandleFunc("/discover/creators", s.DiscoverCreatorsHandler).Methods(http.MethodGet)

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
