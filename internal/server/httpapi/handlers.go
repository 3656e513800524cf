package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/patronly/patronly/internal/server/repositories/users"
	"github.com/patronly/patronly/internal/server/services"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type walletAuthRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

type profileUpdateRequest struct {
	DisplayName   *string `json:"display_name"`
	Bio           *string `json:"bio"`
	WalletAddress *string `json:"wallet_address"`
}

type profileImageRequest struct {
	MediaKey string `json:"media_key"`
}

type mintRequest struct {
	ContentID string `json:"content_id"`
	TxHash    string `json:"tx_hash"`
}

type subscribeRequest struct {
	CreatorUsername string `json:"creator_username"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}
	return true
}

func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Email, password, and username are required")
		return
	}

	result, err := s.identity.Register(r.Context(), req.Email, req.Password, req.Username, req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "registered", "username", req.Username)
	WriteJSON(w, http.StatusCreated, result)
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.identity.LoginByPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) WalletLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req walletAuthRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.identity.LoginByWallet(r.Context(), req.WalletAddress, req.Message, req.Signature)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.identity.GetProfile(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.identity.UpdateProfile(r.Context(), userFrom(r.Context()).ID, users.ProfileUpdate{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) ProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	var req profileImageRequest
	if !decode(w, r, &req) {
		return
	}
	if req.MediaKey == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "media_key is required")
		return
	}

	user, err := s.identity.SetProfileImage(r.Context(), userFrom(r.Context()).ID, req.MediaKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) MediaUploadURLHandler(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.media.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "error", err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "Could not create upload URL")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"storage_key": key, "upload_url": url})
}

func (s *Server) CreateContentHandler(w http.ResponseWriter, r *http.Request) {
	var req services.ContentCreate
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.MediaKey == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Title and media_key are required")
		return
	}

	content, err := s.content.Create(r.Context(), userFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, content)
}

func (s *Server) FeedHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.content.Feed(r.Context(), limitParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) UserContentHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	result, err := s.content.ListByUser(r.Context(), username, limitParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) GetContentHandler(w http.ResponseWriter, r *http.Request) {
	content, err := s.content.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, content)
}

func (s *Server) TipHandler(w http.ResponseWriter, r *http.Request) {
	var req services.TipRequest
	if !decode(w, r, &req) {
		return
	}
	if req.RecipientUsername == "" || req.TxHash == "" || req.Amount <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid_request", "recipient_username, tx_hash, and a positive amount are required")
		return
	}

	entry, err := s.ledger.Tip(r.Context(), userFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entry)
}

func (s *Server) MintHandler(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ContentID == "" || req.TxHash == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "content_id and tx_hash are required")
		return
	}

	mint, err := s.ledger.Mint(r.Context(), userFrom(r.Context()), req.ContentID, req.TxHash)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, mint)
}

func (s *Server) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CreatorUsername == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "creator_username is required")
		return
	}

	sub, err := s.ledger.Subscribe(r.Context(), userFrom(r.Context()), req.CreatorUsername)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, sub)
}

func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.ledger.ListSubscriptions(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) PendingApprovalsHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.identity.ListPendingApprovals(r.Context(), services.MaxFeedLimit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	if err := s.identity.Approve(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user approved", "user_id", userID)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (s *Server) DiscoverCreatorsHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.identity.DiscoverCreators(r.Context(), limitParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
