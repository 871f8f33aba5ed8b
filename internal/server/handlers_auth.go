package server

import (
	"errors"
	"net/http"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// requireUser returns the authenticated user context, or writes a 401 and
// returns nil.
func requireUser(w http.ResponseWriter, r *http.Request) *common.UserContext {
	uc := common.GetUserContext(r.Context())
	if uc == nil {
		WriteErrorWithCode(w, http.StatusUnauthorized, "Authentication required", "unauthenticated")
		return nil
	}
	return uc
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// handleUserCreate handles POST /api/users.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.UserService.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			WriteErrorWithCode(w, http.StatusConflict, err.Error(), "email_taken")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.app.Refresher.Track(user.UserID)
	WriteJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *models.User `json:"user"`
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.UserService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			WriteErrorWithCode(w, http.StatusUnauthorized, "Invalid email or password", "invalid_credentials")
			return
		}
		s.logger.Error().Err(err).Msg("Login failed")
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, expiry, err := signAccessToken(user, s.app.Config)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token signing failed")
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	// A login marks the account active for background snapshot refreshes.
	s.app.Refresher.Track(user.UserID)

	WriteJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiry.Unix(),
		User:      user,
	})
}

// handleAccount handles GET /api/account.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	user, err := s.app.UserService.GetUser(r.Context(), uc.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error().Err(err).Str("user", uc.UserID).Msg("Account lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
