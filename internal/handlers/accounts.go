package handlers

import (
	"net/http"

	"moviestore/internal/middleware"
	"moviestore/internal/models"
	"moviestore/internal/services"

	"github.com/rs/zerolog"
)

// SessionAuthenticator binds a user to the browsing session
type SessionAuthenticator interface {
	Login(w http.ResponseWriter, r *http.Request, userID int) error
	Logout(w http.ResponseWriter, r *http.Request) error
}

// AccountHandler handles signup, login, profile and recovery requests
type AccountHandler struct {
	accounts services.AccountServiceInterface
	recovery services.RecoveryServiceInterface
	sessions SessionAuthenticator
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	accounts services.AccountServiceInterface,
	recovery services.RecoveryServiceInterface,
	sessions SessionAuthenticator,
) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		recovery: recovery,
		sessions: sessions,
	}
}

type profileResponse struct {
	*models.Profile
	SecurityQuestionText string `json:"security_question_text,omitempty"`
}

// Signup creates an account and logs it in
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login checks the credentials and starts a session
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout ends the session login. The cart is kept.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Orders returns the current user's orders, newest first
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	orders, err := h.accounts.Orders(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetProfile returns the current user's profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	profile, err := h.accounts.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

// UpdateProfile replaces the current user's profile. A blank security answer
// keeps the stored one.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.ProfileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.accounts.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

// ForgotPassword is the first recovery step: it returns the user's security question
func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r, "username")
	if err != nil {
		writeError(w, r, err)
		return
	}

	challenge, err := h.recovery.Start(r.Context(), fields["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, challenge)
}

// VerifySecurity is the second recovery step: a correct answer logs the user in
func (h *AccountHandler) VerifySecurity(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r, "username", "answer")
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.recovery.Verify(r.Context(), fields["username"], fields["answer"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AccountHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if err := h.sessions.Login(w, r, user.ID); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("user_id", user.ID).Msg("failed to start session")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	return true
}

func newProfileResponse(profile *models.Profile) profileResponse {
	return profileResponse{Profile: profile, SecurityQuestionText: profile.SecurityQuestion.Text()}
}
