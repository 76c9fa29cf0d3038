package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"moviestore/internal/models"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// SessionName is the cookie holding both the login and the cart
	SessionName = "moviestore_session"

	sessionUserKey = "user_id"
)

// UserLoader resolves the user id stored in the session
type UserLoader interface {
	GetUser(ctx context.Context, userID int) (*models.User, error)
}

// AuthMiddleware provides authentication functionality
type AuthMiddleware struct {
	users  UserLoader
	store  sessions.Store
	logger zerolog.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(users UserLoader, store sessions.Store, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		users:  users,
		store:  store,
		logger: logger,
	}
}

// LoadUser middleware loads the current user from session and adds to context
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// Continue without user if session is invalid
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := sessionUserID(session)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				// Account is gone, drop the stale login but keep the cart
				delete(session.Values, sessionUserKey)
				if err := session.Save(r, w); err != nil {
					m.logger.Warn().Err(err).Msg("failed to clear stale session user")
				}
			} else {
				m.logger.Error().Err(err).Int("user_id", userID).Msg("failed to load session user")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth middleware ensures user is authenticated
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return RequireAuth(next)
}

// Login stores the user id in the session
func (m *AuthMiddleware) Login(w http.ResponseWriter, r *http.Request, userID int) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// Logout removes the user from the session. The cart survives logout.
func (m *AuthMiddleware) Logout(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	delete(session.Values, sessionUserKey)
	return session.Save(r, w)
}

// sessionUserID reads the user id, tolerating the numeric types a store may hand back
func sessionUserID(session *sessions.Session) (int, bool) {
	value, exists := session.Values[sessionUserKey]
	if !exists {
		return 0, false
	}

	var userID int
	switch v := value.(type) {
	case int:
		userID = v
	case int64:
		userID = int(v)
	case float64:
		userID = int(v)
	case string:
		parsedID, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		userID = parsedID
	default:
		return 0, false
	}
	return userID, userID > 0
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetUserContext sets the user in the context (for testing)
func SetUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// RequireAuth rejects anonymous requests with a JSON 401
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
