// Package session resolves the current user's identity from the secure
// credential store and the OIDC access token.
package session

import (
	"context"

	"chatrum/internal/gateway"
	"chatrum/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Session is the resolved identity handed to the synchronizers at
// construction. Refresh on the Manager produces a fresh value; nothing here
// reads the credential store ad hoc.
type Session struct {
	UserID         string
	UserName       string
	ProfilePicture string
	AccessToken    string
}

// LoggedIn reports whether a user id has been resolved.
func (s Session) LoggedIn() bool {
	return s.UserID != ""
}

// Manager owns the credential store and produces Session values.
type Manager struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewManager(store Store, logger *zap.SugaredLogger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Refresh reads the current identity from the credential store. Missing
// keys read as empty strings; callers decide their own fallbacks.
func (m *Manager) Refresh() Session {
	var sess Session
	var err error

	if sess.UserID, err = m.store.Get(KeyUserID); err != nil {
		m.logger.Errorf("credential store read failed for %s: %v", KeyUserID, err)
	}
	if sess.UserName, err = m.store.Get(KeyUserName); err != nil {
		m.logger.Errorf("credential store read failed for %s: %v", KeyUserName, err)
	}
	if sess.ProfilePicture, err = m.store.Get(KeyProfilePicture); err != nil {
		m.logger.Errorf("credential store read failed for %s: %v", KeyProfilePicture, err)
	}
	if sess.AccessToken, err = m.store.Get(KeyAccessToken); err != nil {
		m.logger.Errorf("credential store read failed for %s: %v", KeyAccessToken, err)
	}
	return sess
}

// Login stores the identity carried in an OIDC access token and registers
// the user with the backend. The token is parsed without verification:
// claim extraction for display only, the backend does its own checks.
func (m *Manager) Login(ctx context.Context, rawToken string, gw *gateway.Client) (Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return Session{}, err
	}

	sess := Session{
		UserID:         stringClaim(claims, "sub"),
		UserName:       firstClaim(claims, "nickname", "given_name", "name"),
		ProfilePicture: stringClaim(claims, "picture"),
		AccessToken:    rawToken,
	}

	if err := m.store.Set(KeyAccessToken, sess.AccessToken); err != nil {
		return Session{}, err
	}
	if err := m.store.Set(KeyUserID, sess.UserID); err != nil {
		return Session{}, err
	}
	if err := m.store.Set(KeyUserName, sess.UserName); err != nil {
		return Session{}, err
	}
	if err := m.store.Set(KeyProfilePicture, sess.ProfilePicture); err != nil {
		return Session{}, err
	}

	// Best effort: make sure the user document exists server-side. A failure
	// here does not fail the login; the next identity-bearing call will.
	user := model.User{ID: sess.UserID, Name: sess.UserName, ProfilePicture: sess.ProfilePicture}
	if err := gw.PostJSON(ctx, "api/User/user_post", user, nil); err != nil {
		m.logger.Errorf("failed to register user %s: %v", sess.UserID, err)
	} else {
		m.logger.Debugf("registered user %s", sess.UserID)
	}

	return sess, nil
}

// Logout removes all credential keys.
func (m *Manager) Logout() error {
	for _, key := range []string{KeyAccessToken, KeyUserID, KeyUserName, KeyProfilePicture} {
		if err := m.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if v, ok := claims[name].(string); ok {
		return v
	}
	return ""
}

func firstClaim(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		if v := stringClaim(claims, name); v != "" {
			return v
		}
	}
	return ""
}
