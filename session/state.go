package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

var ErrStateMismatch = errors.New("oauth state mismatch")

// StateStore keeps the OAuth state and PKCE verifier in a signed cookie
// between the login redirect and the provider callback.
type StateStore struct {
	store *sessions.CookieStore
}

func NewStateStore(secret []byte, secure bool) *StateStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &StateStore{store: cs}
}

// Begin issues a fresh state and PKCE pair and returns the state and the
// S256 code challenge.
func (s *StateStore) Begin(w http.ResponseWriter, r *http.Request) (string, string, error) {
	state, err := randomToken()
	if err != nil {
		return "", "", err
	}
	verifier, err := randomToken()
	if err != nil {
		return "", "", err
	}

	sess, _ := s.store.New(r, stateCookieName)
	sess.Values["state"] = state
	sess.Values["verifier"] = verifier
	if err := sess.Save(r, w); err != nil {
		return "", "", fmt.Errorf("save oauth state: %w", err)
	}

	return state, codeChallenge(verifier), nil
}

// Complete checks the returned state and yields the PKCE verifier. The
// cookie is expired either way.
func (s *StateStore) Complete(w http.ResponseWriter, r *http.Request, state string) (string, error) {
	sess, err := s.store.Get(r, stateCookieName)
	if err != nil || sess.IsNew {
		return "", ErrStateMismatch
	}

	expected, _ := sess.Values["state"].(string)
	verifier, _ := sess.Values["verifier"].(string)

	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		zap.L().Warn("failed to expire oauth state cookie", zap.Error(err))
	}

	if state == "" || expected == "" || state != expected || verifier == "" {
		return "", ErrStateMismatch
	}
	return verifier, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func codeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
