// Package session normalizes authentication state for the rest of the
// storefront. Callers only ever see a *User or nil.
package session

import (
	"sync"
	"time"

	"quickcart/models"
	"quickcart/utils"
)

// User is the normalized identity exposed by a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (u *User) IsSeller() bool {
	return u != nil && u.Role == models.RoleSeller
}

// Session is an issued token together with the user it authenticates.
type Session struct {
	User      *User     `json:"user"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires"`
}

// FromClaims builds a session from verified token claims.
func FromClaims(token string, claims *utils.Claims) *Session {
	if claims == nil || claims.UserID == "" {
		return nil
	}
	return &Session{
		User: &User{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		},
		Token:     token,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}
}

// FromUser builds the normalized user of a stored account.
func FromUser(u *models.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:    u.ID.Hex(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// UserSource yields the current user, or nil when signed out.
type UserSource interface {
	User() *User
}

// Holder keeps the current session of a single client.
type Holder struct {
	mu      sync.RWMutex
	current *Session
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) Set(s *Session) {
	h.mu.Lock()
	h.current = s
	h.mu.Unlock()
}

// Clear signs the client out.
func (h *Holder) Clear() {
	h.Set(nil)
}

func (h *Holder) Session() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// User returns nil when there is no session or it has expired.
func (h *Holder) User() *User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil || h.current.User == nil {
		return nil
	}
	if !h.current.ExpiresAt.IsZero() && time.Now().After(h.current.ExpiresAt) {
		return nil
	}
	u := *h.current.User
	return &u
}
