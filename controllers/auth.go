package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quickcart/middleware"
	"quickcart/models"
	"quickcart/repository"
	"quickcart/session"
	"quickcart/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AuthController serves the session endpoint and OAuth sign-in
type AuthController struct {
	Users     repository.UserRepository
	Providers *session.Registry
	States    *session.StateStore
	Timeout   time.Duration
}

func NewAuthController(users repository.UserRepository, providers *session.Registry, states *session.StateStore, timeout time.Duration) *AuthController {
	return &AuthController{
		Users:     users,
		Providers: providers,
		States:    states,
		Timeout:   timeout,
	}
}

// Session returns the normalized session of a verified bearer token
func (ac *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	token, _ := middleware.BearerToken(r)

	s := session.FromClaims(token, claims)
	if s == nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    s.User,
		"expires": s.ExpiresAt,
	})
}

// OAuthLogin redirects to the requested provider
func (ac *AuthController) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	p, err := ac.Providers.Get(mux.Vars(r)["provider"])
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Unknown oauth provider")
		return
	}

	state, challenge, err := ac.States.Begin(w, r)
	if err != nil {
		zap.L().Error("failed to start oauth flow", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Session error")
		return
	}

	http.Redirect(w, r, p.AuthCodeURL(state, challenge), http.StatusFound)
}

// OAuthCallback completes the provider flow and issues a session token
func (ac *AuthController) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	providerName := mux.Vars(r)["provider"]
	p, err := ac.Providers.Get(providerName)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Unknown oauth provider")
		return
	}

	query := r.URL.Query()
	verifier, err := ac.States.Complete(w, r, query.Get("state"))
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid state")
		return
	}
	if msg := query.Get("error"); msg != "" {
		utils.WriteError(w, http.StatusUnauthorized, msg)
		return
	}
	code := query.Get("code")
	if code == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ac.Timeout)
	defer cancel()

	identity, err := p.ExchangeCode(ctx, code, verifier)
	if err != nil {
		zap.L().Warn("oauth exchange failed", zap.String("provider", providerName), zap.Error(err))
		utils.WriteError(w, http.StatusUnauthorized, "OAuth sign-in failed")
		return
	}
	if !identity.EmailVerified {
		utils.WriteError(w, http.StatusUnauthorized, "Email not verified by provider")
		return
	}

	user, err := ac.resolveUser(ctx, identity)
	if err != nil {
		zap.L().Error("failed to resolve oauth user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeSession(w, user)
}

// resolveUser finds the account for an identity by email, creating it on
// first sign-in. An unverified account with the same email is taken over
// by the provider-verified owner.
func (ac *AuthController) resolveUser(ctx context.Context, identity *session.Identity) (*models.User, error) {
	user, err := ac.Users.FindByEmail(ctx, identity.Email)
	if err == nil {
		if user.IsVerified {
			return user, nil
		}
		if err := ac.Users.ClaimForProvider(ctx, user.ID.Hex(), identity.Provider); err != nil {
			return nil, err
		}
		zap.L().Warn("unverified account claimed by oauth owner",
			zap.String("provider", identity.Provider), zap.String("user_id", user.ID.Hex()))
		return ac.Users.FindByID(ctx, user.ID.Hex())
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       models.RoleUser,
		Provider:   identity.Provider,
		IsVerified: true,
		CartItems:  models.CartItems{},
	}
	if err := ac.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	zap.L().Info("user created from oauth", zap.String("provider", identity.Provider), zap.String("user_id", user.ID.Hex()))
	return user, nil
}
