package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"quickcart/models"
	"quickcart/repository"
	"quickcart/utils"

	"go.uber.org/zap"
)

// Key type for context
type contextKey string

const (
	ClaimsContextKey = contextKey("claims")
	UserContextKey   = contextKey("user")
)

// ClaimsFromContext returns the verified JWT claims attached by AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*utils.Claims)
	return claims, ok
}

// UserFromContext returns the account attached by UserMiddleware
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// BearerToken extracts the credential of an "Authorization: Bearer x" header
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("Invalid Authorization header format")
	}
	return parts[1], nil
}

// AuthMiddleware verifies JWT tokens and attaches the claims to the context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := BearerToken(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SellerMiddleware ensures that the caller has the seller role
func SellerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleSeller {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: sellers only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserMiddleware resolves a bearer token holding the user ID, which is how
// the storefront client authenticates user data and cart calls.
func UserMiddleware(users repository.UserRepository, timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := BearerToken(r)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			user, err := users.FindByID(ctx, userID)
			if errors.Is(err, repository.ErrNotFound) {
				utils.WriteError(w, http.StatusUnauthorized, "User not found")
				return
			}
			if err != nil {
				zap.L().Error("failed to resolve bearer user", zap.Error(err))
				utils.WriteError(w, http.StatusInternalServerError, "Database error")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserContextKey, user)))
		})
	}
}
