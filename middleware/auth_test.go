package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickcart/models"
	"quickcart/repository"
	"quickcart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"missing":     {header: "", ok: false},
		"wrong type":  {header: "Basic abc", ok: false},
		"empty value": {header: "Bearer ", ok: false},
		"extra parts": {header: "Bearer a b", ok: false},
		"valid":       {header: "Bearer abc", token: "abc", ok: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			token, err := BearerToken(r)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.token, token)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestAuthAndSellerMiddleware(t *testing.T) {
	var seen *utils.Claims
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	chain := AuthMiddleware(SellerMiddleware(final))

	sellerToken, _, err := utils.GenerateJWT("u1", "shop@example.com", "Shop", models.RoleSeller)
	require.NoError(t, err)
	userToken, _, err := utils.GenerateJWT("u2", "ann@example.com", "Ann", models.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(chain, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(chain, "Bearer nope").Code)
	assert.Equal(t, http.StatusForbidden, serve(chain, "Bearer "+userToken).Code)

	assert.Equal(t, http.StatusNoContent, serve(chain, "Bearer "+sellerToken).Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
}

func TestUserMiddleware(t *testing.T) {
	users := repository.NewMemoryUsers()
	account := &models.User{Email: "ann@example.com"}
	require.NoError(t, users.Create(context.Background(), account))

	var seen *models.User
	h := UserMiddleware(users, time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer 000000000000000000000000").Code)
	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+account.ID.Hex()).Code)
	require.NotNil(t, seen)
	assert.Equal(t, account.ID, seen.ID)
}
