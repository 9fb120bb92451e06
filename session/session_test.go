package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickcart/models"
	"quickcart/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := FromClaims("tok", &utils.Claims{
		UserID:         "u1",
		Email:          "a@b.c",
		Name:           "Ann",
		Role:           models.RoleSeller,
		StandardClaims: jwt.StandardClaims{ExpiresAt: exp.Unix()},
	})
	require.NotNil(t, s)
	assert.Equal(t, &User{ID: "u1", Email: "a@b.c", Name: "Ann", Role: "seller"}, s.User)
	assert.Equal(t, "tok", s.Token)
	assert.True(t, s.ExpiresAt.Equal(exp))
	assert.True(t, s.User.IsSeller())

	assert.Nil(t, FromClaims("tok", nil))
	assert.Nil(t, FromClaims("tok", &utils.Claims{Email: "x@y.z"}))
}

func TestFromUser(t *testing.T) {
	id := primitive.NewObjectID()
	u := FromUser(&models.User{ID: id, Email: "a@b.c", Role: models.RoleUser})
	assert.Equal(t, id.Hex(), u.ID)
	assert.False(t, u.IsSeller())
	assert.Nil(t, FromUser(nil))
}

func TestHolder(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.User())

	h.Set(&Session{User: &User{ID: "u1"}, ExpiresAt: time.Now().Add(time.Hour)})
	require.NotNil(t, h.User())
	assert.Equal(t, "u1", h.User().ID)

	h.User().ID = "mutated"
	assert.Equal(t, "u1", h.User().ID)

	h.Clear()
	assert.Nil(t, h.User())
}

func TestHolderExpired(t *testing.T) {
	h := NewHolder()
	h.Set(&Session{User: &User{ID: "u1"}, ExpiresAt: time.Now().Add(-time.Minute)})
	assert.Nil(t, h.User())
	assert.NotNil(t, h.Session())
}

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) AuthCodeURL(state, challenge string) string { return "" }

func (s stubProvider) ExchangeCode(ctx context.Context, code, verifier string) (*Identity, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubProvider{name: "google"})
	p, err := r.Get("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())

	_, err = r.Get("github")
	assert.Error(t, err)
}

func TestStateStoreRoundTrip(t *testing.T) {
	store := NewStateStore([]byte("0123456789abcdef0123456789abcdef"), false)

	rec := httptest.NewRecorder()
	state, challenge, err := store.Begin(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, challenge)

	req := httptest.NewRequest(http.MethodGet, "/callback?state="+state, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	verifier, err := store.Complete(httptest.NewRecorder(), req, state)
	require.NoError(t, err)
	assert.Equal(t, challenge, codeChallenge(verifier))
}

func TestStateStoreMismatch(t *testing.T) {
	store := NewStateStore([]byte("0123456789abcdef0123456789abcdef"), false)

	rec := httptest.NewRecorder()
	_, _, err := store.Begin(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	_, err = store.Complete(httptest.NewRecorder(), req, "forged")
	assert.ErrorIs(t, err, ErrStateMismatch)

	_, err = store.Complete(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback", nil), "x")
	assert.ErrorIs(t, err, ErrStateMismatch)
}

// encodeFailCodec decodes normally but refuses to encode.
type encodeFailCodec struct {
	securecookie.Codec
}

func (encodeFailCodec) Encode(name string, value interface{}) (string, error) {
	return "", errors.New("encode refused")
}

func TestStateStoreLogsExpireFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	store := NewStateStore([]byte("0123456789abcdef0123456789abcdef"), false)
	rec := httptest.NewRecorder()
	state, _, err := store.Begin(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	codecs := store.store.Codecs
	failing := make([]securecookie.Codec, len(codecs))
	for i, c := range codecs {
		failing[i] = encodeFailCodec{c}
	}
	store.store.Codecs = failing

	verifier, err := store.Complete(httptest.NewRecorder(), req, state)
	require.NoError(t, err)
	assert.NotEmpty(t, verifier)

	entries := logs.FilterMessage("failed to expire oauth state cookie").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "encode refused", entries[0].ContextMap()["error"])
}
