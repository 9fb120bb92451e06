package repository

import (
	"context"
	"testing"

	"quickcart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsers()

	user := &models.User{Name: "Ann", Email: "Ann@Example.com", VerificationToken: "tok"}
	require.NoError(t, repo.Create(ctx, user))
	require.False(t, user.ID.IsZero())

	found, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByVerificationToken(ctx, "tok")
	require.NoError(t, err)
	require.NoError(t, repo.MarkVerified(ctx, found.ID.Hex()))

	found, err = repo.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
	assert.Empty(t, found.VerificationToken)

	_, err = repo.FindByVerificationToken(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByID(ctx, "not-hex")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsersClaimForProvider(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsers()
	user := &models.User{Email: "a@b.c", Password: "hash", Provider: "credentials", VerificationToken: "tok"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.ClaimForProvider(ctx, user.ID.Hex(), "google"))

	found, err := repo.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
	assert.Empty(t, found.Password)
	assert.Empty(t, found.VerificationToken)
	assert.Equal(t, "google", found.Provider)

	assert.ErrorIs(t, repo.ClaimForProvider(ctx, "000000000000000000000000", "google"), ErrNotFound)
}

func TestMemoryUsersCartIsCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsers()
	user := &models.User{Email: "a@b.c"}
	require.NoError(t, repo.Create(ctx, user))

	items := models.CartItems{"p1": 2}
	require.NoError(t, repo.UpdateCart(ctx, user.ID.Hex(), items))
	items["p1"] = 9

	found, err := repo.FindByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.CartItems{"p1": 2}, found.CartItems)

	assert.ErrorIs(t, repo.UpdateCart(ctx, "000000000000000000000000", items), ErrNotFound)
}

func TestMemoryProducts(t *testing.T) {
	repo := NewMemoryProducts(models.Product{Name: "Lamp", OfferPrice: 10})
	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.False(t, products[0].ID.IsZero())
	assert.False(t, products[0].CreatedAt.IsZero())
}
