package repository

import (
	"context"
	"errors"

	"quickcart/models"
)

var ErrNotFound = errors.New("not found")

// UserRepository stores user accounts and their carts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, id string) error
	// ClaimForProvider hands an account to a provider-verified owner: the
	// password is cleared and the account marked verified.
	ClaimForProvider(ctx context.Context, id string, provider string) error
	UpdateCart(ctx context.Context, id string, items models.CartItems) error
}

// ProductRepository stores the product catalog
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}
