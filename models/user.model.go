package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

// CartItems maps a product ID to its quantity. Missing keys mean zero.
type CartItems map[string]int

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password,omitempty" json:"-"`
	Role              string             `bson:"role" json:"role"` // "user" or "seller"
	Provider          string             `bson:"provider,omitempty" json:"provider,omitempty"`
	IsVerified        bool               `bson:"is_verified" json:"is_verified"`
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`
	CartItems         CartItems          `bson:"cart_items" json:"cartItems"`
}

// Public returns a copy safe to send to clients.
func (u User) Public() User {
	u.Password = ""
	u.VerificationToken = ""
	if u.CartItems == nil {
		u.CartItems = CartItems{}
	}
	return u
}
