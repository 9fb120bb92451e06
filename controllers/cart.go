package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"quickcart/middleware"
	"quickcart/models"
	"quickcart/repository"
	"quickcart/utils"

	"go.uber.org/zap"
)

// CartController handles cart-related requests
type CartController struct {
	Users   repository.UserRepository
	Timeout time.Duration
}

// NewCartController creates a new CartController
func NewCartController(users repository.UserRepository, timeout time.Duration) *CartController {
	return &CartController{
		Users:   users,
		Timeout: timeout,
	}
}

// UpdateCart replaces the bearer user's stored cart with the posted mapping
func (cc *CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body models.CartUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	items, err := body.CartData.Normalize()
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cc.Timeout)
	defer cancel()
	if err := cc.Users.UpdateCart(ctx, user.ID.Hex(), items); err != nil {
		zap.L().Error("failed to update cart", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error updating cart")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart Updated",
	})
}

// GetCart retrieves the bearer user's stored cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items := user.CartItems
	if items == nil {
		items = models.CartItems{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"cartItems": items,
	})
}
