package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"quickcart/middleware"
	"quickcart/models"
	"quickcart/repository"
	"quickcart/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductController handles product-related requests
type ProductController struct {
	Products repository.ProductRepository
	Timeout  time.Duration
}

// NewProductController creates a new ProductController
func NewProductController(products repository.ProductRepository, timeout time.Duration) *ProductController {
	return &ProductController{
		Products: products,
		Timeout:  timeout,
	}
}

// ListProducts retrieves the whole catalog
func (pc *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pc.Timeout)
	defer cancel()

	products, err := pc.Products.List(ctx)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

// AddProduct handles adding a new product (sellers only)
func (pc *ProductController) AddProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid seller")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product name is required")
		return
	}
	if product.Price < 0 || product.OfferPrice < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Prices must not be negative")
		return
	}
	if product.OfferPrice == 0 {
		product.OfferPrice = product.Price
	}
	product.ID = primitive.NilObjectID
	product.SellerID = sellerID
	product.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), pc.Timeout)
	defer cancel()
	if err := pc.Products.Create(ctx, &product); err != nil {
		zap.L().Error("failed to create product", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Product added",
		"product": product,
	})
}
