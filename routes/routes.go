// routes/routes.go
package routes

import (
	"net/http"
	"time"

	"quickcart/controllers"
	"quickcart/middleware"
	"quickcart/repository"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, users repository.UserRepository, timeout time.Duration, userController *controllers.UserController, authController *controllers.AuthController, productController *controllers.ProductController, cartController *controllers.CartController) {
	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", userController.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", userController.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", userController.VerifyEmail).Methods(http.MethodGet)
	api.HandleFunc("/auth/{provider}/login", authController.OAuthLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/{provider}/callback", authController.OAuthCallback).Methods(http.MethodGet)
	api.HandleFunc("/product/list", productController.ListProducts).Methods(http.MethodGet)

	// Session token routes
	api.Handle("/auth/session", middleware.AuthMiddleware(http.HandlerFunc(authController.Session))).Methods(http.MethodGet)

	// Seller routes
	seller := api.PathPrefix("/product").Subrouter()
	seller.Use(middleware.AuthMiddleware)
	seller.Use(middleware.SellerMiddleware)
	seller.HandleFunc("/add", productController.AddProduct).Methods(http.MethodPost)

	// Bearer user routes
	withUser := middleware.UserMiddleware(users, timeout)
	api.Handle("/user/data", withUser(http.HandlerFunc(userController.GetUserData))).Methods(http.MethodGet)
	api.Handle("/cart/get", withUser(http.HandlerFunc(cartController.GetCart))).Methods(http.MethodGet)
	api.Handle("/cart/update", withUser(http.HandlerFunc(cartController.UpdateCart))).Methods(http.MethodPost)
}
