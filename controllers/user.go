package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"quickcart/middleware"
	"quickcart/models"
	"quickcart/repository"
	"quickcart/session"
	"quickcart/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserController handles account and user data requests
type UserController struct {
	Users        repository.UserRepository
	EmailService utils.Mailer
	Timeout      time.Duration

	sellers map[string]bool
}

// NewUserController creates a new UserController with EmailService
func NewUserController(users repository.UserRepository, emailService utils.Mailer, timeout time.Duration, sellerEmails []string) *UserController {
	sellers := make(map[string]bool, len(sellerEmails))
	for _, email := range sellerEmails {
		sellers[strings.ToLower(email)] = true
	}
	return &UserController{
		Users:        users,
		EmailService: emailService,
		Timeout:      timeout,
		sellers:      sellers,
	}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), uc.Timeout)
	defer cancel()

	// Check if user already exists
	_, err := uc.Users.FindByEmail(ctx, req.Email)
	if err == nil {
		utils.WriteError(w, http.StatusConflict, "User already exists")
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		zap.L().Error("failed to look up user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user := &models.User{
		Name:              req.Name,
		Email:             req.Email,
		Password:          string(hashedPassword),
		Role:              models.RoleUser,
		Provider:          "credentials",
		VerificationToken: utils.RandomString(32),
		CartItems:         models.CartItems{},
	}
	if uc.sellers[user.Email] {
		user.Role = models.RoleSeller
	}

	if err := uc.Users.Create(ctx, user); err != nil {
		zap.L().Error("failed to create user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	// A failed email does not undo the registration
	if err := uc.EmailService.SendVerificationEmail(user.Email, user.VerificationToken); err != nil {
		zap.L().Error("failed to send verification email", zap.String("email", user.Email), zap.Error(err))
	}

	zap.L().Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("role", user.Role))
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully. Please check your email to verify your account.",
		"user":    session.FromUser(user),
	})
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.WriteError(w, http.StatusBadRequest, "Verification token missing")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), uc.Timeout)
	defer cancel()

	user, err := uc.Users.FindByVerificationToken(ctx, token)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "User not found or already verified")
		return
	}

	if err := uc.Users.MarkVerified(ctx, user.ID.Hex()); err != nil {
		zap.L().Error("failed to mark user verified", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error updating user verification status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email verified successfully.",
	})
}

// Login handles credentials sign-in and issues a session token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), uc.Timeout)
	defer cancel()

	// Never reveal whether the account exists
	user, err := uc.Users.FindByEmail(ctx, creds.Email)
	if err != nil || user.Password == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Check if email is verified
	if !user.IsVerified {
		utils.WriteError(w, http.StatusUnauthorized, "Email not verified")
		return
	}

	writeSession(w, user)
}

// GetUserData returns the bearer user's record including the stored cart
func (uc *UserController) GetUserData(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Public(),
	})
}

func writeSession(w http.ResponseWriter, user *models.User) {
	token, expires, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Name, user.Role)
	if err != nil {
		zap.L().Error("failed to sign session token", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"expires": expires,
		"user":    session.FromUser(user),
	})
}
