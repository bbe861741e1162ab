// handlers/auth_handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"folio/api/analytics"
	"folio/api/middleware"
	"folio/api/models"
	"folio/api/store"
	"folio/api/utils"
)

type AuthHandlers struct {
	UserStore *store.UserStore
	Tokens    *utils.TokenManager
	Admins    analytics.AdminRegistry
}

func NewAuthHandlers(userStore *store.UserStore, tokens *utils.TokenManager, admins analytics.AdminRegistry) *AuthHandlers {
	return &AuthHandlers{UserStore: userStore, Tokens: tokens, Admins: admins}
}

// Signup registers an account. Admin status is granted separately by adding
// a row to admin_users.
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user, err := h.UserStore.CreateUser(c.Request.Context(), req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		log.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user_email": user.Email})
}

// Login checks the password and returns a bearer token, also set as an
// HTTP-only cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.UserStore.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error().Err(err).Msg("Failed to load user for login")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := h.Tokens.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, tokenString, int(h.Tokens.TTL().Seconds()), "/", "", true, true)

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	c.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"token_type":   "Bearer",
		"user_email":   user.Email,
	})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me reports who the caller is and whether the admin dashboard is open to them.
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	isAdmin, err := h.Admins.IsAdmin(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Admin lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, models.Profile{UserID: userID, IsAdmin: isAdmin})
}
