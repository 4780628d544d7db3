package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-app/config"
	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/domain/access"
	"portfolio-app/internal/domain/users"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	users      store.UserStore
	ownerEmail string
	log        zerolog.Logger
}

func NewHandler(us store.UserStore, ownerEmail string, log zerolog.Logger) *Handler {
	return &Handler{
		users:      us,
		ownerEmail: normalizeEmail(ownerEmail),
		log:        log.With().Str("component", "auth").Logger(),
	}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnsureOwner creates the owner account on first start. An existing account
// keeps its password; only its role is corrected.
func EnsureOwner(ctx context.Context, us store.UserStore, email, password, name string) (users.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return users.User{}, errors.New("owner email is required")
	}

	user, err := us.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == users.RoleOwner {
			return user, nil
		}
		user.Role = users.RoleOwner
		if err := us.SaveUser(ctx, &user); err != nil {
			return users.User{}, fmt.Errorf("promote owner: %w", err)
		}
		return user, nil
	case !errors.Is(err, store.ErrNotFound):
		return users.User{}, fmt.Errorf("lookup owner: %w", err)
	}

	user = users.User{
		Name:         name,
		Email:        email,
		AuthProvider: "local",
		Role:         users.RoleOwner,
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return users.User{}, fmt.Errorf("hash owner password: %w", err)
		}
		h := string(hashed)
		user.Password = &h
	}
	if err := us.SaveUser(ctx, &user); err != nil {
		return users.User{}, fmt.Errorf("create owner: %w", err)
	}
	return user, nil
}

// IssueToken signs the app JWT read back by middleware.AuthMiddleware.
func IssueToken(user users.User) (string, error) {
	if config.JWT_SECRET == "" {
		return "", errors.New("JWT secret not configured")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}

// ------------------------------
// POST /login
// ------------------------------
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), normalizeEmail(input.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error().Err(err).Msg("login lookup failed")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.Role != users.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	if !user.HasPassword() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

// ------------------------------
// GET /me
// ------------------------------
func (h *Handler) Me(c *gin.Context) {
	viewer := middleware.Viewer(c)
	c.JSON(http.StatusOK, gin.H{
		"email":  viewer.Email,
		"role":   viewer.Role,
		"policy": access.ComputePolicy(viewer),
	})
}

// ------------------------------
// POST /change-password
// ------------------------------
func (h *Handler) ChangePassword(c *gin.Context) {
	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !isPasswordStrong(body.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters with letters and numbers"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetUserByEmail(ctx, normalizeEmail(c.GetString("email")))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// Google-only owners may set a first password without the old one
	if user.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.OldPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	h2 := string(hashed)
	user.Password = &h2
	if err := h.users.SaveUser(ctx, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
