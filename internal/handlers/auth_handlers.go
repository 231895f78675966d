package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendormart/vendormart-api/internal/auth"
	"github.com/vendormart/vendormart-api/internal/models"
)

type RegisterInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// Register creates a vendor-role user account. The vendor company
// profile itself is created later through onboarding.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		h.serverError(c, "Failed to hash password", err)
		return
	}

	var exists int
	err := h.DB.QueryRow("SELECT 1 FROM users WHERE email = ?", input.Email).Scan(&exists)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}
	if err != sql.ErrNoRows {
		h.serverError(c, "Database error checking email", err)
		return
	}

	query := `
		INSERT INTO users (role, email, password_hash, full_name, phone_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := h.DB.Exec(query, models.RoleVendor, input.Email, password.Hash,
		input.FullName, input.PhoneNumber, time.Now())
	if err != nil {
		h.serverError(c, "Failed to create user", err)
		return
	}

	userID, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created",
		"userId":  userID,
	})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues the JWT. The vendor_id claim is
// zero until the user has a vendor profile.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.QueryRow(
		"SELECT id, role, email, password_hash FROM users WHERE email = ?",
		input.Email,
	).Scan(&user.ID, &user.Role, &user.Email, &user.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.serverError(c, "Database error during login", err)
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	ok, err := password.Matches(input.Password)
	if err != nil {
		h.serverError(c, "Failed to verify password", err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	var vendorID int64
	err = h.DB.QueryRow("SELECT id FROM vendors WHERE user_id = ?", user.ID).Scan(&vendorID)
	if err != nil && err != sql.ErrNoRows {
		h.serverError(c, "Database error during login", err)
		return
	}

	ttl := time.Duration(h.Cfg.JWT.ExpirationHrs) * time.Hour
	token, err := auth.GenerateToken(h.Cfg.JWT.Secret, user.ID, vendorID, user.Role, user.Email, ttl)
	if err != nil {
		h.serverError(c, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"role":     user.Role,
			"email":    user.Email,
			"vendorId": vendorID,
		},
	})
}
