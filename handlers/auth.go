package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"electionwatch/database"
	"electionwatch/models"
)

// Register creates a user and returns a token pair.
func (h *Handlers) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		log.Errorf("Failed to register user: %v", err)
		h.storeError(c, err, "User not found")
		return
	}

	token, refresh, err := h.auth.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Fail("failed to generate tokens"))
		return
	}

	c.JSON(http.StatusCreated, models.OK(models.TokenResponse{
		Token:        token,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(database.AccessTokenTTL.Seconds()),
		User:         user,
	}))
}

// Login authenticates a user by email and password. Credentials are checked
// against the stored bcrypt hash; a wrong password and an unknown email are
// indistinguishable to the caller.
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	user, err := h.users.VerifyPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("invalid email or password"))
		return
	}

	token, refresh, err := h.auth.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Fail("failed to generate tokens"))
		return
	}

	c.JSON(http.StatusOK, models.OK(models.TokenResponse{
		Token:        token,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(database.AccessTokenTTL.Seconds()),
		User:         user,
	}))
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *Handlers) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	userID, role, err := h.auth.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("invalid refresh token"))
		return
	}

	token, refresh, err := h.auth.GenerateTokenPair(userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Fail("failed to generate tokens"))
		return
	}

	c.JSON(http.StatusOK, models.OK(models.TokenResponse{
		Token:        token,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(database.AccessTokenTTL.Seconds()),
	}))
}
