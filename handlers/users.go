package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"electionwatch/models"
)

// ListUsers returns all users.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list users: %v", err)
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.OKList(users, len(users)))
}

// GetUser returns a user by id.
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.OK(user))
}

// CreateUser registers a new user.
func (h *Handlers) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		log.Errorf("Failed to create user: %v", err)
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusCreated, models.OKMessage("User created successfully", user))
}

// UpdateUser applies a partial update to a user.
func (h *Handlers) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.OKMessage("User updated successfully", user))
}

// DeleteUser removes a user by id.
func (h *Handlers) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "User deleted successfully"})
}
