package handlers

import (
	"errors"
	"net/http"
	"time"

	"parcel-delivery-api/middleware"
	"parcel-delivery-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpsertUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpsertUser records a user on first sign-in; repeat sign-ins only bump last_login_at
func UpsertUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var existing models.User
		err := db.Where("email = ?", req.Email).First(&existing).Error
		if err == nil {
			db.Model(&existing).Update("last_login_at", time.Now())
			c.JSON(http.StatusOK, gin.H{
				"message": "User already exists, last login updated",
				"created": false,
				"user_id": existing.ID,
			})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
			return
		}

		user := models.User{
			Name:        req.Name,
			Email:       req.Email,
			Role:        models.RoleUser,
			Phone:       req.Phone,
			LastLoginAt: time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"created": true,
			"user_id": user.ID,
			"user": gin.H{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

// SearchUsers finds users by partial email match — admin only
func SearchUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter required"})
			return
		}

		var users []models.User
		db.Where("email LIKE ?", "%"+email+"%").Find(&users)
		c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
	}
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// UpdateUserRole changes a user's role — admin only.
// Admins cannot change their own role, so the system always keeps its last admin.
func UpdateUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Only admin and user may be set directly; rider is granted
		// exclusively through the application approval flow
		validRoles := map[models.UserRole]bool{
			models.RoleAdmin: true,
			models.RoleUser:  true,
		}
		if !validRoles[req.Role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: admin or user"})
			return
		}

		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if user.Email == middleware.GetEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admins cannot change their own role"})
			return
		}

		if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Role updated successfully",
			"user_id": user.ID,
			"email":   user.Email,
			"role":    req.Role,
		})
	}
}

// GetUserRole returns the caller's stored role. Callers may only look up
// their own email; a missing record reports the default role "user".
func GetUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if email != middleware.GetEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only look up your own role"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"email": email, "role": models.RoleUser})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": email, "role": user.Role})
	}
}
