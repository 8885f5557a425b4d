package handlers

import (
	"net/http"
	"time"

	"parcel-delivery-api/middleware"
	"parcel-delivery-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RiderApplicationRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	District string `json:"district" binding:"required"`
	Region   string `json:"region"`
}

// CreateRiderApplication submits a rider application for the logged-in user
func CreateRiderApplication(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RiderApplicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Email != middleware.GetEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only apply with your own email"})
			return
		}

		// One open or approved application per email
		var existing models.RiderApplication
		if result := db.Where("email = ? AND status IN ?", req.Email,
			[]models.ApplicationStatus{models.ApplicationPending, models.ApplicationApproved}).
			First(&existing); result.Error == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "An application for this email already exists",
				"status": existing.Status,
			})
			return
		}

		application := models.RiderApplication{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			District: req.District,
			Region:   req.Region,
			Status:   models.ApplicationPending,
		}
		if err := db.Create(&application).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        "Rider application submitted successfully",
			"application_id": application.ID,
			"status":         application.Status,
		})
	}
}

// ListRiders returns rider applications with an optional status filter — admin only
func ListRiders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.RiderApplication{})

		if status := c.Query("status"); status != "" {
			validStatuses := map[models.ApplicationStatus]bool{
				models.ApplicationPending:  true,
				models.ApplicationApproved: true,
				models.ApplicationRejected: true,
			}
			if !validStatuses[models.ApplicationStatus(status)] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: pending, approved or rejected"})
				return
			}
			query = query.Where("status = ?", status)
		}

		var applications []models.RiderApplication
		query.Order("created_at desc").Find(&applications)
		c.JSON(http.StatusOK, gin.H{"count": len(applications), "riders": applications})
	}
}

type RiderStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

// UpdateRiderStatus approves or rejects a pending application — admin only.
// Approval promotes the linked user to the rider role in the same transaction;
// when no user record matches the application email the approval still commits
// and the response flags the divergence via user_role_updated.
func UpdateRiderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RiderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Status != models.ApplicationApproved && req.Status != models.ApplicationRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: approved or rejected"})
			return
		}

		var application models.RiderApplication
		if err := db.First(&application, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rider application not found"})
			return
		}
		if application.Status != models.ApplicationPending {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Application has already been reviewed",
				"status": application.Status,
			})
			return
		}

		userRoleUpdated := false
		err := db.Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			if err := tx.Model(&application).Updates(map[string]interface{}{
				"status":      req.Status,
				"reviewed_at": now,
			}).Error; err != nil {
				return err
			}
			if req.Status == models.ApplicationApproved {
				result := tx.Model(&models.User{}).
					Where("email = ?", application.Email).
					Update("role", models.RoleRider)
				if result.Error != nil {
					return result.Error
				}
				userRoleUpdated = result.RowsAffected > 0
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":           "Application " + string(req.Status),
			"application_id":    application.ID,
			"status":            req.Status,
			"user_role_updated": userRoleUpdated,
		})
	}
}

// AvailableRiders lists approved riders, optionally filtered by district — admin only
func AvailableRiders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("status = ?", models.ApplicationApproved)
		if district := c.Query("district"); district != "" {
			query = query.Where("district = ?", district)
		}

		var riders []models.RiderApplication
		query.Order("created_at desc").Find(&riders)
		c.JSON(http.StatusOK, gin.H{"count": len(riders), "riders": riders})
	}
}
