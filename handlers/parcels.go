package handlers

import (
	"net/http"
	"time"

	"parcel-delivery-api/middleware"
	"parcel-delivery-api/models"
	"parcel-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateParcelRequest struct {
	Title           string  `json:"title" binding:"required"`
	ReceiverName    string  `json:"receiver_name" binding:"required"`
	ReceiverAddress string  `json:"receiver_address" binding:"required"`
	ReceiverPhone   string  `json:"receiver_phone"`
	Weight          float64 `json:"weight_kg"`
	Cost            float64 `json:"cost"`
}

// CreateParcel stores a new parcel for the logged-in sender.
// Every parcel starts unpaid and pending.
func CreateParcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateParcelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		parcel := models.Parcel{
			TrackingID:      uuid.NewString(),
			SenderEmail:     middleware.GetEmail(c),
			Title:           req.Title,
			ReceiverName:    req.ReceiverName,
			ReceiverAddress: req.ReceiverAddress,
			ReceiverPhone:   req.ReceiverPhone,
			Weight:          req.Weight,
			Cost:            req.Cost,
			PaymentStatus:   models.PaymentUnpaid,
			DeliveryStatus:  models.StatusPending,
		}
		if err := db.Create(&parcel).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create parcel"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     "Parcel created successfully",
			"parcel_id":   parcel.ID,
			"tracking_id": parcel.TrackingID,
			"parcel":      parcel,
		})
	}
}

// ListParcels returns the caller's parcels, newest first. Admins see all.
// payment_status and delivery_status filters are conjunctive.
func ListParcels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Parcel{})
		if middleware.GetRole(c) != models.RoleAdmin {
			query = query.Where("sender_email = ?", middleware.GetEmail(c))
		}
		if ps := c.Query("payment_status"); ps != "" {
			query = query.Where("payment_status = ?", ps)
		}
		if ds := c.Query("delivery_status"); ds != "" {
			query = query.Where("delivery_status = ?", ds)
		}

		var parcels []models.Parcel
		query.Order("created_at desc").Find(&parcels)
		c.JSON(http.StatusOK, gin.H{"count": len(parcels), "parcels": parcels})
	}
}

// GetParcel returns a single parcel to its sender, assigned rider or an admin
func GetParcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parcel models.Parcel
		if err := db.First(&parcel, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
			return
		}

		email := middleware.GetEmail(c)
		if parcel.SenderEmail != email && parcel.RiderEmail != email &&
			middleware.GetRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "This parcel does not belong to you"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"parcel": parcel})
	}
}

// DeleteParcel removes a parcel by id. Deleting an absent parcel is not an
// error; the response carries the number of records removed (0 or 1).
func DeleteParcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parcel models.Parcel
		if err := db.First(&parcel, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Parcel already absent", "deleted_count": 0})
			return
		}

		if parcel.SenderEmail != middleware.GetEmail(c) && middleware.GetRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "This parcel does not belong to you"})
			return
		}

		result := db.Delete(&parcel)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete parcel"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Parcel deleted",
			"deleted_count": result.RowsAffected,
		})
	}
}

type AssignRiderRequest struct {
	RiderID uint `json:"rider_id" binding:"required"`
}

// AssignRider attaches an approved rider to a pending parcel — admin only
func AssignRider(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignRiderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var parcel models.Parcel
		if err := db.First(&parcel, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
			return
		}

		var rider models.RiderApplication
		if err := db.First(&rider, req.RiderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rider not found"})
			return
		}
		if rider.Status != models.ApplicationApproved {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Rider is not approved",
				"status": rider.Status,
			})
			return
		}

		if err := statemachine.CanTransition(parcel.DeliveryStatus, models.StatusAssigned, "admin"); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":             "Invalid state transition",
				"current_status":    parcel.DeliveryStatus,
				"reason":            err.Error(),
				"valid_next_states": statemachine.ValidTransitionsFrom(parcel.DeliveryStatus),
			})
			return
		}

		// Conditional write: only the status observed above may be replaced,
		// so two concurrent assigns cannot both take the parcel
		now := time.Now()
		result := db.Model(&models.Parcel{}).
			Where("id = ? AND delivery_status = ?", parcel.ID, parcel.DeliveryStatus).
			Updates(map[string]interface{}{
				"rider_id":        rider.ID,
				"rider_name":      rider.Name,
				"rider_email":     rider.Email,
				"delivery_status": models.StatusAssigned,
				"assigned_at":     now,
			})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign rider"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Parcel status changed concurrently, assignment not applied"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "Rider assigned successfully",
			"parcel_id":   parcel.ID,
			"rider_id":    rider.ID,
			"rider_name":  rider.Name,
			"status":      models.StatusAssigned,
			"assigned_at": now,
		})
	}
}

type DeliveryStatusRequest struct {
	Status models.DeliveryStatus `json:"status" binding:"required"`
}

// UpdateDeliveryStatus lets the assigned rider advance a parcel
// through in-transit and delivered
func UpdateDeliveryStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeliveryStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var parcel models.Parcel
		if err := db.First(&parcel, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
			return
		}

		if parcel.RiderEmail != middleware.GetEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned rider for this parcel"})
			return
		}

		if err := statemachine.CanTransition(parcel.DeliveryStatus, req.Status, "rider"); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":             "Invalid state transition",
				"current_status":    parcel.DeliveryStatus,
				"reason":            err.Error(),
				"valid_next_states": statemachine.ValidTransitionsFrom(parcel.DeliveryStatus),
			})
			return
		}

		result := db.Model(&models.Parcel{}).
			Where("id = ? AND delivery_status = ?", parcel.ID, parcel.DeliveryStatus).
			Update("delivery_status", req.Status)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Parcel status changed concurrently, update not applied"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Delivery status updated",
			"parcel_id": parcel.ID,
			"status":    req.Status,
		})
	}
}

// GetStateMachineInfo returns the full delivery lifecycle for informational purposes
func GetStateMachineInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		var info []gin.H
		for _, t := range statemachine.GetAllTransitions() {
			info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
		}
		c.JSON(http.StatusOK, gin.H{
			"state_machine":   info,
			"terminal_states": []models.DeliveryStatus{models.StatusDelivered},
			"description":     "Parcel Delivery Lifecycle State Machine",
		})
	}
}
