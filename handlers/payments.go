package handlers

import (
	"errors"
	"net/http"
	"time"

	"parcel-delivery-api/middleware"
	"parcel-delivery-api/models"
	"parcel-delivery-api/payments"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errAlreadyPaid marks the guarded unpaid → paid transition affecting zero rows
var errAlreadyPaid = errors.New("parcel is already paid")

type PaymentIntentRequest struct {
	Amount   int64  `json:"amount" binding:"required,min=1"`
	Currency string `json:"currency"`
}

// CreatePaymentIntent asks the payment gateway for a client secret
func CreatePaymentIntent(gateway payments.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Currency == "" {
			req.Currency = "usd"
		}

		secret, err := gateway.CreateIntent(req.Amount, req.Currency)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway error: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"client_secret": secret})
	}
}

type RecordPaymentRequest struct {
	ParcelID      uint    `json:"parcel_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,min=0"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transaction_id"`
}

// RecordPayment marks a parcel paid and writes the payment record.
// The unpaid → paid flip is a single conditional update; if it affects zero
// rows the parcel was already paid and no Payment record is written, so a
// concurrent retry can never produce a duplicate.
func RecordPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := middleware.GetEmail(c)

		var parcel models.Parcel
		if err := db.First(&parcel, req.ParcelID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
			return
		}
		if parcel.SenderEmail != email && middleware.GetRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "This parcel does not belong to you"})
			return
		}

		if req.Method == "" {
			req.Method = "card"
		}
		if req.TransactionID == "" {
			req.TransactionID = uuid.NewString()
		}

		var payment models.Payment
		err := db.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Parcel{}).
				Where("id = ? AND payment_status = ?", req.ParcelID, models.PaymentUnpaid).
				Update("payment_status", models.PaymentPaid)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errAlreadyPaid
			}

			payment = models.Payment{
				ParcelID:      req.ParcelID,
				Email:         email,
				Amount:        req.Amount,
				Method:        req.Method,
				TransactionID: req.TransactionID,
				PaidAt:        time.Now(),
			}
			return tx.Create(&payment).Error
		})
		if errors.Is(err, errAlreadyPaid) {
			c.JSON(http.StatusConflict, gin.H{"error": "Parcel is already paid"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        "Payment recorded successfully",
			"payment_id":     payment.ID,
			"parcel_id":      req.ParcelID,
			"transaction_id": payment.TransactionID,
		})
	}
}

// ListMyPayments returns the caller's own payment history, newest first
func ListMyPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []models.Payment
		db.Where("email = ?", middleware.GetEmail(c)).
			Order("paid_at desc").
			Find(&records)
		c.JSON(http.StatusOK, gin.H{"count": len(records), "payments": records})
	}
}
