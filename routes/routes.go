package routes

import (
	"parcel-delivery-api/handlers"
	"parcel-delivery-api/middleware"
	"parcel-delivery-api/models"
	"parcel-delivery-api/payments"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, gateway payments.Gateway) {
	// ── Public routes ──────────────────────────────────────────────
	r.POST("/users", handlers.UpsertUser(db))
	r.GET("/state-machine", handlers.GetStateMachineInfo())

	// ── Authenticated routes ───────────────────────────────────────
	verified := r.Group("/")
	verified.Use(middleware.AuthRequired())
	{
		verified.GET("/users/:email/role", handlers.GetUserRole(db))
		verified.POST("/rider", handlers.CreateRiderApplication(db))

		verified.GET("/parcel", handlers.ListParcels(db))
		verified.POST("/parcels", handlers.CreateParcel(db))
		verified.GET("/parcels/:id", handlers.GetParcel(db))
		verified.DELETE("/parcels/:id", handlers.DeleteParcel(db))

		verified.POST("/create-payment-intent", handlers.CreatePaymentIntent(gateway))
		verified.POST("/payment", handlers.RecordPayment(db))
		verified.GET("/payments", handlers.ListMyPayments(db))
	}

	// ── Rider routes ───────────────────────────────────────────────
	rider := r.Group("/")
	rider.Use(middleware.AuthRequired(), middleware.RoleRequired(db, models.RoleRider))
	{
		rider.PATCH("/parcels/status/:id", handlers.UpdateDeliveryStatus(db))
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(db, models.RoleAdmin))
	{
		admin.GET("/users/search", handlers.SearchUsers(db))
		admin.PATCH("/users/role/:id", handlers.UpdateUserRole(db))

		admin.GET("/riders", handlers.ListRiders(db))
		admin.PATCH("/riders/status/:id", handlers.UpdateRiderStatus(db))
		admin.GET("/availableriders", handlers.AvailableRiders(db))

		admin.PATCH("/parcels/assign-rider/:id", handlers.AssignRider(db))
	}
}
