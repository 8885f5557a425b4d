package models

import "time"

// PaymentStatus tracks whether a parcel's delivery fee has been paid
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// DeliveryStatus represents all possible states of a parcel delivery
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusAssigned  DeliveryStatus = "assigned"
	StatusInTransit DeliveryStatus = "in-transit"
	StatusDelivered DeliveryStatus = "delivered"
)

type Parcel struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	TrackingID      string         `json:"tracking_id" gorm:"uniqueIndex;not null"`
	SenderEmail     string         `json:"sender_email" gorm:"index;not null"`
	Title           string         `json:"title" gorm:"not null"`
	ReceiverName    string         `json:"receiver_name" gorm:"not null"`
	ReceiverAddress string         `json:"receiver_address" gorm:"not null"`
	ReceiverPhone   string         `json:"receiver_phone"`
	Weight          float64        `json:"weight_kg"`
	Cost            float64        `json:"cost"`
	PaymentStatus   PaymentStatus  `json:"payment_status" gorm:"not null;default:'unpaid'"`
	DeliveryStatus  DeliveryStatus `json:"delivery_status" gorm:"not null;default:'pending'"`
	RiderID         *uint          `json:"rider_id"`
	RiderName       string         `json:"rider_name,omitempty"`
	RiderEmail      string         `json:"rider_email,omitempty" gorm:"index"`
	AssignedAt      *time.Time     `json:"assigned_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Payment is written exactly once per successful payment and never mutated
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ParcelID      uint      `json:"parcel_id" gorm:"not null;index"`
	Parcel        Parcel    `json:"parcel,omitempty" gorm:"foreignKey:ParcelID"`
	Email         string    `json:"email" gorm:"index;not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id" gorm:"uniqueIndex;not null"`
	PaidAt        time.Time `json:"paid_at"`
}
