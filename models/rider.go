package models

import "time"

// ApplicationStatus represents the review state of a rider application.
// pending is the only non-terminal state.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type RiderApplication struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	Name       string            `json:"name" gorm:"not null"`
	Email      string            `json:"email" gorm:"index;not null"`
	Phone      string            `json:"phone" gorm:"not null"`
	District   string            `json:"district" gorm:"index;not null"`
	Region     string            `json:"region"`
	Status     ApplicationStatus `json:"status" gorm:"not null;default:'pending'"`
	ReviewedAt *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
