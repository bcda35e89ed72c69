package models

import "gorm.io/gorm"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

type JoinRequest struct {
	gorm.Model

	ProjectID   uint          `gorm:"not null;index"`
	CreatedByID uint          `gorm:"not null;index"`
	Status      RequestStatus `gorm:"not null"`

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
