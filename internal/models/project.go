package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null"`
	Priority    string `gorm:"not null"`
	DueDate     time.Time
	CreatedByID uint `gorm:"not null;index"`

	// Relationships
	CreatedBy          User                `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JoinRequests       []JoinRequest       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks              []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
