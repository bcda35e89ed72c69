package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title        string `gorm:"not null"`
	Description  string
	Status       string `gorm:"not null"`
	Priority     string `gorm:"not null"`
	DueDate      time.Time
	ProjectID    uint `gorm:"not null;index"`
	AssignedToID uint `gorm:"not null;index"`
	CreatedByID  uint `gorm:"not null;index"`

	// Relationships
	Project    Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTo User      `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy  User      `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments   []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
