package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	TaskID      uint   `gorm:"not null;index"`
	CreatedByID uint   `gorm:"not null;index"`
	Text        string `gorm:"type:text;not null"`
	IsEdited    bool   `gorm:"not null;default:false"`

	// Relationships
	Task      Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy User `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
