package models

import "gorm.io/gorm"

type ActionType struct {
	gorm.Model

	Name string `gorm:"uniqueIndex;not null"`
}

// AuditLog rows are append-only; nothing in the authorization path reads them.
type AuditLog struct {
	gorm.Model

	ActionTypeID uint   `gorm:"not null;index"`
	UserID       uint   `gorm:"not null;index"`
	Description  string `gorm:"type:text"`
	Status       string `gorm:"not null"`

	// Relationships
	ActionType ActionType `gorm:"foreignKey:ActionTypeID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	User       User       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
