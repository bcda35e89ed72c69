package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Name                 string `gorm:"not null"`
	Email                string `gorm:"uniqueIndex;not null"`
	PasswordHash         string `gorm:"not null"`
	IsAdmin              bool   `gorm:"not null;default:false"`
	IsProjectLeader      bool   `gorm:"not null;default:false"`
	IsActive             bool   `gorm:"not null;default:true"`
	NotificationsEnabled bool   `gorm:"not null;default:false"`
	ThemeDark            bool   `gorm:"not null;default:false"`
	LastLogin            *time.Time

	// Relationships
	OwnedProjects      []Project           `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedTasks       []Task              `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTasks      []Task              `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments           []Comment           `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AuditLogs          []AuditLog          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
