package models

import "gorm.io/gorm"

// Role is the closed set of project roles. Leader is assigned once at project
// creation; executor and manager convert into each other via the role toggle.
type Role string

const (
	RoleExecutor Role = "executor"
	RoleManager  Role = "manager"
	RoleLeader   Role = "leader"
)

// RoleToggle maps a member's current role to the one the toggle operation
// produces. Leader has no entry on purpose.
var RoleToggle = map[Role]Role{
	RoleExecutor: RoleManager,
	RoleManager:  RoleExecutor,
}

type ProjectMembership struct {
	gorm.Model

	UserID    uint `gorm:"not null;uniqueIndex:idx_user_project"`
	ProjectID uint `gorm:"not null;uniqueIndex:idx_user_project"`
	Role      Role `gorm:"not null"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
