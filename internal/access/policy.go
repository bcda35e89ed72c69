package access

import (
	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

// Predicate is a single boolean access rule over the caller and the request's
// project target. Predicates are stateless: each call re-resolves the project
// context, so they compose freely without sharing lookups.
type Predicate func(db *gorm.DB, user models.User, target Target) bool

// Or short-circuits left to right.
func Or(preds ...Predicate) Predicate {
	return func(db *gorm.DB, user models.User, target Target) bool {
		for _, pred := range preds {
			if pred(db, user, target) {
				return true
			}
		}
		return false
	}
}

func IsAdmin(db *gorm.DB, user models.User, target Target) bool {
	return user.IsAdmin
}

// IsParticipant admits admins unconditionally; everyone else needs a
// membership row in the resolved project.
func IsParticipant(db *gorm.DB, user models.User, target Target) bool {
	if user.IsAdmin {
		return true
	}

	projectID, ok := ResolveProject(db, target)
	if !ok {
		return false
	}

	var count int64
	db.Model(&models.ProjectMembership{}).
		Where("user_id = ? AND project_id = ?", user.ID, projectID).
		Count(&count)

	return count > 0
}

// HasRole requires a membership with exactly the given role. There is no
// admin bypass here: admins hold no project roles.
func HasRole(role models.Role) Predicate {
	return func(db *gorm.DB, user models.User, target Target) bool {
		projectID, ok := ResolveProject(db, target)
		if !ok {
			return false
		}

		var count int64
		db.Model(&models.ProjectMembership{}).
			Where("user_id = ? AND project_id = ? AND role = ?", user.ID, projectID, role).
			Count(&count)

		return count > 0
	}
}

var (
	IsManager = HasRole(models.RoleManager)
	IsLeader  = HasRole(models.RoleLeader)

	CanAssign        = Or(IsManager, IsLeader)
	CanAssignOrAdmin = Or(CanAssign, IsAdmin)
)
