package access

import (
	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

// Target carries every place a request can name its project: path parameters
// and body fields. Zero means the source is absent.
type Target struct {
	ProjectID     uint
	TaskID        uint
	BodyProjectID uint
	BodyTaskID    uint
}

// ResolveProject determines the project a request operates on. Path parameters
// win over body fields, and a task reference at a given tier is final: if the
// task it names does not exist, resolution fails without falling through to
// the remaining sources. Lookup failures resolve to false, never to an error;
// callers treat an unresolved project as a denial.
func ResolveProject(db *gorm.DB, target Target) (uint, bool) {
	if target.ProjectID != 0 {
		return target.ProjectID, true
	}

	if target.TaskID != 0 {
		return projectOfTask(db, target.TaskID)
	}

	if target.BodyProjectID != 0 {
		return target.BodyProjectID, true
	}

	if target.BodyTaskID != 0 {
		return projectOfTask(db, target.BodyTaskID)
	}

	return 0, false
}

func projectOfTask(db *gorm.DB, taskID uint) (uint, bool) {
	var task models.Task

	if err := db.Select("project_id").First(&task, taskID).Error; err != nil {
		return 0, false
	}

	return task.ProjectID, true
}
