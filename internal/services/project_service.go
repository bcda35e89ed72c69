package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskhive-dev/taskhive/internal/activity"
	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db     *gorm.DB
	audit  activity.Recorder
	notify activity.Notifier
}

func NewProjectService(db *gorm.DB, audit activity.Recorder, notify activity.Notifier) *ProjectService {
	return &ProjectService{db: db, audit: audit, notify: notify}
}

type ProjectInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     time.Time
}

// Create inserts the project and the creator's leader membership in one
// transaction; a failure on either leaves no orphan project behind.
func (s *ProjectService) Create(user models.User, in ProjectInput) (models.Project, error) {
	if !user.IsProjectLeader {
		s.audit.Record(user, activity.ActionProjects,
			"requested project creation", activity.StatusAccessDenied)
		return models.Project{}, apperrors.NewDenied("no_rights", "You are not allowed to create projects.")
	}

	if dueDateInPast(in.DueDate) {
		return models.Project{}, apperrors.NewValidation("due_date", "Due date must not be in the past.")
	}

	project := models.Project{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedByID: user.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectMembership{
			UserID:    user.ID,
			ProjectID: project.ID,
			Role:      models.RoleLeader,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		return models.Project{}, err
	}

	s.audit.Record(user, activity.ActionProjects,
		fmt.Sprintf("created project %q", project.Title), activity.StatusSuccess)

	return project, nil
}

func (s *ProjectService) Get(projectID uint) (models.Project, error) {
	var project models.Project

	if err := s.db.Preload("CreatedBy").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, apperrors.NewNotFound("project_not_found", "Project not found.")
		}
		return models.Project{}, err
	}

	return project, nil
}

func (s *ProjectService) ListAll() ([]models.Project, error) {
	var projects []models.Project

	if err := s.db.Preload("CreatedBy").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (s *ProjectService) ListMine(user models.User) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.Preload("CreatedBy").
		Where("id IN (?)", s.db.Model(&models.ProjectMembership{}).
			Select("project_id").
			Where("user_id = ?", user.ID)).
		Find(&projects).Error

	if err != nil {
		return nil, err
	}

	return projects, nil
}

// ChangeStatus is idempotent: setting the current status again succeeds but
// emits no audit entry.
func (s *ProjectService) ChangeStatus(user models.User, projectID uint, status string) (models.Project, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return models.Project{}, err
	}

	if project.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionProjects,
			fmt.Sprintf("requested a status change on project %q", project.Title), activity.StatusAccessDenied)
		return models.Project{}, apperrors.NewDenied("no_rights", "You are not the creator of this project.")
	}

	if project.Status == status {
		return project, nil
	}

	if err := s.db.Model(&project).Update("status", status).Error; err != nil {
		return models.Project{}, err
	}

	s.audit.Record(user, activity.ActionProjects,
		fmt.Sprintf("changed status of project %q", project.Title), activity.StatusSuccess)

	return project, nil
}

func (s *ProjectService) ChangeInfo(user models.User, projectID uint, in ProjectInput) (models.Project, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return models.Project{}, err
	}

	if project.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionProjects,
			fmt.Sprintf("requested a change on project %q", project.Title), activity.StatusAccessDenied)
		return models.Project{}, apperrors.NewDenied("no_rights", "You are not allowed to change this project.")
	}

	if dueDateInPast(in.DueDate) {
		return models.Project{}, apperrors.NewValidation("due_date", "Due date must not be in the past.")
	}

	changed := project.Title != in.Title ||
		project.Description != in.Description ||
		project.Priority != in.Priority ||
		!project.DueDate.Equal(in.DueDate)

	if !changed {
		return project, nil
	}

	project.Title = in.Title
	project.Description = in.Description
	project.Priority = in.Priority
	project.DueDate = in.DueDate

	if err := s.db.Save(&project).Error; err != nil {
		return models.Project{}, err
	}

	s.audit.Record(user, activity.ActionProjects,
		fmt.Sprintf("changed project %q", project.Title), activity.StatusSuccess)

	return project, nil
}

// Delete removes the project and everything under it in one transaction:
// comments on its tasks, the tasks, memberships and join requests.
func (s *ProjectService) Delete(user models.User, projectID uint) error {
	project, err := s.Get(projectID)
	if err != nil {
		return err
	}

	if project.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionProjects,
			fmt.Sprintf("requested deletion of project %q", project.Title), activity.StatusAccessDenied)
		return apperrors.NewDenied("no_rights", "You are not allowed to delete this project.")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", project.ID)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.JoinRequest{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		return err
	}

	s.audit.Record(user, activity.ActionProjects,
		fmt.Sprintf("deleted project %q", project.Title), activity.StatusSuccess)

	return nil
}
