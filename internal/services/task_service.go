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

type TaskService struct {
	db     *gorm.DB
	audit  activity.Recorder
	notify activity.Notifier
}

func NewTaskService(db *gorm.DB, audit activity.Recorder, notify activity.Notifier) *TaskService {
	return &TaskService{db: db, audit: audit, notify: notify}
}

type TaskInput struct {
	Title        string
	Description  string
	Status       string
	Priority     string
	DueDate      time.Time
	ProjectID    uint
	AssignedToID uint
}

// Create enforces the assignment rules: admins cannot create tasks, the
// creator must be a member of the target project, and an executor may only
// assign to themself.
func (s *TaskService) Create(user models.User, in TaskInput) (models.Task, error) {
	if user.IsAdmin {
		return models.Task{}, apperrors.NewDenied("no_rights", "Administrators cannot create tasks.")
	}

	if dueDateInPast(in.DueDate) {
		return models.Task{}, apperrors.NewValidation("due_date", "Due date must not be in the past.")
	}

	var project models.Project

	if err := s.db.First(&project, in.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperrors.NewNotFound("project_not_found", "Project not found.")
		}
		return models.Task{}, err
	}

	var assignee models.User

	if err := s.db.First(&assignee, in.AssignedToID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperrors.NewNotFound("user_not_found", "Assignee not found.")
		}
		return models.Task{}, err
	}

	var membership models.ProjectMembership

	err := s.db.Where("user_id = ? AND project_id = ?", user.ID, in.ProjectID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.Record(user, activity.ActionTasks,
				fmt.Sprintf("requested task creation in project %q", project.Title), activity.StatusAccessDenied)
			return models.Task{}, apperrors.NewDenied("no_membership", "You are not a participant of this project.")
		}
		return models.Task{}, err
	}

	if membership.Role == models.RoleExecutor && in.AssignedToID != user.ID {
		s.audit.Record(user, activity.ActionTasks,
			fmt.Sprintf("requested task creation in project %q", project.Title), activity.StatusAccessDenied)
		return models.Task{}, apperrors.NewDenied("no_assign_rights",
			"You are not allowed to assign tasks to other users.")
	}

	task := models.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		ProjectID:    in.ProjectID,
		AssignedToID: in.AssignedToID,
		CreatedByID:  user.ID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}

	s.audit.Record(user, activity.ActionTasks,
		fmt.Sprintf("created task %q", task.Title), activity.StatusSuccess)

	s.notify.Notify([]models.User{assignee},
		"New task",
		fmt.Sprintf("You have been assigned task %q in project %q.", task.Title, project.Title))

	return task, nil
}

func (s *TaskService) Get(taskID uint) (models.Task, error) {
	var task models.Task

	err := s.db.Preload("CreatedBy").Preload("AssignedTo").Preload("Project").First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperrors.NewNotFound("task_not_found", "Task not found.")
		}
		return models.Task{}, err
	}

	return task, nil
}

// ChangeStatus may be called by the task's creator or its assignee. Setting
// the current status again succeeds without audit or notification.
func (s *TaskService) ChangeStatus(user models.User, taskID uint, status string) (models.Task, error) {
	task, err := s.Get(taskID)
	if err != nil {
		return models.Task{}, err
	}

	if task.CreatedByID != user.ID && task.AssignedToID != user.ID {
		s.audit.Record(user, activity.ActionTasks,
			fmt.Sprintf("requested a status change on task %q", task.Title), activity.StatusAccessDenied)
		return models.Task{}, apperrors.NewDenied("no_rights",
			"You are not allowed to change the status of this task.")
	}

	if task.Status == status {
		return task, nil
	}

	if err := s.db.Model(&task).Update("status", status).Error; err != nil {
		return models.Task{}, err
	}

	s.audit.Record(user, activity.ActionTasks,
		fmt.Sprintf("changed status of task %q", task.Title), activity.StatusSuccess)

	receiver := task.AssignedTo
	if task.CreatedByID != user.ID {
		receiver = task.CreatedBy
	}

	s.notify.Notify([]models.User{receiver},
		"Task status change",
		fmt.Sprintf("The status of task %q in project %q has changed.", task.Title, task.Project.Title))

	return task, nil
}

func (s *TaskService) ChangeInfo(user models.User, taskID uint, in TaskInput) (models.Task, error) {
	task, err := s.Get(taskID)
	if err != nil {
		return models.Task{}, err
	}

	if task.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionTasks,
			fmt.Sprintf("requested a change on task %q", task.Title), activity.StatusAccessDenied)
		return models.Task{}, apperrors.NewDenied("no_rights", "You are not allowed to change this task.")
	}

	if dueDateInPast(in.DueDate) {
		return models.Task{}, apperrors.NewValidation("due_date", "Due date must not be in the past.")
	}

	if in.AssignedToID == 0 {
		in.AssignedToID = task.AssignedToID
	}

	changed := task.Title != in.Title ||
		task.Description != in.Description ||
		task.Priority != in.Priority ||
		task.AssignedToID != in.AssignedToID ||
		!task.DueDate.Equal(in.DueDate)

	if !changed {
		return task, nil
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Priority = in.Priority
	task.AssignedToID = in.AssignedToID
	task.DueDate = in.DueDate

	if err := s.db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}

	s.audit.Record(user, activity.ActionTasks,
		fmt.Sprintf("changed task %q", task.Title), activity.StatusSuccess)

	var assignee models.User
	if err := s.db.First(&assignee, task.AssignedToID).Error; err == nil {
		s.notify.Notify([]models.User{assignee},
			"Task change",
			fmt.Sprintf("Task %q in project %q has been changed.", task.Title, task.Project.Title))
	}

	return task, nil
}

func (s *TaskService) Delete(user models.User, taskID uint) error {
	task, err := s.Get(taskID)
	if err != nil {
		return err
	}

	if task.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionTasks,
			fmt.Sprintf("requested deletion of task %q", task.Title), activity.StatusAccessDenied)
		return apperrors.NewDenied("no_rights", "You are not allowed to delete this task.")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})

	if err != nil {
		return err
	}

	s.audit.Record(user, activity.ActionTasks,
		fmt.Sprintf("deleted task %q", task.Title), activity.StatusSuccess)

	s.notify.Notify([]models.User{task.AssignedTo},
		"Task deleted",
		fmt.Sprintf("Task %q in project %q has been deleted.", task.Title, task.Project.Title))

	return nil
}

// Query views. Participant-level gating happens at the route; these only
// shape the result sets.

func (s *TaskService) ListAll(projectID uint) ([]models.Task, error) {
	return s.listTasks(s.db.Where("project_id = ?", projectID))
}

func (s *TaskService) ListMine(user models.User, projectID uint) ([]models.Task, error) {
	return s.listTasks(s.db.Where("project_id = ? AND assigned_to_id = ?", projectID, user.ID))
}

// ListDelegated returns tasks the caller created for other members.
func (s *TaskService) ListDelegated(user models.User, projectID uint) ([]models.Task, error) {
	return s.listTasks(s.db.
		Where("project_id = ? AND created_by_id = ? AND assigned_to_id <> ?", projectID, user.ID, user.ID))
}

// ListShared returns the project's non-private tasks: a task someone assigned
// to themself is private, everything else is visible to all participants.
func (s *TaskService) ListShared(projectID uint) ([]models.Task, error) {
	return s.listTasks(s.db.
		Where("project_id = ? AND created_by_id <> assigned_to_id", projectID))
}

func (s *TaskService) listTasks(query *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task

	if err := query.Preload("CreatedBy").Preload("AssignedTo").Preload("Project").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}
