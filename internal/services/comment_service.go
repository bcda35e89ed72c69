package services

import (
	"errors"
	"fmt"

	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/activity"
	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db     *gorm.DB
	audit  activity.Recorder
	notify activity.Notifier
}

func NewCommentService(db *gorm.DB, audit activity.Recorder, notify activity.Notifier) *CommentService {
	return &CommentService{db: db, audit: audit, notify: notify}
}

// Create permits the task's creator, its assignee, or the project leader.
func (s *CommentService) Create(user models.User, taskID uint, text string) (models.Comment, error) {
	var task models.Task

	err := s.db.Preload("CreatedBy").Preload("AssignedTo").Preload("Project").First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, apperrors.NewNotFound("task_not_found", "Task not found.")
		}
		return models.Comment{}, err
	}

	isLeader := access.IsLeader(s.db, user, access.Target{ProjectID: task.ProjectID})

	if task.CreatedByID != user.ID && task.AssignedToID != user.ID && !isLeader {
		s.audit.Record(user, activity.ActionComments,
			fmt.Sprintf("requested to comment on task %q", task.Title), activity.StatusAccessDenied)
		return models.Comment{}, apperrors.NewDenied("no_rights",
			"You are not allowed to comment on this task.")
	}

	if text == "" {
		return models.Comment{}, apperrors.NewValidation("no_text", "Comment text is required.")
	}

	comment := models.Comment{
		TaskID:      taskID,
		CreatedByID: user.ID,
		Text:        text,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return models.Comment{}, err
	}

	s.audit.Record(user, activity.ActionComments,
		fmt.Sprintf("commented on task %q", task.Title), activity.StatusSuccess)

	receiver := task.AssignedTo
	if task.CreatedByID != user.ID {
		receiver = task.CreatedBy
	}

	s.notify.Notify([]models.User{receiver},
		"New comment",
		fmt.Sprintf("A new comment was added to task %q in project %q.", task.Title, task.Project.Title))

	return comment, nil
}

func (s *CommentService) ListByTask(taskID uint) ([]models.Comment, error) {
	var comments []models.Comment

	err := s.db.Preload("CreatedBy").Where("task_id = ?", taskID).Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// Update is author-only. IsEdited flips only when the text actually changes.
func (s *CommentService) Update(user models.User, commentID uint, text string) (models.Comment, error) {
	var comment models.Comment

	err := s.db.Preload("Task").First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, apperrors.NewNotFound("comment_not_found", "Comment not found.")
		}
		return models.Comment{}, err
	}

	if comment.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionComments,
			fmt.Sprintf("requested to edit a comment on task %q", comment.Task.Title), activity.StatusAccessDenied)
		return models.Comment{}, apperrors.NewDenied("no_rights", "You cannot edit this comment.")
	}

	if text == "" {
		return models.Comment{}, apperrors.NewValidation("no_text", "Comment text is required.")
	}

	if comment.Text == text {
		return comment, nil
	}

	comment.Text = text
	comment.IsEdited = true

	if err := s.db.Save(&comment).Error; err != nil {
		return models.Comment{}, err
	}

	s.audit.Record(user, activity.ActionComments,
		fmt.Sprintf("edited a comment on task %q", comment.Task.Title), activity.StatusSuccess)

	return comment, nil
}

func (s *CommentService) Delete(user models.User, commentID uint) error {
	var comment models.Comment

	err := s.db.Preload("Task").First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("comment_not_found", "Comment not found.")
		}
		return err
	}

	if comment.CreatedByID != user.ID {
		s.audit.Record(user, activity.ActionComments,
			fmt.Sprintf("requested to delete a comment on task %q", comment.Task.Title), activity.StatusAccessDenied)
		return apperrors.NewDenied("no_rights", "You are not allowed to delete this comment.")
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return err
	}

	s.audit.Record(user, activity.ActionComments,
		fmt.Sprintf("deleted a comment on task %q", comment.Task.Title), activity.StatusSuccess)

	return nil
}
