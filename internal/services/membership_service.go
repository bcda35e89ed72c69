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

type MembershipService struct {
	db     *gorm.DB
	audit  activity.Recorder
	notify activity.Notifier
}

func NewMembershipService(db *gorm.DB, audit activity.Recorder, notify activity.Notifier) *MembershipService {
	return &MembershipService{db: db, audit: audit, notify: notify}
}

// RequestJoin files a pending join request. The application-level duplicate
// checks give the friendly errors; the unique (user,project) membership index
// remains the authoritative guard against races.
func (s *MembershipService) RequestJoin(user models.User, projectID uint) (models.JoinRequest, error) {
	var project models.Project

	if err := s.db.Preload("CreatedBy").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.JoinRequest{}, apperrors.NewNotFound("project_not_found", "Project not found.")
		}
		return models.JoinRequest{}, err
	}

	var count int64

	s.db.Model(&models.ProjectMembership{}).
		Where("user_id = ? AND project_id = ?", user.ID, projectID).
		Count(&count)
	if count > 0 {
		return models.JoinRequest{}, apperrors.NewConflict("request_already_satisfied",
			"You are already a participant of this project.")
	}

	s.db.Model(&models.JoinRequest{}).
		Where("created_by_id = ? AND project_id = ? AND status = ?", user.ID, projectID, models.RequestPending).
		Count(&count)
	if count > 0 {
		return models.JoinRequest{}, apperrors.NewConflict("request_already_exists",
			"You have already requested to join; the request is under review.")
	}

	request := models.JoinRequest{
		ProjectID:   projectID,
		CreatedByID: user.ID,
		Status:      models.RequestPending,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return models.JoinRequest{}, err
	}

	s.notify.Notify([]models.User{project.CreatedBy},
		"New join request",
		fmt.Sprintf("User %s requested to join project %q.", user.Name, project.Title))

	s.audit.Record(user, activity.ActionMemberships,
		fmt.Sprintf("requested to join project %q", project.Title), activity.StatusSuccess)

	return request, nil
}

// AddMember lets the project creator add a user directly. An existing join
// request from that user is flipped to accepted as a side effect, unless the
// user is already a member, in which case the request is left untouched.
func (s *MembershipService) AddMember(caller models.User, userID, projectID uint, role models.Role) (models.ProjectMembership, error) {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectMembership{}, apperrors.NewNotFound("project_not_found", "Project not found.")
		}
		return models.ProjectMembership{}, err
	}

	var target models.User

	if err := s.db.First(&target, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectMembership{}, apperrors.NewNotFound("user_not_found", "User not found.")
		}
		return models.ProjectMembership{}, err
	}

	if project.CreatedByID != caller.ID {
		s.audit.Record(caller, activity.ActionMemberships,
			fmt.Sprintf("requested to add a member to project %q", project.Title), activity.StatusAccessDenied)
		return models.ProjectMembership{}, apperrors.NewDenied("no_rights",
			"You are not allowed to add users to this project.")
	}

	if _, ok := models.RoleToggle[role]; !ok && role != models.RoleLeader {
		return models.ProjectMembership{}, apperrors.NewValidation("process_error", "Unknown project role.")
	}

	var existing models.ProjectMembership

	err := s.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&existing).Error
	if err == nil {
		return models.ProjectMembership{}, apperrors.NewConflict("request_already_satisfied",
			"User is already a participant of this project.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ProjectMembership{}, err
	}

	membership := models.ProjectMembership{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var request models.JoinRequest

		err := tx.Where("created_by_id = ? AND project_id = ?", userID, projectID).First(&request).Error
		if err == nil {
			if err := tx.Model(&request).Update("status", models.RequestAccepted).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		return models.ProjectMembership{}, err
	}

	s.audit.Record(caller, activity.ActionMemberships,
		fmt.Sprintf("added %s to project %q", target.Name, project.Title), activity.StatusSuccess)

	s.notify.Notify([]models.User{target},
		"Project membership",
		fmt.Sprintf("You have been added to project %q.", project.Title))

	return membership, nil
}

// SetRequestStatus moves a pending request to accepted or rejected. Both end
// states are terminal; a second status change is a conflict.
func (s *MembershipService) SetRequestStatus(caller models.User, requestID uint, status models.RequestStatus) (models.JoinRequest, error) {
	var request models.JoinRequest

	err := s.db.Preload("Project").Preload("CreatedBy").First(&request, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.JoinRequest{}, apperrors.NewNotFound("request_not_found", "Join request not found.")
		}
		return models.JoinRequest{}, err
	}

	if request.Status != models.RequestPending {
		return models.JoinRequest{}, apperrors.NewConflict("request_already_satisfied",
			fmt.Sprintf("Request has already been %s.", request.Status))
	}

	if request.Project.CreatedByID != caller.ID {
		return models.JoinRequest{}, apperrors.NewDenied("no_rights",
			"You are not allowed to change the status of this request.")
	}

	if status != models.RequestAccepted && status != models.RequestRejected {
		return models.JoinRequest{}, apperrors.NewValidation("process_error", "Unknown request status.")
	}

	if err := s.db.Model(&request).Update("status", status).Error; err != nil {
		return models.JoinRequest{}, err
	}

	s.notify.Notify([]models.User{request.CreatedBy},
		"Join request update",
		fmt.Sprintf("The status of your request to join project %q is now %q.", request.Project.Title, status))

	s.audit.Record(caller, activity.ActionUserAdmin,
		fmt.Sprintf("set join request of %s to %q in project %q",
			request.CreatedBy.Name, status, request.Project.Title), activity.StatusSuccess)

	return request, nil
}

// RemoveMember is allowed for the project creator and for a member leaving on
// their own. Tasks the removed user created in the project are deleted with
// their comments; tasks merely assigned to them fall back to their creators.
func (s *MembershipService) RemoveMember(caller models.User, userID, projectID uint) error {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("project_not_found", "Project not found.")
		}
		return err
	}

	var membership models.ProjectMembership

	err := s.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("member_not_found", "User is not a member of this project.")
		}
		return err
	}

	if project.CreatedByID != caller.ID && caller.ID != userID {
		s.audit.Record(caller, activity.ActionMemberships,
			fmt.Sprintf("requested removal of a member from project %q", project.Title), activity.StatusAccessDenied)
		return apperrors.NewDenied("no_rights", "You are not allowed to remove this member.")
	}

	var removed models.User

	if err := s.db.First(&removed, userID).Error; err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		createdIDs := tx.Model(&models.Task{}).Select("id").
			Where("created_by_id = ? AND project_id = ?", userID, projectID)

		if err := tx.Where("task_id IN (?)", createdIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("created_by_id = ? AND project_id = ?", userID, projectID).
			Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("assigned_to_id = ? AND project_id = ?", userID, projectID).
			Update("assigned_to_id", gorm.Expr("created_by_id")).Error; err != nil {
			return err
		}

		return tx.Delete(&membership).Error
	})

	if err != nil {
		return err
	}

	s.audit.Record(caller, activity.ActionMemberships,
		fmt.Sprintf("removed %s from project %q", removed.Name, project.Title), activity.StatusSuccess)

	s.notify.Notify([]models.User{removed},
		"Removed from project",
		fmt.Sprintf("You have been removed from project %q.", project.Title))

	return nil
}

// ChangeMemberRole toggles a member between executor and manager. Any other
// current role cannot be toggled.
func (s *MembershipService) ChangeMemberRole(caller models.User, userID, projectID uint) (models.ProjectMembership, error) {
	if !access.IsLeader(s.db, caller, access.Target{ProjectID: projectID}) {
		s.audit.Record(caller, activity.ActionUserAdmin,
			"requested a member role change", activity.StatusAccessDenied)
		return models.ProjectMembership{}, apperrors.NewDenied("no_rights",
			"Only the project leader can change member roles.")
	}

	var membership models.ProjectMembership

	err := s.db.Preload("User").Preload("Project").
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectMembership{}, apperrors.NewValidation("member_not_found",
				"User is not a member of this project.")
		}
		return models.ProjectMembership{}, err
	}

	next, ok := models.RoleToggle[membership.Role]
	if !ok {
		return models.ProjectMembership{}, apperrors.NewValidation("process_error",
			"Cannot perform the operation: this role cannot be toggled.")
	}

	if err := s.db.Model(&membership).Update("role", next).Error; err != nil {
		return models.ProjectMembership{}, err
	}

	membership.Role = next

	s.audit.Record(caller, activity.ActionUserAdmin,
		fmt.Sprintf("changed role of %s in project %q", membership.User.Name, membership.Project.Title),
		activity.StatusSuccess)

	s.notify.Notify([]models.User{membership.User},
		"Role change",
		fmt.Sprintf("Your role in project %q has been changed.", membership.Project.Title))

	return membership, nil
}

// MemberRole returns the caller's own role in a project.
func (s *MembershipService) MemberRole(user models.User, projectID uint) (models.Role, error) {
	var membership models.ProjectMembership

	err := s.db.Where("user_id = ? AND project_id = ?", user.ID, projectID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NewNotFound("no_membership", "You are not a member of this project.")
		}
		return "", err
	}

	return membership.Role, nil
}

func (s *MembershipService) ListMembers(projectID uint) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership

	err := s.db.Preload("User").Where("project_id = ?", projectID).Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

// ListNonMembers returns users who could still be added: not in the project
// and not admins.
func (s *MembershipService) ListNonMembers(projectID uint) ([]models.User, error) {
	var users []models.User

	memberIDs := s.db.Model(&models.ProjectMembership{}).
		Select("user_id").
		Where("project_id = ?", projectID)

	err := s.db.Where("id NOT IN (?) AND is_admin = ?", memberIDs, false).Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// ListRequests returns a project's join requests, accepted ones excluded.
func (s *MembershipService) ListRequests(projectID uint) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest

	err := s.db.Preload("CreatedBy").
		Where("project_id = ? AND status <> ?", projectID, models.RequestAccepted).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}
