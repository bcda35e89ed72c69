package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive/internal/activity"
	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db            *gorm.DB
	audit         activity.Recorder
	notify        activity.Notifier
	resetTokenTTL time.Duration
}

func NewUserService(db *gorm.DB, audit activity.Recorder, notify activity.Notifier, resetTokenTTL time.Duration) *UserService {
	return &UserService{db: db, audit: audit, notify: notify, resetTokenTTL: resetTokenTTL}
}

func (s *UserService) Register(name, email, password string) (models.User, error) {
	var existing models.User

	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return models.User{}, apperrors.NewConflict("email_taken", "A user with this email already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	s.audit.Record(user, activity.ActionAccounts, "created an account", activity.StatusSuccess)

	return user, nil
}

// Authenticate verifies credentials and records the login time. Blocked
// accounts cannot log in.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	var user models.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.NewValidation("invalid_credentials", "Invalid email or password.")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperrors.NewValidation("invalid_credentials", "Invalid email or password.")
	}

	if !user.IsActive {
		return models.User{}, apperrors.NewDenied("account_blocked", "Account has been deactivated.")
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return models.User{}, err
	}
	user.LastLogin = &now

	s.audit.Record(user, activity.ActionAccounts, "logged in", activity.StatusSuccess)

	return user, nil
}

func (s *UserService) Logout(user models.User) {
	s.audit.Record(user, activity.ActionAccounts, "logged out", activity.StatusSuccess)
}

type ProfileInput struct {
	Name                 string
	NotificationsEnabled *bool
	ThemeDark            *bool
}

func (s *UserService) UpdateProfile(user models.User, in ProfileInput) (models.User, error) {
	updates := make(map[string]interface{})

	if in.Name != "" && in.Name != user.Name {
		updates["name"] = in.Name
	}
	if in.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *in.NotificationsEnabled
	}
	if in.ThemeDark != nil {
		updates["theme_dark"] = *in.ThemeDark
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return models.User{}, err
	}

	s.audit.Record(user, activity.ActionAccounts, "updated profile", activity.StatusSuccess)

	return user, nil
}

// DeleteAccount removes the user and their footprint: owned projects with
// everything under them, tasks they created elsewhere, their comments and
// memberships. Tasks merely assigned to them return to their creators.
func (s *UserService) DeleteAccount(user models.User) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var owned []models.Project

		if err := tx.Where("created_by_id = ?", user.ID).Find(&owned).Error; err != nil {
			return err
		}

		for _, project := range owned {
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
			if err := tx.Delete(&project).Error; err != nil {
				return err
			}
		}

		createdIDs := tx.Model(&models.Task{}).Select("id").Where("created_by_id = ?", user.ID)

		if err := tx.Where("task_id IN (?)", createdIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("created_by_id = ?", user.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("assigned_to_id = ?", user.ID).
			Update("assigned_to_id", gorm.Expr("created_by_id")).Error; err != nil {
			return err
		}

		if err := tx.Where("created_by_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("created_by_id = ?", user.ID).Delete(&models.JoinRequest{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})

	if err != nil {
		return err
	}

	s.audit.Record(user, activity.ActionAccounts, "deleted their account", activity.StatusSuccess)

	return nil
}

// ChangeLeaderRights flips a user's project-leader eligibility. Admin only.
func (s *UserService) ChangeLeaderRights(caller models.User, userID uint) (models.User, error) {
	return s.toggleFlag(caller, userID, "is_project_leader",
		"changed project-leader rights for %s",
		"Your rights in the system", "Your project management rights have been changed.")
}

// ChangeActivation blocks or unblocks an account. Admin only.
func (s *UserService) ChangeActivation(caller models.User, userID uint) (models.User, error) {
	return s.toggleFlag(caller, userID, "is_active",
		"changed account access for %s",
		"Account access", "Access to your account has been changed.")
}

func (s *UserService) toggleFlag(caller models.User, userID uint, column, auditFormat, header, text string) (models.User, error) {
	if !caller.IsAdmin {
		return models.User{}, apperrors.NewDenied("no_rights", "Administrator rights are required.")
	}

	var target models.User

	err := s.db.First(&target, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.NewNotFound("user_not_found", "User not found.")
		}
		return models.User{}, err
	}

	var current bool
	switch column {
	case "is_project_leader":
		current = target.IsProjectLeader
	case "is_active":
		current = target.IsActive
	}

	if err := s.db.Model(&target).Update(column, !current).Error; err != nil {
		return models.User{}, err
	}

	s.audit.Record(caller, activity.ActionUserAdmin,
		fmt.Sprintf(auditFormat, target.Name), activity.StatusSuccess)

	s.notify.Notify([]models.User{target}, header, text)

	return target, nil
}

func (s *UserService) ListAll() ([]models.User, error) {
	var users []models.User

	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// RequestPasswordReset issues a one-time token and mails the reset link. A
// missing account is reported as not found so the client can say so; the
// token itself is never returned over the API.
func (s *UserService) RequestPasswordReset(email, resetURLBase string) error {
	var user models.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("user_not_found", "No account with this email.")
		}
		return err
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}

	if err := s.db.Create(&reset).Error; err != nil {
		return err
	}

	s.notify.Notify([]models.User{user},
		"Password reset",
		fmt.Sprintf("Follow %s/%s to reset your password.", resetURLBase, reset.Token))

	s.audit.Record(user, activity.ActionAccounts, "requested a password reset", activity.StatusSuccess)

	return nil
}

func (s *UserService) ConfirmPasswordReset(token, newPassword string) error {
	var reset models.PasswordReset

	err := s.db.Preload("User").Where("token = ?", token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("token_invalid", "Unknown reset token.")
		}
		return err
	}

	if time.Now().After(reset.ExpiresAt) {
		return apperrors.NewValidation("token_expired", "Reset token has expired.")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&reset.User).Update("password_hash", string(passwordHash)).Error; err != nil {
			return err
		}
		return tx.Delete(&reset).Error
	})

	if err != nil {
		return err
	}

	s.audit.Record(reset.User, activity.ActionAccounts, "reset their password", activity.StatusSuccess)

	return nil
}

// ListActionTypes and ListUserActions expose the audit trail to admins. The
// authorization core itself never reads these rows.
func (s *UserService) ListActionTypes() ([]models.ActionType, error) {
	var actionTypes []models.ActionType

	if err := s.db.Find(&actionTypes).Error; err != nil {
		return nil, err
	}

	return actionTypes, nil
}

func (s *UserService) ListUserActions(userID, typeID uint) ([]models.AuditLog, error) {
	var entries []models.AuditLog

	err := s.db.Preload("ActionType").
		Where("user_id = ? AND action_type_id = ?", userID, typeID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
