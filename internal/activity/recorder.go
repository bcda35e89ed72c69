package activity

import (
	"errors"
	"log"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

// AuditRecorder appends audit rows, creating action types on first use.
type AuditRecorder struct {
	db *gorm.DB
}

func NewAuditRecorder(db *gorm.DB) *AuditRecorder {
	return &AuditRecorder{db: db}
}

func (r *AuditRecorder) Record(user models.User, actionName, description, status string) {
	var actionType models.ActionType

	err := r.db.Where("name = ?", actionName).First(&actionType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		actionType = models.ActionType{Name: actionName}
		err = r.db.Create(&actionType).Error
	}
	if err != nil {
		log.Printf("audit: failed to resolve action type %q: %v", actionName, err)
		return
	}

	entry := models.AuditLog{
		ActionTypeID: actionType.ID,
		UserID:       user.ID,
		Description:  description,
		Status:       status,
	}

	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %q for user %d: %v", actionName, user.ID, err)
	}
}
