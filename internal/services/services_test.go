package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive/internal/models"
)

type recordedAction struct {
	UserID uint
	Action string
	Status string
}

type fakeRecorder struct {
	entries []recordedAction
}

func (r *fakeRecorder) Record(user models.User, actionName, description, status string) {
	r.entries = append(r.entries, recordedAction{UserID: user.ID, Action: actionName, Status: status})
}

func (r *fakeRecorder) lastStatus() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Status
}

type sentNotice struct {
	UserIDs []uint
	Header  string
}

type fakeNotifier struct {
	notices []sentNotice
}

func (n *fakeNotifier) Notify(users []models.User, header, text string) {
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	n.notices = append(n.notices, sentNotice{UserIDs: ids, Header: header})
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.JoinRequest{},
		&models.Task{},
		&models.Comment{},
		&models.ActionType{},
		&models.AuditLog{},
		&models.PasswordReset{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, leader bool) models.User {
	t.Helper()

	user := models.User{
		Name:            name,
		Email:           name + "@taskhive.test",
		PasswordHash:    "irrelevant",
		IsProjectLeader: leader,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func createAdmin(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        name + "@taskhive.test",
		PasswordHash: "irrelevant",
		IsAdmin:      true,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

// seedProject writes the project and the owner's leader membership directly,
// bypassing the service layer.
func seedProject(t *testing.T, db *gorm.DB, owner models.User) models.Project {
	t.Helper()

	project := models.Project{
		Title:       "Hive upgrade",
		Status:      "active",
		Priority:    "medium",
		DueDate:     time.Now().AddDate(0, 1, 0),
		CreatedByID: owner.ID,
	}
	require.NoError(t, db.Create(&project).Error)

	membership := models.ProjectMembership{
		UserID:    owner.ID,
		ProjectID: project.ID,
		Role:      models.RoleLeader,
	}
	require.NoError(t, db.Create(&membership).Error)

	return project
}

func addMember(t *testing.T, db *gorm.DB, user models.User, project models.Project, role models.Role) {
	t.Helper()

	membership := models.ProjectMembership{
		UserID:    user.ID,
		ProjectID: project.ID,
		Role:      role,
	}
	require.NoError(t, db.Create(&membership).Error)
}

func seedTask(t *testing.T, db *gorm.DB, project models.Project, creator, assignee models.User) models.Task {
	t.Helper()

	task := models.Task{
		Title:        "Inspect frames",
		Status:       "open",
		Priority:     "medium",
		DueDate:      time.Now().AddDate(0, 0, 14),
		ProjectID:    project.ID,
		AssignedToID: assignee.ID,
		CreatedByID:  creator.ID,
	}
	require.NoError(t, db.Create(&task).Error)

	return task
}
