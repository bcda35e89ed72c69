package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/models"
)

func newTaskService(db *gorm.DB) (*TaskService, *fakeRecorder, *fakeNotifier) {
	audit := &fakeRecorder{}
	notify := &fakeNotifier{}
	return NewTaskService(db, audit, notify), audit, notify
}

func TestTaskCreate(t *testing.T) {
	db := setupTestDB(t)
	svc, _, notify := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)

	task, err := svc.Create(owner, TaskInput{
		Title:        "Inspect frames",
		Status:       "open",
		Priority:     "high",
		DueDate:      time.Now().AddDate(0, 0, 7),
		ProjectID:    project.ID,
		AssignedToID: member.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, task.ID)
	assert.Equal(t, owner.ID, task.CreatedByID)

	require.Len(t, notify.notices, 1)
	assert.Equal(t, []uint{member.ID}, notify.notices[0].UserIDs)
}

func TestTaskCreateByAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTaskService(db)
	admin := createAdmin(t, db, "root")
	owner := createUser(t, db, "ada", true)
	project := seedProject(t, db, owner)

	_, err := svc.Create(admin, TaskInput{
		Title:        "Not allowed",
		Status:       "open",
		Priority:     "low",
		DueDate:      time.Now().AddDate(0, 0, 7),
		ProjectID:    project.ID,
		AssignedToID: owner.ID,
	})
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
}

func TestTaskCreateByNonMember(t *testing.T) {
	db := setupTestDB(t)
	svc, audit, _ := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	outsider := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)

	_, err := svc.Create(outsider, TaskInput{
		Title:        "Sneaky",
		Status:       "open",
		Priority:     "low",
		DueDate:      time.Now().AddDate(0, 0, 7),
		ProjectID:    project.ID,
		AssignedToID: outsider.ID,
	})
	require.Error(t, err)
	assert.Equal(t, "no_membership", apperrors.Code(err))
	assert.Equal(t, "access denied", audit.lastStatus())
}

func TestTaskCreateExecutorAssignsOther(t *testing.T) {
	db := setupTestDB(t)
	svc, audit, _ := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	executor := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, executor, project, models.RoleExecutor)

	_, err := svc.Create(executor, TaskInput{
		Title:        "Delegating up",
		Status:       "open",
		Priority:     "low",
		DueDate:      time.Now().AddDate(0, 0, 7),
		ProjectID:    project.ID,
		AssignedToID: owner.ID,
	})
	require.Error(t, err)
	assert.Equal(t, "no_assign_rights", apperrors.Code(err))
	assert.Equal(t, "access denied", audit.lastStatus())

	// self-assignment is fine
	_, err = svc.Create(executor, TaskInput{
		Title:        "My own work",
		Status:       "open",
		Priority:     "low",
		DueDate:      time.Now().AddDate(0, 0, 7),
		ProjectID:    project.ID,
		AssignedToID: executor.ID,
	})
	require.NoError(t, err)
}

func TestTaskChangeStatus(t *testing.T) {
	db := setupTestDB(t)
	svc, _, notify := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	updated, err := svc.ChangeStatus(member, task.ID, "done")
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Status)

	// the assignee changed it, so the creator hears about it
	require.Len(t, notify.notices, 1)
	assert.Equal(t, []uint{owner.ID}, notify.notices[0].UserIDs)
}

func TestTaskChangeStatusNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc, audit, notify := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	_, err := svc.ChangeStatus(owner, task.ID, task.Status)
	require.NoError(t, err)
	assert.Empty(t, audit.entries)
	assert.Empty(t, notify.notices)
}

func TestTaskChangeStatusByBystander(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	bystander := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	addMember(t, db, bystander, project, models.RoleManager)
	task := seedTask(t, db, project, owner, member)

	_, err := svc.ChangeStatus(bystander, task.ID, "done")
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
}

func TestTaskChangeInfoKeepsAssignee(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	updated, err := svc.ChangeInfo(owner, task.ID, TaskInput{
		Title:       "Inspect frames again",
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	})
	require.NoError(t, err)
	assert.Equal(t, member.ID, updated.AssignedToID)
	assert.Equal(t, "Inspect frames again", updated.Title)
}

func TestTaskDeleteCascadesComments(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	comment := models.Comment{TaskID: task.ID, CreatedByID: member.ID, Text: "halfway"}
	require.NoError(t, db.Create(&comment).Error)

	err := svc.Delete(member, task.ID)
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))

	require.NoError(t, svc.Delete(owner, task.ID))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestTaskListViews(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTaskService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleManager)

	delegated := seedTask(t, db, project, owner, member)
	private := seedTask(t, db, project, member, member)

	all, err := svc.ListAll(project.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListMine(member, project.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	fromOwner, err := svc.ListDelegated(owner, project.ID)
	require.NoError(t, err)
	require.Len(t, fromOwner, 1)
	assert.Equal(t, delegated.ID, fromOwner[0].ID)

	shared, err := svc.ListShared(project.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.NotEqual(t, private.ID, shared[0].ID)
}
