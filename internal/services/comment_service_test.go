package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/models"
)

func newCommentService(db *gorm.DB) (*CommentService, *fakeRecorder, *fakeNotifier) {
	audit := &fakeRecorder{}
	notify := &fakeNotifier{}
	return NewCommentService(db, audit, notify), audit, notify
}

func TestCommentCreate(t *testing.T) {
	db := setupTestDB(t)
	svc, _, notify := newCommentService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	comment, err := svc.Create(member, task.ID, "started this morning")
	require.NoError(t, err)
	assert.False(t, comment.IsEdited)

	// the assignee commented, so the creator is notified
	require.Len(t, notify.notices, 1)
	assert.Equal(t, []uint{owner.ID}, notify.notices[0].UserIDs)
}

func TestCommentCreateByLeader(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newCommentService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	other := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	addMember(t, db, other, project, models.RoleManager)
	task := seedTask(t, db, project, member, member)

	// the leader may comment on any task in the project
	_, err := svc.Create(owner, task.ID, "keep me posted")
	require.NoError(t, err)

	// a manager uninvolved in the task may not
	_, err = svc.Create(other, task.ID, "me too")
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
}

func TestCommentCreateEmptyText(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newCommentService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	_, err := svc.Create(member, task.ID, "")
	require.Error(t, err)
	assert.Equal(t, "no_text", apperrors.Code(err))
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestCommentUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newCommentService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	comment, err := svc.Create(member, task.ID, "first draft")
	require.NoError(t, err)

	// same text: no edit marker
	unchanged, err := svc.Update(member, comment.ID, "first draft")
	require.NoError(t, err)
	assert.False(t, unchanged.IsEdited)

	edited, err := svc.Update(member, comment.ID, "second draft")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	assert.Equal(t, "second draft", edited.Text)

	// only the author may edit
	_, err = svc.Update(owner, comment.ID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
}

func TestCommentDelete(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newCommentService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	task := seedTask(t, db, project, owner, member)

	comment, err := svc.Create(member, task.ID, "obsolete")
	require.NoError(t, err)

	err = svc.Delete(owner, comment.ID)
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))

	require.NoError(t, svc.Delete(member, comment.ID))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}
