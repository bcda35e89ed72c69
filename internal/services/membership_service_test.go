package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/models"
)

func newMembershipService(db *gorm.DB) (*MembershipService, *fakeRecorder, *fakeNotifier) {
	audit := &fakeRecorder{}
	notify := &fakeNotifier{}
	return NewMembershipService(db, audit, notify), audit, notify
}

func TestRequestJoin(t *testing.T) {
	db := setupTestDB(t)
	svc, _, notify := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	applicant := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)

	request, err := svc.RequestJoin(applicant, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, request.Status)

	require.Len(t, notify.notices, 1)
	assert.Equal(t, []uint{owner.ID}, notify.notices[0].UserIDs)
}

func TestRequestJoinDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	applicant := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)

	_, err := svc.RequestJoin(applicant, project.ID)
	require.NoError(t, err)

	_, err = svc.RequestJoin(applicant, project.ID)
	require.Error(t, err)
	assert.Equal(t, "request_already_exists", apperrors.Code(err))

	_, err = svc.RequestJoin(owner, project.ID)
	require.Error(t, err)
	assert.Equal(t, "request_already_satisfied", apperrors.Code(err))
}

func TestAddMemberAcceptsPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	applicant := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)

	_, err := svc.RequestJoin(applicant, project.ID)
	require.NoError(t, err)

	membership, err := svc.AddMember(owner, applicant.ID, project.ID, models.RoleExecutor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleExecutor, membership.Role)

	var request models.JoinRequest
	err = db.Where("created_by_id = ? AND project_id = ?", applicant.ID, project.ID).First(&request).Error
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, request.Status)
}

func TestAddMemberAlreadyParticipant(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)

	rejected := models.JoinRequest{ProjectID: project.ID, CreatedByID: member.ID, Status: models.RequestRejected}
	require.NoError(t, db.Create(&rejected).Error)

	_, err := svc.AddMember(owner, member.ID, project.ID, models.RoleManager)
	require.Error(t, err)
	assert.Equal(t, "request_already_satisfied", apperrors.Code(err))

	// the existing request is left untouched
	var request models.JoinRequest
	require.NoError(t, db.First(&request, rejected.ID).Error)
	assert.Equal(t, models.RequestRejected, request.Status)
}

func TestAddMemberByNonOwner(t *testing.T) {
	db := setupTestDB(t)
	svc, audit, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	outsider := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)

	_, err := svc.AddMember(member, outsider.ID, project.ID, models.RoleExecutor)
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
	assert.Equal(t, "access denied", audit.lastStatus())
}

func TestSetRequestStatus(t *testing.T) {
	db := setupTestDB(t)
	svc, _, notify := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	applicant := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)

	request, err := svc.RequestJoin(applicant, project.ID)
	require.NoError(t, err)

	updated, err := svc.SetRequestStatus(owner, request.ID, models.RequestRejected)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, updated.Status)

	last := notify.notices[len(notify.notices)-1]
	assert.Equal(t, []uint{applicant.ID}, last.UserIDs)
}

func TestSetRequestStatusIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	applicant := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)

	request, err := svc.RequestJoin(applicant, project.ID)
	require.NoError(t, err)

	_, err = svc.SetRequestStatus(owner, request.ID, models.RequestRejected)
	require.NoError(t, err)

	_, err = svc.SetRequestStatus(owner, request.ID, models.RequestAccepted)
	require.Error(t, err)
	assert.Equal(t, "request_already_satisfied", apperrors.Code(err))
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))
}

func TestSetRequestStatusByNonOwner(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	applicant := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)

	request, err := svc.RequestJoin(applicant, project.ID)
	require.NoError(t, err)

	_, err = svc.SetRequestStatus(applicant, request.ID, models.RequestAccepted)
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
}

func TestRemoveMemberCascades(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleManager)

	// a task the member created is deleted with its comments
	created := seedTask(t, db, project, member, owner)
	comment := models.Comment{TaskID: created.ID, CreatedByID: owner.ID, Text: "looks fine"}
	require.NoError(t, db.Create(&comment).Error)

	// a task merely assigned to the member falls back to its creator
	assigned := seedTask(t, db, project, owner, member)

	require.NoError(t, svc.RemoveMember(owner, member.ID, project.ID))

	var count int64
	db.Model(&models.Task{}).Where("id = ?", created.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Comment{}).Where("task_id = ?", created.ID).Count(&count)
	assert.Zero(t, count)

	var task models.Task
	require.NoError(t, db.First(&task, assigned.ID).Error)
	assert.Equal(t, owner.ID, task.AssignedToID)

	db.Model(&models.ProjectMembership{}).Where("user_id = ?", member.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRemoveMemberSelf(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)

	require.NoError(t, svc.RemoveMember(member, member.ID, project.ID))

	var count int64
	db.Model(&models.ProjectMembership{}).Where("user_id = ?", member.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRemoveMemberByOtherMember(t *testing.T) {
	db := setupTestDB(t)
	svc, audit, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	other := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)
	addMember(t, db, other, project, models.RoleManager)

	err := svc.RemoveMember(other, member.ID, project.ID)
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
	assert.Equal(t, "access denied", audit.lastStatus())
}

func TestRemoveMemberNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	outsider := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)

	err := svc.RemoveMember(owner, outsider.ID, project.ID)
	require.Error(t, err)
	assert.Equal(t, "member_not_found", apperrors.Code(err))
}

func TestChangeMemberRoleToggle(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)

	membership, err := svc.ChangeMemberRole(owner, member.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, membership.Role)

	membership, err = svc.ChangeMemberRole(owner, member.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleExecutor, membership.Role)
}

func TestChangeMemberRoleOfLeader(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	project := seedProject(t, db, owner)

	_, err := svc.ChangeMemberRole(owner, owner.ID, project.ID)
	require.Error(t, err)
	assert.Equal(t, "process_error", apperrors.Code(err))
}

func TestChangeMemberRoleRequiresLeader(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	manager := createUser(t, db, "bob", false)
	member := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)
	addMember(t, db, manager, project, models.RoleManager)
	addMember(t, db, member, project, models.RoleExecutor)

	_, err := svc.ChangeMemberRole(manager, member.ID, project.ID)
	require.Error(t, err)
	assert.Equal(t, "no_rights", apperrors.Code(err))
}

func TestListNonMembersExcludesAdmins(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	outsider := createUser(t, db, "bob", false)
	createAdmin(t, db, "root")
	project := seedProject(t, db, owner)

	users, err := svc.ListNonMembers(project.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, outsider.ID, users[0].ID)
}

func TestListRequestsExcludesAccepted(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	first := createUser(t, db, "bob", false)
	second := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)

	accepted := models.JoinRequest{ProjectID: project.ID, CreatedByID: first.ID, Status: models.RequestAccepted}
	require.NoError(t, db.Create(&accepted).Error)
	pending := models.JoinRequest{ProjectID: project.ID, CreatedByID: second.ID, Status: models.RequestPending}
	require.NoError(t, db.Create(&pending).Error)

	requests, err := svc.ListRequests(project.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, second.ID, requests[0].CreatedByID)
}

func TestMemberRole(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newMembershipService(db)
	owner := createUser(t, db, "ada", true)
	outsider := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)

	role, err := svc.MemberRole(owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleLeader, role)

	_, err = svc.MemberRole(outsider, project.ID)
	require.Error(t, err)
	assert.Equal(t, "no_membership", apperrors.Code(err))
}
