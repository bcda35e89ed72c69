package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive/internal/models"
)

func seedStatusTask(t *testing.T, db *gorm.DB, project models.Project, creator, assignee models.User, status string) {
	t.Helper()

	task := models.Task{
		Title:        "work item",
		Status:       status,
		Priority:     "medium",
		DueDate:      time.Now().AddDate(0, 0, 7),
		ProjectID:    project.ID,
		AssignedToID: assignee.ID,
		CreatedByID:  creator.ID,
	}
	require.NoError(t, db.Create(&task).Error)
}

func TestStatusDistributionSkipsPrivateTasks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db)
	owner := createUser(t, db, "ada", true)
	member := createUser(t, db, "bob", false)
	project := seedProject(t, db, owner)
	addMember(t, db, member, project, models.RoleExecutor)

	seedStatusTask(t, db, project, owner, member, "open")
	seedStatusTask(t, db, project, owner, member, "open")
	seedStatusTask(t, db, project, owner, member, "done")
	// private task, self-assigned: never counted
	seedStatusTask(t, db, project, member, member, "open")

	buckets, err := svc.StatusDistribution(project.ID)
	require.NoError(t, err)

	counts := make(map[string]int64)
	for _, b := range buckets {
		counts[b.Bucket] = b.Count
	}
	assert.EqualValues(t, 2, counts["open"])
	assert.EqualValues(t, 1, counts["done"])
}

func TestMemberWorkload(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db)
	owner := createUser(t, db, "ada", true)
	busy := createUser(t, db, "bob", false)
	idle := createUser(t, db, "eve", false)
	project := seedProject(t, db, owner)
	addMember(t, db, busy, project, models.RoleExecutor)
	addMember(t, db, idle, project, models.RoleExecutor)

	seedStatusTask(t, db, project, owner, busy, "open")
	seedStatusTask(t, db, project, owner, busy, "open")
	// inactive statuses stay out of the workload
	seedStatusTask(t, db, project, owner, busy, "cancelled")
	seedStatusTask(t, db, project, owner, busy, "paused")

	loads, err := svc.MemberWorkload(project.ID)
	require.NoError(t, err)
	require.Len(t, loads, 3)

	assert.Equal(t, "bob", loads[0].Name)
	assert.EqualValues(t, 2, loads[0].TaskCount)

	byName := make(map[string]int64)
	for _, load := range loads {
		byName[load.Name] = load.TaskCount
	}
	assert.Zero(t, byName["eve"])
	assert.Zero(t, byName["ada"])
}
