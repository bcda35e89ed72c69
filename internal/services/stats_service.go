package services

import (
	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

// StatsService serves read-only project statistics. Only shared tasks count:
// a task someone created for themself is private and stays out of every
// aggregate.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type MemberLoad struct {
	Name      string `json:"name"`
	TaskCount int64  `json:"task_count"`
}

// Statuses that do not count toward a member's workload.
var inactiveStatuses = []string{"cancelled", "paused"}

func (s *StatsService) StatusDistribution(projectID uint) ([]BucketCount, error) {
	return s.distribution(projectID, "status")
}

func (s *StatsService) PriorityDistribution(projectID uint) ([]BucketCount, error) {
	return s.distribution(projectID, "priority")
}

func (s *StatsService) distribution(projectID uint, column string) ([]BucketCount, error) {
	var buckets []BucketCount

	err := s.db.Model(&models.Task{}).
		Select(column+" AS bucket, COUNT(id) AS count").
		Where("project_id = ? AND created_by_id <> assigned_to_id", projectID).
		Group(column).
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	return buckets, nil
}

// MemberWorkload returns members ordered by their count of open shared tasks,
// busiest first.
func (s *StatsService) MemberWorkload(projectID uint) ([]MemberLoad, error) {
	var loads []MemberLoad

	err := s.db.Model(&models.User{}).
		Select("users.name AS name, COUNT(tasks.id) AS task_count").
		Joins("JOIN project_memberships ON project_memberships.user_id = users.id AND project_memberships.project_id = ? AND project_memberships.deleted_at IS NULL", projectID).
		Joins("LEFT JOIN tasks ON tasks.assigned_to_id = users.id AND tasks.project_id = ? AND tasks.created_by_id <> tasks.assigned_to_id AND tasks.status NOT IN ? AND tasks.deleted_at IS NULL", projectID, inactiveStatuses).
		Group("users.id, users.name").
		Order("task_count DESC").
		Scan(&loads).Error
	if err != nil {
		return nil, err
	}

	return loads, nil
}
