// Package services holds the lifecycle controllers. Each controller validates
// fully before writing anything, and reports to the audit/notification sinks
// only after the mutation has committed; the sinks never influence the
// outcome.
package services

import (
	"time"
)

// dueDateInPast compares calendar dates, not instants: a due date of today is
// still acceptable.
func dueDateInPast(dueDate time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dueDate.Before(today)
}
