// Package activity holds the audit and notification sinks the lifecycle layer
// reports into. Both are fire-and-forget: a sink failure never fails the
// operation that triggered it, and nothing in the authorization path reads
// what they write.
package activity

import "github.com/taskhive-dev/taskhive/internal/models"

// Action categories for audit entries.
const (
	ActionAccounts    = "accounts"
	ActionProjects    = "projects"
	ActionTasks       = "tasks"
	ActionComments    = "comments"
	ActionMemberships = "memberships"
	ActionUserAdmin   = "user management"
)

const (
	StatusSuccess      = "success"
	StatusAccessDenied = "access denied"
)

type Recorder interface {
	Record(user models.User, actionName, description, status string)
}

type Notifier interface {
	Notify(users []models.User, header, text string)
}
