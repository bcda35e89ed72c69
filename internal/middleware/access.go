package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

// RequireAccess gates a route on an access predicate evaluated against the
// path-derived project target. An unresolved project context is a denial, so
// the failure mode is always 403 with the no_rights code.
func RequireAccess(pred access.Predicate) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utils.GetCurrentUser(ctx)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !pred(db.DB, user, TargetFromPath(ctx)) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"no_rights": "You are not allowed to perform this operation."})
			return
		}

		ctx.Next()
	}
}

// TargetFromPath collects the project/task path parameters a route may carry.
func TargetFromPath(ctx *gin.Context) access.Target {
	return access.Target{
		ProjectID: paramUint(ctx, "project_id"),
		TaskID:    paramUint(ctx, "task_id"),
	}
}

func paramUint(ctx *gin.Context, name string) uint {
	value := ctx.Param(name)
	if value == "" {
		return 0
	}

	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}

	return uint(id)
}
