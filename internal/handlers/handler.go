package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/apperrors"
	"github.com/taskhive-dev/taskhive/internal/services"
)

type Handler struct {
	Users       *services.UserService
	Projects    *services.ProjectService
	Memberships *services.MembershipService
	Tasks       *services.TaskService
	Comments    *services.CommentService
	Stats       *services.StatsService
}

func New(users *services.UserService, projects *services.ProjectService,
	memberships *services.MembershipService, tasks *services.TaskService,
	comments *services.CommentService, stats *services.StatsService) *Handler {
	return &Handler{
		Users:       users,
		Projects:    projects,
		Memberships: memberships,
		Tasks:       tasks,
		Comments:    comments,
		Stats:       stats,
	}
}

// respondError writes the reason-code payload for taxonomy errors and a
// generic 500 for everything else.
func respondError(ctx *gin.Context, err error) {
	status := apperrors.StatusCode(err)

	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	}

	ctx.JSON(status, apperrors.Payload(err))
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}

	return uint(id), true
}

const dateLayout = "2006-01-02"

func parseDueDate(value string) (time.Time, error) {
	dueDate, err := time.Parse(dateLayout, value)

	if err != nil {
		return time.Time{}, apperrors.NewValidation("due_date", "Due date must use the YYYY-MM-DD format.")
	}

	return dueDate, nil
}
