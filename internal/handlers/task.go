package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	DueDate     string `json:"due_date" binding:"required"`
	ProjectID   uint   `json:"project_id" binding:"required"`
	AssignedTo  uint   `json:"assigned_to" binding:"required"`
}

type ChangeTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required"`
	DueDate     string `json:"due_date" binding:"required"`
	AssignedTo  uint   `json:"assigned_to"`
}

type TaskResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	DueDate      string    `json:"due_date"`
	ProjectID    uint      `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	AssignedToID uint      `json:"assigned_to"`
	AssignedTo   string    `json:"assigned_to_name"`
	CreatedByID  uint      `json:"created_by"`
	CreatedBy    string    `json:"created_by_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func taskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate.Format(dateLayout),
		ProjectID:    task.ProjectID,
		ProjectName:  task.Project.Title,
		AssignedToID: task.AssignedToID,
		AssignedTo:   task.AssignedTo.Name,
		CreatedByID:  task.CreatedByID,
		CreatedBy:    task.CreatedBy.Name,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func taskListResponse(tasks []models.Task) []TaskResponse {
	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}
	return response
}

// CreateTask resolves the project from the request body, so the participant
// gate runs here instead of in route middleware.
func (h *Handler) CreateTask(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsParticipant(db.DB, user, access.Target{BodyProjectID: body.ProjectID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"no_rights": "You are not allowed to perform this operation."})
		return
	}

	dueDate, err := parseDueDate(body.DueDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	task, err := h.Tasks.Create(user, services.TaskInput{
		Title:        body.Title,
		Description:  body.Description,
		Status:       body.Status,
		Priority:     body.Priority,
		DueDate:      dueDate,
		ProjectID:    body.ProjectID,
		AssignedToID: body.AssignedTo,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	created, err := h.Tasks.Get(task.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(created))
}

func (h *Handler) GetTask(ctx *gin.Context) {
	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	task, err := h.Tasks.Get(taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *Handler) ChangeTaskStatus(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	var body ChangeStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Tasks.ChangeStatus(user, taskID, body.Status)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *Handler) ChangeTaskInfo(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	var body ChangeTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dueDate, err := parseDueDate(body.DueDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	task, err := h.Tasks.ChangeInfo(user, taskID, services.TaskInput{
		Title:        body.Title,
		Description:  body.Description,
		Priority:     body.Priority,
		DueDate:      dueDate,
		AssignedToID: body.AssignedTo,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	if err := h.Tasks.Delete(user, taskID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) ListAllTasks(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListAll(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskListResponse(tasks))
}

func (h *Handler) ListMyTasks(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListMine(user, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskListResponse(tasks))
}

func (h *Handler) ListDelegatedTasks(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListDelegated(user, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskListResponse(tasks))
}

func (h *Handler) ListSharedTasks(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListShared(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskListResponse(tasks))
}
