package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	DueDate     string `json:"due_date" binding:"required"`
}

type ChangeProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required"`
	DueDate     string `json:"due_date" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date"`
	CreatedByID uint      `json:"created_by"`
	CreatedBy   string    `json:"created_by_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		Priority:    project.Priority,
		DueDate:     project.DueDate.Format(dateLayout),
		CreatedByID: project.CreatedByID,
		CreatedBy:   project.CreatedBy.Name,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func projectListResponse(projects []models.Project) []ProjectResponse {
	response := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		response = append(response, projectResponse(project))
	}
	return response
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dueDate, err := parseDueDate(body.DueDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	project, err := h.Projects.Create(user, services.ProjectInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     dueDate,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	project.CreatedBy = user

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	projects, err := h.Projects.ListAll()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectListResponse(projects))
}

func (h *Handler) ListMyProjects(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.Projects.ListMine(user)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectListResponse(projects))
}

func (h *Handler) GetProject(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	project, err := h.Projects.Get(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func (h *Handler) ChangeProjectStatus(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	var body ChangeStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.Projects.ChangeStatus(user, projectID, body.Status)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func (h *Handler) ChangeProjectInfo(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	var body ChangeProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dueDate, err := parseDueDate(body.DueDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	project, err := h.Projects.ChangeInfo(user, projectID, services.ProjectInput{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     dueDate,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	if err := h.Projects.Delete(user, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
