package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type CreateCommentRequest struct {
	TaskID uint   `json:"task_id" binding:"required"`
	Text   string `json:"text"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID          uint      `json:"id"`
	TaskID      uint      `json:"task_id"`
	Text        string    `json:"text"`
	IsEdited    bool      `json:"is_edited"`
	CreatedByID uint      `json:"created_by"`
	CreatedBy   string    `json:"created_by_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func commentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID,
		TaskID:      comment.TaskID,
		Text:        comment.Text,
		IsEdited:    comment.IsEdited,
		CreatedByID: comment.CreatedByID,
		CreatedBy:   comment.CreatedBy.Name,
		CreatedAt:   comment.CreatedAt,
	}
}

// CreateComment resolves the project through the task named in the body, so
// the participant gate runs here instead of in route middleware.
func (h *Handler) CreateComment(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !access.IsParticipant(db.DB, user, access.Target{BodyTaskID: body.TaskID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"no_rights": "You are not allowed to perform this operation."})
		return
	}

	comment, err := h.Comments.Create(user, body.TaskID, body.Text)

	if err != nil {
		respondError(ctx, err)
		return
	}

	comment.CreatedBy = user

	ctx.JSON(http.StatusCreated, commentResponse(comment))
}

func (h *Handler) ListComments(ctx *gin.Context) {
	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	comments, err := h.Comments.ListByTask(taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		response = append(response, commentResponse(comment))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) UpdateComment(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	commentID, ok := paramID(ctx, "comment_id")
	if !ok {
		return
	}

	var body UpdateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := h.Comments.Update(user, commentID, body.Text)

	if err != nil {
		respondError(ctx, err)
		return
	}

	comment.CreatedBy = user

	ctx.JSON(http.StatusOK, commentResponse(comment))
}

func (h *Handler) DeleteComment(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	commentID, ok := paramID(ctx, "comment_id")
	if !ok {
		return
	}

	if err := h.Comments.Delete(user, commentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
