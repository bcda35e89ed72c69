package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type SetRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) RequestJoin(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	request, err := h.Memberships.RequestJoin(user, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": request.ID, "status": request.Status})
}

func (h *Handler) ListMembers(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	memberships, err := h.Memberships.ListMembers(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.MemberResponse, 0, len(memberships))
	for _, membership := range memberships {
		response = append(response, types.MemberResponse{
			ID:         membership.UserID,
			Name:       membership.User.Name,
			Email:      membership.User.Email,
			Role:       string(membership.Role),
			DateJoined: membership.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) ListNonMembers(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	users, err := h.Memberships.ListNonMembers(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, userResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) ListJoinRequests(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	requests, err := h.Memberships.ListRequests(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.JoinRequestResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, types.JoinRequestResponse{
			ID:        request.ID,
			UserID:    request.CreatedByID,
			Name:      request.CreatedBy.Name,
			Email:     request.CreatedBy.Email,
			Status:    string(request.Status),
			CreatedAt: request.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) AddMember(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	membership, err := h.Memberships.AddMember(caller, body.UserID, projectID, models.Role(body.Role))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user_id":    membership.UserID,
		"project_id": membership.ProjectID,
		"role":       membership.Role,
	})
}

func (h *Handler) SetJoinRequestStatus(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, ok := paramID(ctx, "request_id")
	if !ok {
		return
	}

	var body SetRequestStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	request, err := h.Memberships.SetRequestStatus(caller, requestID, models.RequestStatus(body.Status))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": request.ID, "status": request.Status})
}

func (h *Handler) RemoveMember(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	if err := h.Memberships.RemoveMember(caller, userID, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) MyRole(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	role, err := h.Memberships.MemberRole(user, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *Handler) ChangeMemberRole(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	membership, err := h.Memberships.ChangeMemberRole(caller, userID, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user_id":    membership.UserID,
		"project_id": membership.ProjectID,
		"role":       membership.Role,
	})
}
