package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

// Admin-only user management endpoints.

func (h *Handler) ListUsers(ctx *gin.Context) {
	users, err := h.Users.ListAll()

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

func (h *Handler) ChangeLeaderRights(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	user, err := h.Users.ChangeLeaderRights(caller, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *Handler) ChangeActivation(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	user, err := h.Users.ChangeActivation(caller, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *Handler) ListActionTypes(ctx *gin.Context) {
	actionTypes, err := h.Users.ListActionTypes()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, actionTypes)
}

func (h *Handler) ListUserActions(ctx *gin.Context) {
	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	typeID, ok := paramID(ctx, "type_id")
	if !ok {
		return
	}

	entries, err := h.Users.ListUserActions(userID, typeID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
