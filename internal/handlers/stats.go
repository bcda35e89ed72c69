package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) TaskStatusDistribution(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	buckets, err := h.Stats.StatusDistribution(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, buckets)
}

func (h *Handler) TaskPriorityDistribution(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	buckets, err := h.Stats.PriorityDistribution(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, buckets)
}

func (h *Handler) MemberWorkload(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	loads, err := h.Stats.MemberWorkload(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, loads)
}
