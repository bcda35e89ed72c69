package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (models.User, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return models.User{}, fmt.Errorf("user not authenticated")
	}

	currentUser, ok := user.(models.User)

	if !ok {
		return models.User{}, fmt.Errorf("invalid user type in context")
	}

	return currentUser, nil
}
