package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func NewRouter(h *handlers.Handler, rateLimit int) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authed := middleware.AuthMiddleware()
	participant := middleware.RequireAccess(access.IsParticipant)
	leader := middleware.RequireAccess(access.IsLeader)
	admin := middleware.RequireAccess(access.IsAdmin)
	canAssign := middleware.RequireAccess(access.CanAssign)
	notOrdinary := middleware.RequireAccess(access.CanAssignOrAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth", middleware.RateLimiter(rateLimit, time.Minute))
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/password-reset", h.RequestPasswordReset)
			auth.POST("/password-reset/confirm", h.ConfirmPasswordReset)
			auth.POST("/logout", authed, h.Logout)
			auth.GET("/me", authed, h.Me)
			auth.PATCH("/profile", authed, h.UpdateProfile)
			auth.DELETE("/account", authed, h.DeleteAccount)
		}

		users := api.Group("/users", authed, admin)
		{
			users.GET("", h.ListUsers)
			users.GET("/action-types", h.ListActionTypes)
			users.GET("/:user_id/actions/:type_id", h.ListUserActions)
			users.PATCH("/:user_id/leader-rights", h.ChangeLeaderRights)
			users.PATCH("/:user_id/activation", h.ChangeActivation)
		}

		projects := api.Group("/projects", authed)
		{
			projects.POST("", h.CreateProject)
			projects.GET("", h.ListProjects)
			projects.GET("/mine", h.ListMyProjects)
			projects.GET("/:project_id", participant, h.GetProject)
			projects.PATCH("/:project_id/status", h.ChangeProjectStatus)
			projects.PATCH("/:project_id/info", h.ChangeProjectInfo)
			projects.DELETE("/:project_id", h.DeleteProject)

			projects.POST("/:project_id/join-requests", h.RequestJoin)
			projects.GET("/:project_id/join-requests", leader, h.ListJoinRequests)
			projects.GET("/:project_id/members", participant, h.ListMembers)
			projects.GET("/:project_id/non-members", leader, h.ListNonMembers)
			projects.POST("/:project_id/members", h.AddMember)
			projects.DELETE("/:project_id/members/:user_id", h.RemoveMember)
			projects.PATCH("/:project_id/members/:user_id/role", h.ChangeMemberRole)
			projects.GET("/:project_id/my-role", participant, h.MyRole)

			projects.GET("/:project_id/tasks", admin, h.ListAllTasks)
			projects.GET("/:project_id/tasks/mine", participant, h.ListMyTasks)
			projects.GET("/:project_id/tasks/delegated", canAssign, h.ListDelegatedTasks)
			projects.GET("/:project_id/tasks/shared", participant, h.ListSharedTasks)

			projects.GET("/:project_id/stats/status-distribution", notOrdinary, h.TaskStatusDistribution)
			projects.GET("/:project_id/stats/priority-distribution", notOrdinary, h.TaskPriorityDistribution)
			projects.GET("/:project_id/stats/workload", notOrdinary, h.MemberWorkload)
		}

		tasks := api.Group("/tasks", authed)
		{
			tasks.POST("", h.CreateTask)
			tasks.GET("/:task_id", participant, h.GetTask)
			tasks.PATCH("/:task_id/status", participant, h.ChangeTaskStatus)
			tasks.PATCH("/:task_id/info", h.ChangeTaskInfo)
			tasks.DELETE("/:task_id", h.DeleteTask)
			tasks.GET("/:task_id/comments", participant, h.ListComments)
		}

		comments := api.Group("/comments", authed)
		{
			comments.POST("", h.CreateComment)
			comments.PATCH("/:comment_id", h.UpdateComment)
			comments.DELETE("/:comment_id", h.DeleteComment)
		}

		api.PATCH("/join-requests/:request_id", authed, h.SetJoinRequestStatus)
	}

	return r
}
