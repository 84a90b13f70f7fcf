// Package router assembles the HTTP surface.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/handlers"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/observability"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/token"
)

// Dependencies are the collaborators shared by every route.
type Dependencies struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Store   *repository.Store
	Tokens  *token.Service
	Metrics *observability.Metrics
	Health  *observability.HealthChecker

	// Limiter throttles register and login. Nil disables rate limiting.
	Limiter middleware.Limiter
}

// New builds the engine with middleware and every API route.
func New(deps Dependencies) *gin.Engine {
	log := deps.Logger

	members := services.NewMemberResolver(deps.Store.Users, deps.Config.MemberLookupConcurrency, log)
	authService := services.NewAuthService(deps.Store.Users, deps.Tokens)
	userService := services.NewUserService(deps.Store.Users)
	taskService := services.NewTaskService(deps.Store.Tasks, members)
	teamService := services.NewTeamService(deps.Store.Teams, deps.Store.Users, members)

	authHandler := handlers.NewAuthHandler(authService, deps.Metrics, log)
	userHandler := handlers.NewUserHandler(userService, log)
	taskHandler := handlers.NewTaskHandler(taskService, log)
	teamHandler := handlers.NewTeamHandler(teamService, log)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		deps.Metrics.Middleware(),
		middleware.CORS(deps.Config.AllowedOrigins),
		middleware.Timeout(deps.Config.RequestTimeout),
	)

	if deps.Health != nil {
		r.GET("/health", deps.Health.Handler)
	}
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.Limiter != nil {
		throttle = middleware.RateLimit(deps.Limiter, log, deps.Metrics.RateLimitedTotal.Inc)
	}
	requireAuth := middleware.RequireAuth(deps.Tokens)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", throttle, authHandler.Register)
			auth.POST("/login", throttle, authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("/create", taskHandler.CreateGroupTask)
			tasks.POST("/group/create", taskHandler.CreateGroupTask)
			tasks.POST("/personal/create", taskHandler.CreatePersonalTask)
			tasks.GET("/list", taskHandler.ListMyTasks)
			tasks.GET("/list/:groupId", taskHandler.ListGroupTasks)
			tasks.GET("/personal/list", taskHandler.ListPersonalTasks)
			tasks.PUT("/actualizar/:id", taskHandler.UpdateTask)
			tasks.PUT("/status/:id", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/eliminar/:id", taskHandler.DeleteTask)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.POST("/create", teamHandler.CreateTeam)
			teams.GET("/list", teamHandler.ListTeams)
			teams.GET("/users/search", teamHandler.SearchUsers)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.GET("/:id/members", teamHandler.ListTeamMembers)
		}

		// User administration (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/obtener/:id", userHandler.GetUser)
			users.POST("/create", userHandler.CreateUser)
			users.PUT("/update/:id", userHandler.UpdateUser)
			users.DELETE("/delete/:id", userHandler.DeleteUser)
		}
	}

	return r
}
