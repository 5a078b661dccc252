package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hireground/internal/models"
	"github.com/justsurfingit/hireground/internal/services"
)

// Services is everything the router needs. LLM may be nil.
type Services struct {
	Auth       *services.AuthService
	Profiles   *services.ProfileService
	Jobs       *services.JobService
	LLM        *services.LLMService
	Interviews *services.InterviewService
	Reviews    *services.ReviewService
	Dashboard  *services.DashboardService
}

// RegisterRoutes mounts the REST API on r.
func RegisterRoutes(r *gin.Engine, s Services) {
	authHandler := NewAuthHandler(s.Auth)
	profileHandler := NewProfileHandler(s.Profiles)
	jobHandler := NewJobHandler(s.LLM, s.Jobs)
	interviewHandler := NewInterviewHandler(s.Interviews, s.Reviews)
	dashboardHandler := NewDashboardHandler(s.Dashboard)

	requireAuth := RequireAuth(s.Auth)
	recruiter := RequireRole(models.RoleRecruiter)
	candidate := RequireRole(models.RoleCandidate)

	account := r.Group("/api")
	{
		account.POST("/auth/register", authHandler.Register)
		account.POST("/auth/login", authHandler.Login)
		account.POST("/auth/logout", authHandler.Logout)

		account.GET("/profile", requireAuth, profileHandler.Get)
		account.PUT("/profile", requireAuth, profileHandler.Update)
		account.POST("/profile/resume", requireAuth, profileHandler.UploadResume)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		// Job Routes
		api.GET("/jobs", OptionalAuth(s.Auth), jobHandler.ListJobs)
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.POST("/jobs", requireAuth, recruiter, jobHandler.CreateJob)
		api.POST("/jobs/extract", requireAuth, recruiter, jobHandler.ParseJob)
		api.POST("/jobs/:id/close", requireAuth, recruiter, jobHandler.CloseJob)
		api.POST("/jobs/:id/apply", requireAuth, candidate, jobHandler.Apply)

		// Interview Routes
		api.POST("/interviews", requireAuth, recruiter, interviewHandler.Create)
		api.GET("/interviews/:id", requireAuth, interviewHandler.Get)
		api.POST("/interviews/:id/submit", requireAuth, interviewHandler.Submit)
		api.GET("/interviews/:id/review", requireAuth, recruiter, interviewHandler.Review)

		api.GET("/dashboard", requireAuth, dashboardHandler.Get)
	}
}
