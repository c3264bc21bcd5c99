package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/auth"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	AllowedOrigins []string
	Tokens         *auth.TokenManager
	Log            *logrus.Logger
}

type Handlers struct {
	Auth         *AuthHandler
	Jobs         *JobHandler
	Candidates   *CandidateHandler
	Interviewers *InterviewerHandler
	Resumes      *ResumeHandler
}

// NewRouter wires middleware and routes. Everything under /api except
// /api/auth/{register,login,logout} requires a session token.
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	registerValidation()

	r := gin.New()
	r.MaxMultipartMemory = 16 << 20
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	r.GET("/health", HealthCheck)
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	public := r.Group("/api/auth")
	{
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)
		public.POST("/logout", h.Auth.Logout)
	}

	api := r.Group("/api", auth.Middleware(cfg.Tokens))
	{
		api.GET("/auth/me", h.Auth.Me)

		api.GET("/jobs", h.Jobs.ListJobs)
		api.POST("/jobs", h.Jobs.CreateJob)
		api.GET("/jobs/:id", h.Jobs.GetJob)
		api.PUT("/jobs/:id", h.Jobs.UpdateJob)
		api.DELETE("/jobs/:id", h.Jobs.DeleteJob)
		api.GET("/jobs/:id/candidates/export", h.Jobs.ExportCandidates)

		api.GET("/candidates", h.Candidates.ListCandidates)
		api.POST("/candidates", h.Candidates.CreateCandidate)
		api.GET("/candidates/:id", h.Candidates.GetCandidate)
		api.PUT("/candidates/:id", h.Candidates.UpdateCandidate)
		api.DELETE("/candidates/:id", h.Candidates.DeleteCandidate)

		api.GET("/interviewers", h.Interviewers.ListInterviewers)
		api.POST("/interviewers", h.Interviewers.CreateInterviewer)
		api.GET("/interviewers/:id", h.Interviewers.GetInterviewer)
		api.PUT("/interviewers/:id", h.Interviewers.ReplaceInterviewers)
		api.DELETE("/interviewers/:id", h.Interviewers.DeleteInterviewer)

		api.POST("/resumes/analyze", h.Resumes.AnalyzeResume)
	}

	return r
}
