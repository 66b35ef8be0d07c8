package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gauss2302/jobhub/internal/config"
	"github.com/gauss2302/jobhub/internal/http/handler"
	httpmiddleware "github.com/gauss2302/jobhub/internal/http/middleware"
	"github.com/gauss2302/jobhub/internal/middleware"
)

// Handlers groups the route handlers for router wiring.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Companies    *handler.CompanyHandler
	Jobs         *handler.JobHandler
	Applications *handler.ApplicationHandler
}

// NewRouter wires Gin routes and middleware. Auth routes run under a
// stricter rate budget than the rest of the API.
func NewRouter(cfg config.Config, h Handlers, authMiddleware *httpmiddleware.Auth) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitRPM)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPM)

	r.GET("/health", handler.Health)

	v1 := r.Group("/api/v1")
	v1.Use(apiLimiter.Handler())

	auth := v1.Group("/auth")
	auth.Use(authLimiter.Handler())
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", authMiddleware.ValidateJWT, h.Auth.Logout)
		auth.GET("/providers", h.Auth.Providers)

		auth.GET("/:provider/login", h.Auth.OAuthLogin)
		auth.GET("/:provider/callback", h.Auth.OAuthCallback)
		auth.POST("/:provider/token", h.Auth.OAuthToken)
		auth.POST("/:provider/link", authMiddleware.ValidateJWT, h.Auth.OAuthLink)
	}

	users := v1.Group("/users")
	users.Use(authMiddleware.ValidateJWT)
	{
		users.GET("/me", h.Users.Me)
		users.PUT("/me", h.Users.UpdateMe)
		users.DELETE("/me", h.Users.DeleteMe)

		admin := users.Group("")
		admin.Use(httpmiddleware.RequireAdmin())
		{
			admin.GET("/:id", h.Users.Get)
			admin.PUT("/:id", h.Users.Update)
			admin.POST("/:id/activate", h.Users.Activate)
			admin.POST("/:id/deactivate", h.Users.Deactivate)
		}
	}

	companies := v1.Group("/companies")
	{
		companies.GET("", h.Companies.Search)
		companies.GET("/:id", h.Companies.Get)
		companies.GET("/slug/:slug", h.Companies.GetBySlug)

		companies.POST("", authMiddleware.ValidateJWT, h.Companies.Create)
		companies.PUT("/:id", authMiddleware.ValidateJWT, h.Companies.Update)
		companies.POST("/:id/verify", authMiddleware.ValidateJWT, httpmiddleware.RequireAdmin(), h.Companies.Verify)

		companies.POST("/:id/recruiters", authMiddleware.ValidateJWT, h.Companies.ApplyRecruiter)
		companies.GET("/:id/recruiters", authMiddleware.ValidateJWT, h.Companies.ListRecruiters)
		companies.POST("/:id/recruiters/:rid/approve", authMiddleware.ValidateJWT, h.Companies.DecideRecruiter)
	}

	jobs := v1.Group("/jobs")
	{
		jobs.GET("", h.Jobs.Search)

		jobs.POST("", authMiddleware.ValidateJWT, h.Jobs.Create)
		jobs.GET("/company", authMiddleware.ValidateJWT, h.Jobs.ListMine)
		jobs.GET("/:id", optionalAuth(authMiddleware), h.Jobs.Get)
		jobs.PUT("/:id", authMiddleware.ValidateJWT, h.Jobs.Update)
		jobs.POST("/:id/publish", authMiddleware.ValidateJWT, h.Jobs.Publish)
		jobs.DELETE("/:id", authMiddleware.ValidateJWT, h.Jobs.Delete)
		jobs.POST("/:id/apply", authMiddleware.ValidateJWT, h.Jobs.Apply)
	}

	applications := v1.Group("/applications")
	applications.Use(authMiddleware.ValidateJWT)
	{
		applications.GET("/me", h.Applications.ListMine)
		applications.GET("/company", h.Applications.ListCompany)
		applications.GET("/:id", h.Applications.Get)
		applications.PUT("/:id/status", h.Applications.UpdateStatus)
		applications.POST("/:id/withdraw", h.Applications.Withdraw)
	}

	return r
}

// optionalAuth attaches claims when a bearer token is present but lets
// anonymous requests through.
func optionalAuth(m *httpmiddleware.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		m.ValidateJWT(c)
	}
}
