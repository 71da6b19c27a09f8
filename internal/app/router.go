package app

import (
	"resilience_assessment/docs"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/middleware"
	"resilience_assessment/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/assessments/start", c.assessment.Start)
		public.GET("/questions", c.assessment.Questions)
		public.GET("/framework-info", c.assessment.FrameworkInfo)
		public.GET("/session-status", middleware.TrySessionMiddleware(cfg), c.assessment.SessionStatus)
	}

	// 2. 需要评估会话的路由
	session := router.Group("/api")
	session.Use(middleware.SessionMiddleware(cfg))
	{
		session.POST("/save-response", c.assessment.SaveResponse)
		session.GET("/responses", c.assessment.Responses)
		session.GET("/results", c.report.Results)
		session.GET("/export/:format", c.report.Export)
		session.GET("/report/pdf", c.report.PDF)
		session.GET("/report/print", c.report.Print)
	}
}
