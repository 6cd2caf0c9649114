package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	AuthMiddleware *httpMW.AuthMiddleware

	DocumentHandler *httpH.DocumentHandler
	StudyHandler    *httpH.StudyHandler
	AIHandler       *httpH.AIHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext(cfg.RequestTimeout))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Documents
		if cfg.DocumentHandler != nil {
			protected.POST("/documents/upload", cfg.DocumentHandler.Upload)
			protected.GET("/documents/mine", cfg.DocumentHandler.ListMine)
			protected.GET("/topics/by-document/:docId", cfg.DocumentHandler.ListTopics)
			protected.GET("/videos/by-document/:id", cfg.DocumentHandler.ListVideos)
		}

		// Study plans
		if cfg.StudyHandler != nil {
			protected.POST("/study/plans", cfg.StudyHandler.CreatePlan)
			protected.GET("/study/plans", cfg.StudyHandler.ListPlans)
			protected.PATCH("/study/sessions/:id", cfg.StudyHandler.SetSessionDone)
		}

		// AI
		if cfg.AIHandler != nil {
			protected.POST("/ai/summarize", cfg.AIHandler.Summarize)
		}
	}

	return r
}
