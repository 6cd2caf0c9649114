package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http"
	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Document *httpH.DocumentHandler
	Study    *httpH.StudyHandler
	AI       *httpH.AIHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Document: httpH.NewDocumentHandler(log, services.Documents, cfg.MaxUploadBytes),
		Study:    httpH.NewStudyHandler(log, services.StudyPlan),
		AI:       httpH.NewAIHandler(log, services.Summarize),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		RequestTimeout:  cfg.RequestTimeout,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		DocumentHandler: handlers.Document,
		StudyHandler:    handlers.Study,
		AIHandler:       handlers.AI,
	})
}
