package app

import (
	"time"

	"github.com/yungbote/studyplan-backend/internal/modules/study/content"
	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
	"github.com/yungbote/studyplan-backend/internal/modules/study/schedule"
	"github.com/yungbote/studyplan-backend/internal/modules/study/steps"
	"github.com/yungbote/studyplan-backend/internal/platform/extract"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Documents services.DocumentService
	StudyPlan services.StudyPlanService
	Summarize services.SummarizeService
}

func wireServices(log *logger.Logger, cfg Config, clients *Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")
	loc, err := cfg.Location()
	if err != nil {
		return Services{}, err
	}
	tunables := heuristics.Load(log)
	builder := content.NewBuilder(tunables)

	docs := services.NewDocumentService(log, steps.ProcessUploadDeps{
		Log:       log,
		Blobs:     clients.Blobs,
		Extractor: extract.New(log, clients.OCR),
		Builder:   builder,
		Recs:      clients.recommender(log, cfg.RecsSearchConcurrency),
		Documents: reposet.Document,
		Topics:    reposet.Topic,
		VideoRecs: reposet.VideoRec,
	})

	var summarizer services.Summarizer
	if clients.LLM != nil {
		summarizer = clients.LLM
	}

	sched := schedule.New(tunables.Schedule)
	sched.Now = func() time.Time { return time.Now().In(loc) }

	return Services{
		Auth:      services.NewAuthService(log, cfg.JWTSecretKey),
		Documents: docs,
		StudyPlan: services.NewStudyPlanService(log, docs, reposet.Topic, reposet.StudyPlan, sched, loc),
		Summarize: services.NewSummarizeService(log, summarizer, builder.Enricher()),
	}, nil
}
