package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Repos struct {
	Document  repos.DocumentRepo
	Topic     repos.TopicRepo
	StudyPlan repos.StudyPlanRepo
	VideoRec  repos.VideoRecRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Document:  repos.NewDocumentRepo(db, log),
		Topic:     repos.NewTopicRepo(db, log),
		StudyPlan: repos.NewStudyPlanRepo(db, log),
		VideoRec:  repos.NewVideoRecRepo(db, log),
	}
}
