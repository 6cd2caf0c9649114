package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type DocumentRepo = study.DocumentRepo
type TopicRepo = study.TopicRepo
type StudyPlanRepo = study.StudyPlanRepo
type VideoRecRepo = study.VideoRecRepo

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return study.NewDocumentRepo(db, baseLog)
}
func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return study.NewTopicRepo(db, baseLog)
}
func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return study.NewStudyPlanRepo(db, baseLog)
}
func NewVideoRecRepo(db *gorm.DB, baseLog *logger.Logger) VideoRecRepo {
	return study.NewVideoRecRepo(db, baseLog)
}
