package domain

import "github.com/yungbote/studyplan-backend/internal/domain/study"

const (
	DocumentStatusUploaded  = study.DocumentStatusUploaded
	DocumentStatusProcessed = study.DocumentStatusProcessed
	DocumentStatusFailed    = study.DocumentStatusFailed
)

type (
	Document          = study.Document
	DocumentMeta      = study.DocumentMeta
	Topic             = study.Topic
	StudyPlan         = study.StudyPlan
	StudySession      = study.StudySession
	RecommendationSet = study.RecommendationSet
	VideoItem         = study.VideoItem
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&Document{},
		&Topic{},
		&StudyPlan{},
		&StudySession{},
		&RecommendationSet{},
	}
}

var (
	MarshalMeta       = study.MarshalMeta
	MarshalStrings    = study.MarshalStrings
	UnmarshalStrings  = study.UnmarshalStrings
	MarshalVideoItems = study.MarshalVideoItems
)
