package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudyPlan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	DueDate    time.Time `gorm:"column:due_date;not null" json:"due_date"`
	Pace       string    `gorm:"column:pace;not null" json:"pace"`

	Sessions []StudySession `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"sessions"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StudyPlan) TableName() string { return "study_plan" }

func (p *StudyPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type StudySession struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID  uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`
	TopicID uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`

	// Position is the session's index in the scheduler output.
	Position int       `gorm:"column:position;not null" json:"position"`
	Date     time.Time `gorm:"column:date;not null" json:"date"`
	Minutes  int       `gorm:"column:minutes;not null" json:"minutes"`
	Done     bool      `gorm:"column:done;not null;default:false" json:"done"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StudySession) TableName() string { return "study_session" }

func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
