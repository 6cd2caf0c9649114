package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Topic struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topic_document_order,priority:1" json:"document_id"`

	Title       string `gorm:"column:title;not null" json:"title"`
	SectionText string `gorm:"column:section_text;type:text" json:"section_text,omitempty"`
	Summary     string `gorm:"column:summary;type:text" json:"summary"`
	// "order" is reserved in SQL.
	Order      int            `gorm:"column:topic_order;not null;uniqueIndex:idx_topic_document_order,priority:2" json:"order"`
	Difficulty int            `gorm:"column:difficulty;not null" json:"difficulty"`
	EstMinutes int            `gorm:"column:est_minutes;not null" json:"est_minutes"`
	Keywords   datatypes.JSON `gorm:"column:keywords" json:"keywords"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Topic) TableName() string { return "topic" }

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if len(t.Keywords) == 0 {
		t.Keywords = MarshalStrings(nil)
	}
	return nil
}

func (t *Topic) KeywordList() []string {
	return UnmarshalStrings(t.Keywords)
}

func MarshalStrings(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func UnmarshalStrings(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}
