package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VideoItem struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
	URL          string    `json:"url"`
}

// RecommendationSet is the deduplicated video bundle for one document.
type RecommendationSet struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Queries datatypes.JSON `gorm:"column:queries" json:"queries"`
	Items   datatypes.JSON `gorm:"column:items" json:"items"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (RecommendationSet) TableName() string { return "video_rec" }

func (r *RecommendationSet) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if len(r.Queries) == 0 {
		r.Queries = MarshalStrings(nil)
	}
	if len(r.Items) == 0 {
		r.Items = MarshalVideoItems(nil)
	}
	return nil
}

func (r *RecommendationSet) VideoItems() []VideoItem {
	out := []VideoItem{}
	if r == nil || len(r.Items) == 0 {
		return out
	}
	_ = json.Unmarshal(r.Items, &out)
	return out
}

func MarshalVideoItems(items []VideoItem) datatypes.JSON {
	if items == nil {
		items = []VideoItem{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}
