package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DocumentStatusUploaded  = "uploaded"
	DocumentStatusProcessed = "processed"
	DocumentStatusFailed    = "failed"
)

type DocumentMeta struct {
	Words int `json:"words"`
	Pages int `json:"pages"`
}

type Document struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	OriginalName string `gorm:"column:original_name;not null" json:"original_name"`
	MimeType     string `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes    int64  `gorm:"column:size_bytes" json:"size_bytes"`
	StorageKey   string `gorm:"column:storage_key;not null" json:"storage_key"`

	// RawText is empty until extraction succeeds.
	RawText string         `gorm:"column:raw_text;type:text" json:"raw_text,omitempty"`
	Meta    datatypes.JSON `gorm:"column:meta" json:"meta"`
	Status  string         `gorm:"column:status;not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Document) TableName() string { return "document" }

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DocumentStatusUploaded
	}
	if len(d.Meta) == 0 {
		d.Meta = MarshalMeta(DocumentMeta{})
	}
	return nil
}

func (d *Document) DecodeMeta() DocumentMeta {
	var m DocumentMeta
	if d == nil || len(d.Meta) == 0 {
		return m
	}
	_ = json.Unmarshal(d.Meta, &m)
	return m
}

func MarshalMeta(m DocumentMeta) datatypes.JSON {
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}
