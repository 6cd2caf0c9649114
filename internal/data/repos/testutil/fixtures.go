package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
)

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, name string) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		OriginalName: name,
		MimeType:     "text/plain",
		StorageKey:   "local/" + name,
		Status:       types.DocumentStatusUploaded,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedTopics(tb testing.TB, ctx context.Context, tx *gorm.DB, documentID uuid.UUID, n int) []*types.Topic {
	tb.Helper()
	out := make([]*types.Topic, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &types.Topic{
			ID:         uuid.New(),
			DocumentID: documentID,
			Title:      fmt.Sprintf("Topic %d", i+1),
			Summary:    "summary",
			Order:      i,
			Difficulty: 2,
			EstMinutes: 3,
			Keywords:   types.MarshalStrings([]string{"alpha"}),
		})
	}
	if n == 0 {
		return out
	}
	if err := tx.WithContext(ctx).Create(&out).Error; err != nil {
		tb.Fatalf("seed topics: %v", err)
	}
	return out
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, documentID uuid.UUID, topics []*types.Topic) *types.StudyPlan {
	tb.Helper()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	p := &types.StudyPlan{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		DocumentID: documentID,
		DueDate:    today.AddDate(0, 0, 7),
		Pace:       "normal",
	}
	for i, t := range topics {
		p.Sessions = append(p.Sessions, types.StudySession{
			TopicID:  t.ID,
			Position: i,
			Date:     today.AddDate(0, 0, i),
			Minutes:  25,
		})
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}
