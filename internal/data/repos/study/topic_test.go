package study

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
)

func TestTopicRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTopicRepo(db, testutil.Logger(t))

	doc := testutil.SeedDocument(t, ctx, tx, uuid.New(), "notes.md")

	in := []*types.Topic{
		{DocumentID: doc.ID, Title: "Second", Order: 1, Difficulty: 3, EstMinutes: 4},
		{DocumentID: doc.ID, Title: "First", Order: 0, Difficulty: 2, EstMinutes: 3, Keywords: types.MarshalStrings([]string{"vector", "matrix"})},
	}
	if _, err := repo.Create(dbc, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByDocumentID(dbc, doc.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByDocumentID: err=%v len=%d", err, len(rows))
	}
	if rows[0].Title != "First" || rows[1].Title != "Second" {
		t.Fatalf("topics not ordered: %q, %q", rows[0].Title, rows[1].Title)
	}
	if kw := rows[0].KeywordList(); len(kw) != 2 || kw[0] != "vector" {
		t.Fatalf("keywords: %v", kw)
	}
	if kw := rows[1].KeywordList(); len(kw) != 0 {
		t.Fatalf("default keywords should be empty: %v", kw)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{in[0].ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByIDs(dbc, nil); err != nil || len(rows) != 0 {
		t.Fatalf("GetByIDs empty: err=%v len=%d", err, len(rows))
	}

	dup := []*types.Topic{{DocumentID: doc.ID, Title: "Dup", Order: 0, Difficulty: 2, EstMinutes: 3}}
	if _, err := repo.Create(dbc, dup); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("duplicate order: err=%v", err)
	}
}
