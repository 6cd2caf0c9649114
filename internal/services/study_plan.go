package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/modules/study/schedule"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type CreatePlanInput struct {
	DocumentID uuid.UUID
	TopicIDs   []uuid.UUID
	DueDate    string
	Pace       string
}

type StudyPlanService interface {
	CreatePlan(ctx context.Context, in CreatePlanInput) (*types.StudyPlan, error)
	ListMine(ctx context.Context) ([]*types.StudyPlan, error)
	SetSessionDone(ctx context.Context, sessionID uuid.UUID, done bool) (*types.StudySession, error)
}

type studyPlanService struct {
	log       *logger.Logger
	docs      DocumentService
	topics    repos.TopicRepo
	plans     repos.StudyPlanRepo
	scheduler *schedule.Scheduler
	loc       *time.Location
}

func NewStudyPlanService(
	log *logger.Logger,
	docs DocumentService,
	topics repos.TopicRepo,
	plans repos.StudyPlanRepo,
	scheduler *schedule.Scheduler,
	loc *time.Location,
) StudyPlanService {
	if loc == nil {
		loc = time.Local
	}
	return &studyPlanService{
		log:       log.With("service", "StudyPlanService"),
		docs:      docs,
		topics:    topics,
		plans:     plans,
		scheduler: scheduler,
		loc:       loc,
	}
}

func (s *studyPlanService) CreatePlan(ctx context.Context, in CreatePlanInput) (*types.StudyPlan, error) {
	owner, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.TopicIDs)
	if len(ids) == 0 {
		return nil, schedule.ErrNoTopics
	}
	due, err := schedule.ParseDueDate(in.DueDate, s.loc)
	if err != nil {
		return nil, err
	}
	pace := schedule.NormalizePace(in.Pace)
	if _, err := s.scheduler.PaceFactor(pace); err != nil {
		return nil, err
	}

	doc, err := s.docs.GetOwned(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	found, err := s.topics.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	selected := make([]*types.Topic, 0, len(found))
	for _, t := range found {
		if t.DocumentID == doc.ID {
			selected = append(selected, t)
		}
	}
	if len(selected) != len(ids) {
		return nil, fmt.Errorf("%d of %d topics do not belong to document %s: %w",
			len(ids)-len(selected), len(ids), doc.ID, pkgerrors.ErrInvalidArgument)
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Order < selected[j].Order })

	input := make([]schedule.Topic, 0, len(selected))
	for _, t := range selected {
		input = append(input, schedule.Topic{ID: t.ID, Summary: t.Summary})
	}
	sessions, err := s.scheduler.Plan(input, due, pace)
	if err != nil {
		return nil, err
	}

	plan := &types.StudyPlan{
		OwnerID:    owner,
		DocumentID: doc.ID,
		DueDate:    due,
		Pace:       pace,
		Sessions:   make([]types.StudySession, 0, len(sessions)),
	}
	for i, sess := range sessions {
		plan.Sessions = append(plan.Sessions, types.StudySession{
			TopicID:  sess.TopicID,
			Position: i,
			Date:     sess.Date,
			Minutes:  sess.Minutes,
		})
	}
	created, err := s.plans.Create(dbc, plan)
	if err != nil {
		return nil, err
	}
	s.log.Info("study plan created", "plan_id", created.ID.String(), "sessions", len(created.Sessions), "pace", pace)
	return created, nil
}

func (s *studyPlanService) ListMine(ctx context.Context) ([]*types.StudyPlan, error) {
	owner, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.plans.ListByOwner(dbctx.Context{Ctx: ctx}, owner)
}

func (s *studyPlanService) SetSessionDone(ctx context.Context, sessionID uuid.UUID, done bool) (*types.StudySession, error) {
	owner, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	sess, err := s.plans.GetSessionByID(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByID(dbc, sess.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != owner {
		return nil, fmt.Errorf("session %s: %w", sessionID, pkgerrors.ErrForbidden)
	}
	return s.plans.SetSessionDone(dbc, sessionID, done)
}

func uniqueIDs(in []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(in))
	seen := make(map[uuid.UUID]struct{}, len(in))
	for _, id := range in {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
