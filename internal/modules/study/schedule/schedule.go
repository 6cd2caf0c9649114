// Package schedule spreads selected topics across the days left before a
// due date.
package schedule

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
)

const DefaultPace = "normal"

var (
	ErrNoTopics    = fmt.Errorf("%w: no topics selected", pkgerrors.ErrInvalidArgument)
	ErrInvalidPace = fmt.Errorf("%w: unknown pace", pkgerrors.ErrInvalidArgument)
	ErrInvalidDue  = fmt.Errorf("%w: invalid due date", pkgerrors.ErrInvalidArgument)
)

// Topic is the scheduler's view of a selected topic.
type Topic struct {
	ID      uuid.UUID
	Summary string
}

type Session struct {
	TopicID  uuid.UUID
	Date     time.Time
	DayIndex int
	Minutes  int
}

type Scheduler struct {
	cfg heuristics.Schedule
	// Now is the clock. "Today" is read in the due date's location.
	Now func() time.Time
}

func New(cfg heuristics.Schedule) *Scheduler {
	return &Scheduler{cfg: cfg, Now: time.Now}
}

// Plan returns one session per topic, sorted by date with ties kept in
// input order. Input order is the study order.
func (s *Scheduler) Plan(topics []Topic, due time.Time, pace string) ([]Session, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}
	factor, err := s.PaceFactor(pace)
	if err != nil {
		return nil, err
	}
	loc := due.Location()
	now := s.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	span := SpanDays(start, due)

	n := len(topics)
	sessions := make([]Session, 0, n)
	for i, t := range topics {
		day := i * span / n
		sessions = append(sessions, Session{
			TopicID:  t.ID,
			Date:     start.AddDate(0, 0, day),
			DayIndex: day,
			Minutes:  s.Minutes(t.Summary, factor),
		})
	}
	sort.SliceStable(sessions, func(a, b int) bool {
		return sessions[a].Date.Before(sessions[b].Date)
	})
	return sessions, nil
}

// SpanDays counts calendar days from start through due, inclusive, and is
// never below 1.
func SpanDays(start, due time.Time) int {
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	span := int(b.Sub(a).Hours()/24) + 1
	if span < 1 {
		return 1
	}
	return span
}

// Minutes scales the summary-derived base duration by the pace factor.
func (s *Scheduler) Minutes(summary string, factor float64) int {
	bonus := len(strings.Fields(summary)) / s.cfg.WordsPerBonusMinute
	if bonus > s.cfg.MaxBonusMinutes {
		bonus = s.cfg.MaxBonusMinutes
	}
	m := int(math.Round(float64(s.cfg.BaseMinutes+bonus) * factor))
	if m < s.cfg.MinMinutes {
		return s.cfg.MinMinutes
	}
	return m
}

func (s *Scheduler) PaceFactor(pace string) (float64, error) {
	p := NormalizePace(pace)
	f, ok := s.cfg.PaceFactors[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPace, pace)
	}
	return f, nil
}

func NormalizePace(pace string) string {
	p := strings.ToLower(strings.TrimSpace(pace))
	if p == "" {
		return DefaultPace
	}
	return p
}

// ParseDueDate accepts YYYY-MM-DD (interpreted in loc) or RFC3339.
func ParseDueDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDue
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDue, raw)
}
