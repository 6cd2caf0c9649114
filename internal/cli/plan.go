package cli

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/studyplan-backend/internal/modules/study/schedule"
)

var (
	planDue  string
	planPace string
	// planNow is swapped in tests.
	planNow = time.Now
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Schedule every topic in a file before a due date",
	Long: `Segments the file and spreads all of its topics, in document order,
across the days from today through the due date.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDue, "due", "", "due date (YYYY-MM-DD or RFC3339)")
	planCmd.Flags().StringVar(&planPace, "pace", schedule.DefaultPace, "slow, normal or fast")
	_ = planCmd.MarkFlagRequired("due")
	rootCmd.AddCommand(planCmd)
}

type sessionOutput struct {
	Date    string `json:"date"`
	Topic   string `json:"topic"`
	Order   int    `json:"order"`
	Minutes int    `json:"minutes"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, topics, err := loadTopics(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return errors.New("no topics found in file")
	}
	now := planNow()
	due, err := schedule.ParseDueDate(planDue, now.Location())
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]int, len(topics))
	input := make([]schedule.Topic, 0, len(topics))
	for i, t := range topics {
		id := uuid.New()
		byID[id] = i
		input = append(input, schedule.Topic{ID: id, Summary: t.Summary})
	}
	s := schedule.New(cfg.Schedule)
	s.Now = func() time.Time { return now }
	sessions, err := s.Plan(input, due, planPace)
	if err != nil {
		return err
	}

	out := make([]sessionOutput, 0, len(sessions))
	for _, sess := range sessions {
		t := topics[byID[sess.TopicID]]
		out = append(out, sessionOutput{
			Date:    sess.Date.Format("2006-01-02"),
			Topic:   t.Title,
			Order:   t.Order,
			Minutes: sess.Minutes,
		})
	}
	return printJSON(cmd, out)
}
