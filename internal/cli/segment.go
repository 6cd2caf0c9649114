package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/studyplan-backend/internal/modules/study/content"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Print the topics found in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
}

type topicOutput struct {
	Title      string   `json:"title"`
	Order      int      `json:"order"`
	Difficulty int      `json:"difficulty"`
	Minutes    int      `json:"est_minutes"`
	Keywords   []string `json:"keywords"`
	Summary    string   `json:"summary"`
}

func toTopicOutput(t content.Topic) topicOutput {
	kw := t.Keywords
	if kw == nil {
		kw = []string{}
	}
	return topicOutput{
		Title:      t.Title,
		Order:      t.Order,
		Difficulty: t.Difficulty,
		Minutes:    t.Minutes,
		Keywords:   kw,
		Summary:    t.Summary,
	}
}

func runSegment(cmd *cobra.Command, args []string) error {
	_, topics, err := loadTopics(context.Background(), args[0])
	if err != nil {
		return err
	}
	out := make([]topicOutput, 0, len(topics))
	for _, t := range topics {
		out = append(out, toTopicOutput(t))
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
