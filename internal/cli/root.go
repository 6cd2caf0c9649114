// Package cli is the offline studyplan command: it runs extraction,
// segmentation and scheduling on local files without a database.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yungbote/studyplan-backend/internal/modules/study/content"
	"github.com/yungbote/studyplan-backend/internal/modules/study/heuristics"
	"github.com/yungbote/studyplan-backend/internal/platform/extract"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:   "studyplan",
	Short: "Turn study material into topics and a study schedule",
	Long: `studyplan extracts text from PDF, DOCX, Markdown or plain-text files,
splits it into topics and spreads those topics across the days left
before a due date.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// loadTopics extracts and segments one file using the embedded tunables
// (or STUDY_HEURISTICS_YAML).
func loadTopics(ctx context.Context, path string) (heuristics.Config, []content.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return heuristics.Config{}, nil, fmt.Errorf("read %s: %w", path, err)
	}
	log := logger.Nop()
	ex, err := extract.New(log, nil).Extract(ctx, filepath.Base(path), "", data)
	if err != nil {
		return heuristics.Config{}, nil, fmt.Errorf("extract %s: %w", path, err)
	}
	cfg := heuristics.Load(log)
	return cfg, content.NewBuilder(cfg).Build(ex.Text), nil
}
