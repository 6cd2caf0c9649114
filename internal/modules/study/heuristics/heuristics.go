package heuristics

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// OverrideEnv names a YAML file that replaces the embedded tunables.
const OverrideEnv = "STUDY_HEURISTICS_YAML"

//go:embed heuristics.yaml
var embeddedYAML []byte

type Segment struct {
	MinBodyTokens  int `yaml:"min_body_tokens"`
	ChunkChars     int `yaml:"chunk_chars"`
	MinChunkChars  int `yaml:"min_chunk_chars"`
	BackfillBelow  int `yaml:"backfill_below"`
	BackfillChars  int `yaml:"backfill_chars"`
	BackfillTarget int `yaml:"backfill_target"`
	MaxSegments    int `yaml:"max_segments"`
	TitleMinChars  int `yaml:"title_min_chars"`
	TitleMaxChars  int `yaml:"title_max_chars"`
}

type DifficultyStep struct {
	BelowWords int `yaml:"below_words"`
	Level      int `yaml:"level"`
}

type Enrich struct {
	SummarySentences    int              `yaml:"summary_sentences"`
	MaxSummarySentences int              `yaml:"max_summary_sentences"`
	SummaryMaxChars     int              `yaml:"summary_max_chars"`
	WordsPerMinute      int              `yaml:"words_per_minute"`
	MinMinutes          int              `yaml:"min_minutes"`
	KeywordMinChars     int              `yaml:"keyword_min_chars"`
	MaxKeywords         int              `yaml:"max_keywords"`
	DifficultySteps     []DifficultyStep `yaml:"difficulty_steps"`
	DifficultyMax       int              `yaml:"difficulty_max"`
}

type Schedule struct {
	BaseMinutes         int                `yaml:"base_minutes"`
	MaxBonusMinutes     int                `yaml:"max_bonus_minutes"`
	WordsPerBonusMinute int                `yaml:"words_per_bonus_minute"`
	MinMinutes          int                `yaml:"min_minutes"`
	PaceFactors         map[string]float64 `yaml:"pace_factors"`
}

type Config struct {
	Version  int      `yaml:"version"`
	Segment  Segment  `yaml:"segment"`
	Enrich   Enrich   `yaml:"enrich"`
	Schedule Schedule `yaml:"schedule"`
}

var (
	defaultOnce sync.Once
	defaultCfg  Config
)

// Default returns the embedded tunables. It panics only if the embedded
// file itself is broken, which the package tests guard against.
func Default() Config {
	defaultOnce.Do(func() {
		cfg, err := Parse(embeddedYAML)
		if err != nil {
			panic(fmt.Sprintf("heuristics: embedded yaml invalid: %v", err))
		}
		defaultCfg = cfg
	})
	return defaultCfg.clone()
}

// Load reads the override file named by STUDY_HEURISTICS_YAML, falling back
// to the embedded defaults when unset or invalid.
func Load(log *logger.Logger) Config {
	path := strings.TrimSpace(os.Getenv(OverrideEnv))
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("heuristics override unreadable; using embedded defaults", "path", path, "error", err)
		}
		return Default()
	}
	cfg, err := Parse(raw)
	if err != nil {
		if log != nil {
			log.Warn("heuristics override invalid; using embedded defaults", "path", path, "error", err)
		}
		return Default()
	}
	if log != nil {
		log.Info("heuristics override loaded", "path", path, "version", cfg.Version)
	}
	return cfg
}

// Parse decodes and validates a heuristics document.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode heuristics: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	s := c.Segment
	if s.ChunkChars <= 0 || s.BackfillChars <= 0 {
		errs = append(errs, errors.New("segment: chunk sizes must be positive"))
	}
	if s.MaxSegments <= 0 {
		errs = append(errs, errors.New("segment: max_segments must be positive"))
	}
	if s.TitleMinChars <= 0 || s.TitleMaxChars < s.TitleMinChars {
		errs = append(errs, errors.New("segment: invalid title length bounds"))
	}
	errs = append(errs, nonNegative("segment", map[string]int{
		"min_body_tokens": s.MinBodyTokens,
		"min_chunk_chars": s.MinChunkChars,
		"backfill_below":  s.BackfillBelow,
		"backfill_target": s.BackfillTarget,
	})...)
	e := c.Enrich
	if e.SummarySentences < 1 {
		errs = append(errs, errors.New("enrich: summary_sentences must be at least 1"))
	}
	if e.MaxSummarySentences > 0 && e.MaxSummarySentences < e.SummarySentences {
		errs = append(errs, errors.New("enrich: max_summary_sentences below summary_sentences"))
	}
	errs = append(errs, nonNegative("enrich", map[string]int{
		"max_summary_sentences": e.MaxSummarySentences,
		"summary_max_chars":     e.SummaryMaxChars,
		"keyword_min_chars":     e.KeywordMinChars,
		"max_keywords":          e.MaxKeywords,
	})...)
	if e.WordsPerMinute <= 0 {
		errs = append(errs, errors.New("enrich: words_per_minute must be positive"))
	}
	if e.MinMinutes <= 0 {
		errs = append(errs, errors.New("enrich: min_minutes must be positive"))
	}
	if e.DifficultyMax < 1 || e.DifficultyMax > 5 {
		errs = append(errs, errors.New("enrich: difficulty_max must be within 1..5"))
	}
	prev := 0
	for _, st := range e.DifficultySteps {
		if st.BelowWords <= prev || st.Level < 1 || st.Level > 5 {
			errs = append(errs, errors.New("enrich: difficulty_steps must ascend with levels in 1..5"))
			break
		}
		prev = st.BelowWords
	}
	sc := c.Schedule
	if sc.MinMinutes <= 0 || sc.WordsPerBonusMinute <= 0 {
		errs = append(errs, errors.New("schedule: min_minutes and words_per_bonus_minute must be positive"))
	}
	errs = append(errs, nonNegative("schedule", map[string]int{
		"base_minutes":      sc.BaseMinutes,
		"max_bonus_minutes": sc.MaxBonusMinutes,
	})...)
	if len(sc.PaceFactors) == 0 {
		errs = append(errs, errors.New("schedule: pace_factors required"))
	}
	for pace, f := range sc.PaceFactors {
		if f <= 0 {
			errs = append(errs, fmt.Errorf("schedule: pace %q factor must be positive", pace))
		}
	}
	return errors.Join(errs...)
}

func nonNegative(section string, fields map[string]int) []error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		if fields[name] < 0 {
			errs = append(errs, fmt.Errorf("%s: %s must not be negative", section, name))
		}
	}
	return errs
}

func (c Config) clone() Config {
	out := c
	out.Enrich.DifficultySteps = append([]DifficultyStep(nil), c.Enrich.DifficultySteps...)
	out.Schedule.PaceFactors = make(map[string]float64, len(c.Schedule.PaceFactors))
	for k, v := range c.Schedule.PaceFactors {
		out.Schedule.PaceFactors[k] = v
	}
	return out
}
