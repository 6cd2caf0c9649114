package utils

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("STUDYPLAN_TEST_STR", "value")
	if got := GetEnv("STUDYPLAN_TEST_STR", "def", nil); got != "value" {
		t.Fatalf("GetEnv: got=%q", got)
	}
	if got := GetEnv("STUDYPLAN_TEST_MISSING", "def", nil); got != "def" {
		t.Fatalf("GetEnv default: got=%q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("STUDYPLAN_TEST_INT", "12")
	t.Setenv("STUDYPLAN_TEST_BAD", "x")
	if got := GetEnvAsInt("STUDYPLAN_TEST_INT", 1, nil); got != 12 {
		t.Fatalf("GetEnvAsInt: got=%d", got)
	}
	if got := GetEnvAsInt("STUDYPLAN_TEST_BAD", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt bad: got=%d", got)
	}
	if got := GetEnvAsSeconds("STUDYPLAN_TEST_INT", time.Second, nil); got != 12*time.Second {
		t.Fatalf("GetEnvAsSeconds: got=%v", got)
	}
}
