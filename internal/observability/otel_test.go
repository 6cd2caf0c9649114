package observability

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc , broken, =x, team=study ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "study" {
		t.Fatalf("parseHeaders: %#v", got)
	}
	if parseHeaders("  ") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{Enabled: false})
	if shutdown == nil {
		t.Fatalf("expected non-nil shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}
