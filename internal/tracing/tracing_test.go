package tracing

import (
	"context"
	"testing"

	"mindmentor/study-craft/internal/config"
	"mindmentor/study-craft/internal/logger"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false}, logger.Nop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Errorf("clampRatio(%v) = %v, want %v", in, got, want)
		}
	}
}
