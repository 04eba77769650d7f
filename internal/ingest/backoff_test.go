package ingest

import (
	"math/rand"
	"testing"
	"time"
)

func TestNextBackoffDelayGrowsToCap(t *testing.T) {
	cfg := BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     1 * time.Second,
	}
	if d := NextBackoffDelay(cfg, 1, nil); d != 100*time.Millisecond {
		t.Fatalf("attempt 1: %v", d)
	}
	if d := NextBackoffDelay(cfg, 2, nil); d != 200*time.Millisecond {
		t.Fatalf("attempt 2: %v", d)
	}
	if d := NextBackoffDelay(cfg, 3, nil); d != 400*time.Millisecond {
		t.Fatalf("attempt 3: %v", d)
	}
	if d := NextBackoffDelay(cfg, 10, nil); d != 1*time.Second {
		t.Fatalf("expected cap at max delay, got %v", d)
	}
}

func TestNextBackoffDelayJitterStaysBounded(t *testing.T) {
	cfg := DefaultBackoffConfig()
	rng := rand.New(rand.NewSource(1))
	for attempt := 1; attempt <= 8; attempt++ {
		d := NextBackoffDelay(cfg, attempt, rng)
		if attempt == 1 {
			if d != cfg.InitialDelay {
				t.Fatalf("attempt 1 must be the initial delay, got %v", d)
			}
			continue
		}
		if d < 0 || d > time.Duration(1.5*float64(cfg.MaxDelay)) {
			t.Fatalf("attempt %d: jittered delay out of bounds: %v", attempt, d)
		}
	}
}

func TestNextBackoffDelayDegenerateConfigs(t *testing.T) {
	if d := NextBackoffDelay(BackoffConfig{}, 5, nil); d != 0 {
		t.Fatalf("zero config must yield zero delay, got %v", d)
	}
	cfg := BackoffConfig{InitialDelay: 50 * time.Millisecond, Multiplier: 0.1}
	if d := NextBackoffDelay(cfg, 3, nil); d != 50*time.Millisecond {
		t.Fatalf("sub-1 multiplier must clamp to flat delay, got %v", d)
	}
}
