package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWaitFor(t *testing.T) {
	originalSleep := sleep
	defer func() { sleep = originalSleep }()

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("expected to sleep 2s, slept %s", slept)
	}

	slept = 0
	if err := WaitFor(context.Background(), 0); err != nil || slept != 0 {
		t.Fatalf("expected immediate return for zero delay, err=%v slept=%s", err, slept)
	}
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	if got := Backoff(time.Second, 0); got != 0 {
		t.Fatalf("expected no delay before first attempt, got %s", got)
	}
	if got := Backoff(time.Second, 3); got != 3*time.Second {
		t.Fatalf("expected 3s, got %s", got)
	}
}
