package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"millwright/judgment/pkg/telemetry/logging"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid daily schedule",
			schedule:    "0 3 * * *",
			wantRunning: true,
		},
		{
			name:        "descriptor",
			schedule:    "@every 10m",
			wantRunning: true,
		},
		{
			name:     "empty schedule - no error, not running",
			schedule: "",
		},
		{
			name:      "invalid schedule",
			schedule:  "invalid cron",
			wantError: true,
		},
		{
			name:      "seconds field rejected",
			schedule:  "0 0 3 * * *",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(tt.schedule, func(context.Context) error { return nil }, nil)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := s.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if s.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", s.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := s.NextRun()
				if next == nil {
					t.Error("NextRun() returned nil for running scheduler")
				} else if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
			}

			s.Stop()
			if s.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_DoubleStart(t *testing.T) {
	s := NewScheduler("@hourly", func(context.Context) error { return nil }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if err := s.Start(ctx); err == nil {
		t.Error("second Start() error = nil, want error")
	}
}

func TestScheduler_RunsJob(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron tick")
	}

	var calls atomic.Int32
	triggers := make(chan string, 4)
	job := func(ctx context.Context) error {
		calls.Add(1)
		triggers <- logging.GetTrigger(ctx)
		return errors.New("job errors are logged, not fatal")
	}

	s := NewScheduler("@every 1s", job, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case trigger := <-triggers:
		if trigger != TriggerSchedule {
			t.Errorf("trigger = %q, want %q", trigger, TriggerSchedule)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler still running after context cancellation")
	}
	if calls.Load() < 1 {
		t.Errorf("calls = %d, want at least 1", calls.Load())
	}
}
