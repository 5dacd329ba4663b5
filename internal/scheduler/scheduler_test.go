package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bhushanpoojary/findesktop/internal/config"
	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// recordingBroadcaster captures broadcasts for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []schema.Context
	chans  []string
}

func (r *recordingBroadcaster) Broadcast(channelID string, ctx schema.Context, _ schema.WindowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ctx)
	r.chans = append(r.chans, channelID)
	return nil
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func startService(t *testing.T, s *Service) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Start(ctx) }()
	// Give Start() a moment to arm entries.
	time.Sleep(20 * time.Millisecond)
	return cancel
}

func TestService_FiresConfiguredBroadcast(t *testing.T) {
	target := &recordingBroadcaster{}
	s := NewService([]config.ScheduleConfig{
		{
			Name:    "tick",
			Cron:    "@every 50ms",
			Channel: "blue",
			Context: map[string]any{"type": "market-status", "status": "open"},
		},
	}, target)

	cancel := startService(t, s)
	defer cancel()

	deadline := time.Now().Add(2 * time.Second)
	for target.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("schedule never fired")
		}
		time.Sleep(10 * time.Millisecond)
	}

	target.mu.Lock()
	defer target.mu.Unlock()
	if target.chans[0] != "blue" {
		t.Errorf("expected broadcast on blue, got %s", target.chans[0])
	}
	if target.events[0].Type() != "market-status" {
		t.Errorf("unexpected context: %v", target.events[0])
	}
}

func TestService_SkipsInvalidExpression(t *testing.T) {
	target := &recordingBroadcaster{}
	s := NewService([]config.ScheduleConfig{
		{Name: "bad", Cron: "not a cron expr", Channel: "red"},
		{Name: "good", Cron: "0 30 9 * * MON-FRI", Channel: "red"},
	}, target)

	s.arm()
	if s.Armed() != 1 {
		t.Errorf("expected 1 armed schedule, got %d", s.Armed())
	}
}

func TestService_NoSchedules(t *testing.T) {
	s := NewService(nil, &recordingBroadcaster{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Start(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected clean block-until-cancel, got %v", err)
	}
}
