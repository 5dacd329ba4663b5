// Package scheduler pushes configured recurring broadcasts onto
// channels, e.g. market open/close announcements. Schedules come from
// config only; nothing is persisted or mutable at runtime.
package scheduler

import (
	"context"
	"log/slog"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/bhushanpoojary/findesktop/internal/config"
	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// SenderWindowID identifies scheduler-originated broadcasts to receivers.
const SenderWindowID schema.WindowID = "scheduler"

// Broadcaster is the slice of the agent surface the scheduler needs.
type Broadcaster interface {
	Broadcast(channelID string, ctx schema.Context, sender schema.WindowID) error
}

// Service arms one cron entry per configured schedule.
type Service struct {
	schedules []config.ScheduleConfig
	target    Broadcaster
	cron      *robfigcron.Cron
	armed     int
}

// NewService creates a Service broadcasting through target.
// Cron expressions use the six-field (seconds-first) format, plus the
// @every / @hourly descriptors.
func NewService(schedules []config.ScheduleConfig, target Broadcaster) *Service {
	return &Service{
		schedules: schedules,
		target:    target,
		cron:      robfigcron.New(robfigcron.WithSeconds()),
	}
}

// Armed returns how many schedules were successfully registered.
func (s *Service) Armed() int { return s.armed }

// Start arms all schedules and blocks until ctx is cancelled. Invalid
// expressions are logged and skipped so one bad entry cannot take down
// the rest.
func (s *Service) Start(ctx context.Context) error {
	s.arm()
	if s.armed == 0 {
		slog.Info("scheduler: no schedules configured")
		<-ctx.Done()
		return ctx.Err()
	}

	s.cron.Start()
	slog.Info("scheduler: started", "schedules", s.armed)
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done() // let in-flight broadcasts finish
	slog.Info("scheduler: stopped")
	return ctx.Err()
}

func (s *Service) arm() {
	for _, sched := range s.schedules {
		sched := sched
		_, err := s.cron.AddFunc(sched.Cron, func() {
			ctx := schema.Context(sched.Context)
			if err := s.target.Broadcast(sched.Channel, ctx, SenderWindowID); err != nil {
				slog.Warn("scheduler: broadcast failed",
					"schedule", sched.Name, "channel", sched.Channel, "err", err)
				return
			}
			slog.Debug("scheduler: broadcast sent", "schedule", sched.Name, "channel", sched.Channel)
		})
		if err != nil {
			slog.Warn("scheduler: invalid cron expression, skipping",
				"schedule", sched.Name, "expr", sched.Cron, "err", err)
			continue
		}
		s.armed++
	}
}
