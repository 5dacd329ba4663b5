// Package intents resolves a raised intent to a target application,
// activates it, and delivers the context.
package intents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bhushanpoojary/findesktop/internal/directory"
	"github.com/bhushanpoojary/findesktop/internal/schema"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

// AppOpener is the external activation collaborator (window creation is
// the shell's job).
type AppOpener interface {
	OpenApp(ctx context.Context, appID string) error
}

// OpenerFunc adapts a function to AppOpener.
type OpenerFunc func(ctx context.Context, appID string) error

func (f OpenerFunc) OpenApp(ctx context.Context, appID string) error {
	return f(ctx, appID)
}

// Resolver routes intents to apps. It holds only references to the
// directory, the activation collaborator, the resolution policy and the
// event bus; it owns no long-lived state.
type Resolver struct {
	dir    *directory.Directory
	opener AppOpener
	policy ResolutionPolicy
	bus    transport.Bus
}

// NewResolver builds a Resolver. A nil policy falls back to
// DirectoryPolicy (directory default, else first candidate).
func NewResolver(dir *directory.Directory, opener AppOpener, bus transport.Bus, policy ResolutionPolicy) *Resolver {
	if policy == nil {
		policy = NewDirectoryPolicy(dir)
	}
	return &Resolver{dir: dir, opener: opener, policy: policy, bus: bus}
}

// RaiseIntent resolves intent to one app, activates it, and publishes
// the two delivery messages: the general intent-raised notification and
// an app-targeted message scoped to the chosen app id.
//
// Candidate counts: zero fails with ErrNoHandlerFound; exactly one
// proceeds without consulting the policy; multiple defer to the policy.
// Every failure publishes a diagnostic event before returning, so
// monitoring tools observe failed resolutions.
func (r *Resolver) RaiseIntent(ctx context.Context, intent string, c schema.Context) (schema.IntentResolution, error) {
	candidates := r.dir.AppsForIntent(intent)
	if len(candidates) == 0 {
		r.publishError(intent, c, "no handler found")
		return schema.IntentResolution{}, fmt.Errorf("raise %q: %w", intent, ErrNoHandlerFound)
	}

	chosen := candidates[0]
	if len(candidates) > 1 {
		// The one await point: the policy may block on user input.
		// No registry lock is held here.
		appID, err := r.policy.Resolve(ctx, intent, candidates)
		if err != nil {
			r.publishError(intent, c, err.Error())
			return schema.IntentResolution{}, fmt.Errorf("raise %q: %w", intent, err)
		}
		picked, ok := findCandidate(candidates, appID)
		if !ok {
			r.publishError(intent, c, fmt.Sprintf("policy chose %q which is not a candidate", appID))
			return schema.IntentResolution{}, fmt.Errorf("raise %q: policy chose non-candidate app %q", intent, appID)
		}
		chosen = picked
	}

	if err := r.opener.OpenApp(ctx, chosen.ID); err != nil {
		r.publishError(intent, c, fmt.Sprintf("open %s: %v", chosen.ID, err))
		return schema.IntentResolution{}, fmt.Errorf("raise %q: %w: %w", intent, ErrAppOpenFailed, err)
	}

	notice := transport.IntentNotice{
		Intent:    intent,
		Context:   c,
		AppID:     chosen.ID,
		AppTitle:  chosen.Title,
		Timestamp: time.Now(),
	}
	if err := r.bus.Publish(transport.TopicIntentRaised, notice); err != nil {
		slog.Warn("intent notification publish failed", "intent", intent, "err", err)
	}
	if err := r.bus.Publish(transport.AppTopic(chosen.ID), notice); err != nil {
		slog.Warn("app-targeted publish failed", "intent", intent, "app", chosen.ID, "err", err)
	}

	slog.Info("intent resolved", "intent", intent, "app", chosen.ID, "candidates", len(candidates))
	return schema.IntentResolution{
		Intent:   intent,
		AppID:    chosen.ID,
		AppTitle: chosen.Title,
	}, nil
}

func (r *Resolver) publishError(intent string, c schema.Context, reason string) {
	ev := transport.IntentError{
		Intent:    intent,
		Context:   c,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if err := r.bus.Publish(transport.TopicIntentError, ev); err != nil {
		slog.Warn("intent diagnostic publish failed", "intent", intent, "err", err)
	}
	slog.Warn("intent resolution failed", "intent", intent, "reason", reason)
}

func findCandidate(candidates []schema.AppDefinition, id string) (schema.AppDefinition, bool) {
	for _, app := range candidates {
		if app.ID == id {
			return app, true
		}
	}
	return schema.AppDefinition{}, false
}
