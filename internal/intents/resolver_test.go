package intents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bhushanpoojary/findesktop/internal/directory"
	"github.com/bhushanpoojary/findesktop/internal/schema"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

// fakeOpener records activations and optionally fails.
type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) OpenApp(_ context.Context, appID string) error {
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, appID)
	return nil
}

func newTestDirectory() *directory.Directory {
	return directory.New([]schema.AppDefinition{
		{ID: "chart", Title: "Chart", Intents: []string{"ViewChart", "ViewBoth"}},
		{ID: "blotter", Title: "Blotter", Intents: []string{"ViewBoth"}, DefaultForIntents: []string{"ViewBoth"}},
		{ID: "news", Title: "News", Intents: []string{"ViewNews", "ViewBoth"}},
	})
}

// countTopics subscribes counters on the resolver's delivery topics.
func countTopics(bus *transport.MemoryBus, topics ...string) map[string]*int {
	counts := make(map[string]*int, len(topics))
	for _, topic := range topics {
		n := new(int)
		counts[topic] = n
		bus.Subscribe(topic, func([]byte) { *n++ })
	}
	return counts
}

// ─── Single / zero candidates ──────────────────────────────────────────────

func TestRaiseIntent_SingleCandidate(t *testing.T) {
	dir := newTestDirectory()
	opener := &fakeOpener{}
	bus := transport.NewMemoryBus()
	policyCalled := false
	r := NewResolver(dir, opener, bus, PolicyFunc(func(context.Context, string, []schema.AppDefinition) (string, error) {
		policyCalled = true
		return "", errors.New("must not be called")
	}))

	counts := countTopics(bus, transport.TopicIntentRaised, transport.AppTopic("chart"))

	res, err := r.RaiseIntent(context.Background(), "ViewChart", schema.NewInstrumentContext("AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policyCalled {
		t.Error("single candidate must not invoke the resolution policy")
	}
	if res.AppID != "chart" || res.AppTitle != "Chart" || res.Intent != "ViewChart" {
		t.Errorf("unexpected resolution: %+v", res)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "chart" {
		t.Errorf("expected openApp called exactly once with chart, got %v", opener.opened)
	}
	if *counts[transport.TopicIntentRaised] != 1 {
		t.Errorf("expected 1 intent-raised notification, got %d", *counts[transport.TopicIntentRaised])
	}
	if *counts[transport.AppTopic("chart")] != 1 {
		t.Errorf("expected 1 app-targeted message, got %d", *counts[transport.AppTopic("chart")])
	}
}

func TestRaiseIntent_NoHandler(t *testing.T) {
	dir := newTestDirectory()
	opener := &fakeOpener{}
	bus := transport.NewMemoryBus()
	r := NewResolver(dir, opener, bus, nil)

	counts := countTopics(bus, transport.TopicIntentError)

	_, err := r.RaiseIntent(context.Background(), "Trade", schema.NewInstrumentContext("MSFT"))
	if !errors.Is(err, ErrNoHandlerFound) {
		t.Fatalf("expected ErrNoHandlerFound, got %v", err)
	}
	if len(opener.opened) != 0 {
		t.Errorf("openApp must never be called, got %v", opener.opened)
	}
	if *counts[transport.TopicIntentError] != 1 {
		t.Errorf("expected diagnostic event before rejection, got %d", *counts[transport.TopicIntentError])
	}
}

// ─── Multi-candidate policies ──────────────────────────────────────────────

func TestRaiseIntent_DefaultBeatsFirstInList(t *testing.T) {
	dir := newTestDirectory()
	opener := &fakeOpener{}
	r := NewResolver(dir, opener, transport.NewMemoryBus(), nil)

	// chart is first in directory order; blotter is the declared default.
	res, err := r.RaiseIntent(context.Background(), "ViewBoth", schema.NewInstrumentContext("AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AppID != "blotter" {
		t.Errorf("expected directory default blotter, got %s", res.AppID)
	}
}

func TestRaiseIntent_FirstMatchFallback(t *testing.T) {
	dir := directory.New([]schema.AppDefinition{
		{ID: "chart", Title: "Chart", Intents: []string{"ViewBoth"}},
		{ID: "news", Title: "News", Intents: []string{"ViewBoth"}},
	})
	opener := &fakeOpener{}
	r := NewResolver(dir, opener, transport.NewMemoryBus(), nil)

	res, err := r.RaiseIntent(context.Background(), "ViewBoth", schema.NewInstrumentContext("AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AppID != "chart" {
		t.Errorf("expected deterministic first-candidate fallback, got %s", res.AppID)
	}
}

func TestRaiseIntent_PickerChooses(t *testing.T) {
	dir := newTestDirectory()
	opener := &fakeOpener{}
	picker := PolicyFunc(func(_ context.Context, intent string, candidates []schema.AppDefinition) (string, error) {
		if intent != "ViewBoth" || len(candidates) != 3 {
			t.Errorf("unexpected picker input: %s %d candidates", intent, len(candidates))
		}
		return "news", nil
	})
	r := NewResolver(dir, opener, transport.NewMemoryBus(), picker)

	res, err := r.RaiseIntent(context.Background(), "ViewBoth", schema.NewInstrumentContext("AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AppID != "news" {
		t.Errorf("expected picker choice news, got %s", res.AppID)
	}
}

func TestRaiseIntent_UserCancelled(t *testing.T) {
	dir := newTestDirectory()
	opener := &fakeOpener{}
	bus := transport.NewMemoryBus()
	picker := PolicyFunc(func(context.Context, string, []schema.AppDefinition) (string, error) {
		return "", ErrUserCancelled
	})
	r := NewResolver(dir, opener, bus, picker)

	counts := countTopics(bus, transport.TopicIntentError, transport.TopicIntentRaised)

	_, err := r.RaiseIntent(context.Background(), "ViewBoth", schema.NewInstrumentContext("AAPL"))
	if !errors.Is(err, ErrUserCancelled) {
		t.Fatalf("expected ErrUserCancelled, got %v", err)
	}
	if len(opener.opened) != 0 {
		t.Error("cancellation must not open any app")
	}
	if *counts[transport.TopicIntentRaised] != 0 {
		t.Error("cancellation must not deliver context")
	}
	if *counts[transport.TopicIntentError] != 1 {
		t.Errorf("expected diagnostic event, got %d", *counts[transport.TopicIntentError])
	}
}

func TestRaiseIntent_PolicyChoosesNonCandidate(t *testing.T) {
	dir := newTestDirectory()
	opener := &fakeOpener{}
	picker := PolicyFunc(func(context.Context, string, []schema.AppDefinition) (string, error) {
		return "trade-ticket", nil
	})
	r := NewResolver(dir, opener, transport.NewMemoryBus(), picker)

	_, err := r.RaiseIntent(context.Background(), "ViewBoth", schema.NewInstrumentContext("AAPL"))
	if err == nil {
		t.Fatal("expected error for non-candidate choice")
	}
	if len(opener.opened) != 0 {
		t.Error("invalid choice must not open any app")
	}
}

// ─── Activation failure ────────────────────────────────────────────────────

func TestRaiseIntent_AppOpenFailed(t *testing.T) {
	dir := newTestDirectory()
	cause := fmt.Errorf("window manager refused")
	opener := &fakeOpener{err: cause}
	bus := transport.NewMemoryBus()
	r := NewResolver(dir, opener, bus, nil)

	counts := countTopics(bus, transport.TopicIntentError)

	_, err := r.RaiseIntent(context.Background(), "ViewChart", schema.NewInstrumentContext("AAPL"))
	if !errors.Is(err, ErrAppOpenFailed) {
		t.Fatalf("expected ErrAppOpenFailed, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected underlying cause to be wrapped, got %v", err)
	}
	if *counts[transport.TopicIntentError] != 1 {
		t.Errorf("expected diagnostic event, got %d", *counts[transport.TopicIntentError])
	}
}
