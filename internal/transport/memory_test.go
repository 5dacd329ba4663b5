package transport

import (
	"encoding/json"
	"testing"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	b := NewMemoryBus()
	var got []string
	b.Subscribe("channel.broadcast", func(payload []byte) {
		var m map[string]string
		if err := json.Unmarshal(payload, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got = append(got, m["ticker"])
	})

	if err := b.Publish("channel.broadcast", map[string]string{"ticker": "AAPL"}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("unexpected deliveries: %v", got)
	}
}

func TestMemoryBus_TopicIsolation(t *testing.T) {
	b := NewMemoryBus()
	var a, c int
	b.Subscribe("topic.a", func([]byte) { a++ })
	b.Subscribe("topic.b", func([]byte) { c++ })

	if err := b.Publish("topic.a", "x"); err != nil {
		t.Fatal(err)
	}
	if a != 1 || c != 0 {
		t.Errorf("expected only topic.a delivery, got a=%d b=%d", a, c)
	}
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	b := NewMemoryBus()
	var calls int
	unsub := b.Subscribe("t", func([]byte) { calls++ })

	if err := b.Publish("t", 1); err != nil {
		t.Fatal(err)
	}
	unsub()
	if err := b.Publish("t", 2); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestMemoryBus_PanickingSubscriberIsolated(t *testing.T) {
	b := NewMemoryBus()
	b.Subscribe("t", func([]byte) { panic("bad subscriber") })
	var calls int
	b.Subscribe("t", func([]byte) { calls++ })

	if err := b.Publish("t", "x"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("remaining subscribers must still run, got %d", calls)
	}
}

func TestAppTopic(t *testing.T) {
	if got := AppTopic("chart"); got != "app.chart" {
		t.Errorf("unexpected topic: %s", got)
	}
}
