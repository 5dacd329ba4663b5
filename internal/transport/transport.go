// Package transport provides the generic cross-window publish/subscribe
// primitive the interop core fans out over. The core only depends on the
// Bus interface; processes on the same desktop connect through the
// websocket Hub, tests and single-process shells use MemoryBus.
//
// Delivery is at-least-once and in-order per local subscriber; reliability
// across process crashes is the shell's concern, not the bus's.
package transport

import "encoding/json"

// Handler receives the raw JSON payload published on a topic.
type Handler func(payload []byte)

// Bus is the pub/sub contract. Publish marshals payload to JSON and
// delivers it to every subscriber of topic; Subscribe returns an
// unsubscribe func.
type Bus interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, fn Handler) func()
}

// Envelope is the wire frame exchanged with the hub.
type Envelope struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}
