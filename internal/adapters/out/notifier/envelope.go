// Package notifier delivers order notifications after commit. The kafka driver writes
// every notification to one topic keyed by order number; the relay moves them to Redis
// channels named after the notification topic, where socket gateways subscribe. The redis
// driver skips Kafka and publishes to the channels directly.
package notifier

import (
	"encoding/json"
	"errors"
	"fmt"

	"laundry/internal/core/ports"
)

var ErrMalformedEnvelope = errors.New("malformed notification envelope")

// Envelope is the wire form shared by every driver. Key and Version identify the order
// state the payload describes; envelopes without them are never filtered.
type Envelope struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Key     string          `json:"key,omitempty"`
	Version int64           `json:"version,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Versioned reports whether the envelope takes part in stale filtering.
func (e Envelope) Versioned() bool {
	return e.Key != "" && e.Version > 0
}

func envelopeOf(n ports.Notification) (Envelope, []byte, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("encode payload: %w", err)
	}
	env := Envelope{Topic: n.Topic, Event: n.Event, Key: n.Key, Version: n.Version, Payload: payload}
	raw, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, nil, err
	}
	return env, raw, nil
}

// DecodeEnvelope parses raw and requires topic and event.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Topic == "" || env.Event == "" {
		return Envelope{}, fmt.Errorf("%w: topic and event are required", ErrMalformedEnvelope)
	}
	return env, nil
}
