// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events publishes catalog activity events over Valkey pub/sub
// for downstream analytics consumers. Publishing is strictly best
// effort: a dead broker degrades to a logged warning, never an error
// surfaced to the request path.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Actions recognized by the analytics pipeline. Unknown actions are
// published on the fallback channel.
const (
	ActionProductView = "product_view"
	ActionSearch      = "search"
	ActionComparison  = "comparison"
)

const (
	channelPrefix   = "catalog.events."
	channelFallback = channelPrefix + "misc"

	publishTimeout = 2 * time.Second
)

// Event is one unit of catalog activity.
type Event struct {
	Action     string     `json:"action"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	ProductID  string     `json:"product_id,omitempty"`
	ProductIDs []string   `json:"product_ids,omitempty"`
	Query      string     `json:"query,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// channel maps an action to its pub/sub channel.
func channel(action string) string {
	switch action {
	case ActionProductView, ActionSearch, ActionComparison:
		return channelPrefix + action
	default:
		return channelFallback
	}
}

// Publisher emits events to Valkey. A nil or disabled publisher drops
// every event and reports false, so callers never need a nil check.
type Publisher struct {
	rdb *redis.Client

	mu        sync.Mutex
	connected bool
}

// NewPublisher creates a Publisher over an established Valkey client.
// Pass nil to disable publishing entirely.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, connected: rdb != nil}
}

// Connected reports whether the last publish attempt reached the broker.
func (p *Publisher) Connected() bool {
	if p == nil || p.rdb == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// TryPublish sends the event and reports whether it reached the broker.
// Failures flip the connected flag and log a warning; the next attempt
// retries regardless, letting a recovered broker re-flip the flag.
func (p *Publisher) TryPublish(ctx context.Context, e Event) bool {
	if p == nil || p.rdb == nil {
		return false
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("encode event failed", "action", e.Action, "error", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, channel(e.Action), payload).Err(); err != nil {
		p.setConnected(false)
		slog.Warn("event publish failed, dropping event", "action", e.Action, "error", err)
		return false
	}
	p.setConnected(true)
	return true
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}
