package events

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestChannelRouting(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{ActionProductView, "catalog.events.product_view"},
		{ActionSearch, "catalog.events.search"},
		{ActionComparison, "catalog.events.comparison"},
		{"something_else", "catalog.events.misc"},
		{"", "catalog.events.misc"},
	}
	for _, tt := range tests {
		if got := channel(tt.action); got != tt.want {
			t.Errorf("channel(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestNilPublisherDropsEvents(t *testing.T) {
	var p *Publisher
	if p.TryPublish(context.Background(), Event{Action: ActionSearch}) {
		t.Error("nil publisher reported success")
	}
	if p.Connected() {
		t.Error("nil publisher reports connected")
	}
}

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p := NewPublisher(nil)
	if p.TryPublish(context.Background(), Event{Action: ActionProductView, ProductID: "FDP-12345678"}) {
		t.Error("disabled publisher reported success")
	}
	if p.Connected() {
		t.Error("disabled publisher reports connected")
	}
}

func TestUnreachableBrokerFlipsConnected(t *testing.T) {
	// Port 1 is never listening; the publish must fail fast and report
	// false instead of surfacing an error.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	p := NewPublisher(rdb)
	if p.TryPublish(context.Background(), Event{Action: ActionSearch, Query: "deposit"}) {
		t.Error("publish to unreachable broker reported success")
	}
	if p.Connected() {
		t.Error("publisher still reports connected after failed publish")
	}
}
