package events

import (
	"context"
	"log"
	"time"
)

// emitTimeout bounds delivery of one event once the write it describes has
// committed.
const emitTimeout = time.Second

// Publisher delivers events after the write that caused them has committed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// Nop drops every event.
func Nop() Publisher { return nopPublisher{} }

// Multi fans an event out to every publisher. A failing sink is logged and
// does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			log.Printf("[EVENTS] [ERROR] publish %s failed: %v", event.Type, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Emit publishes and only logs failures. Used once the business write is
// already durable and the caller must not fail because of a side channel.
// Delivery is detached from the request deadline and bounded by emitTimeout.
func Emit(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		log.Printf("[EVENTS] [WARN] %s for %s not delivered: %v", event.Type, event.Key(), err)
	}
}
