package events

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

const defaultBatch = 100

// Relay moves outbox rows to a Publisher. Delivery is at-least-once: a
// row is marked sent only after Publish succeeds.
type Relay struct {
	DB        *gorm.DB
	Publisher Publisher
	Interval  time.Duration
	Batch     int
}

func NewRelay(db *gorm.DB, pub Publisher, interval time.Duration) *Relay {
	return &Relay{DB: db, Publisher: pub, Interval: interval, Batch: defaultBatch}
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Outbox relay: %v", err)
			}
		}
	}
}

// Flush publishes pending events in id order and stops at the first
// failure so ordering per key is preserved.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	batch := r.Batch
	if batch <= 0 {
		batch = defaultBatch
	}
	pending, err := FetchPending(ctx, r.DB, batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, ev := range pending {
		if err := r.Publisher.Publish(ctx, ev.Topic, ev.Key, []byte(ev.Payload)); err != nil {
			return sent, err
		}
		if err := MarkSent(ctx, r.DB, ev.ID, time.Now().UTC()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
