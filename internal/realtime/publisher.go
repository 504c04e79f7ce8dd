// Package realtime fans attendance changes out to connected dashboards
// and arbitrates zone editing through short-lived leases.
package realtime

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const changeChannel = "zone_attendance"

// Publisher broadcasts date-level change notifications over redis so
// every server instance can wake its own websocket clients.
type Publisher struct {
	redis *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{redis: client}
}

// SnapshotChanged publishes the date whose snapshot set changed.
// Publishing is best effort: a save must not fail because redis is
// down.
func (p *Publisher) SnapshotChanged(ctx context.Context, date string) {
	if p == nil || p.redis == nil {
		return
	}
	if err := p.redis.Publish(ctx, changeChannel, date).Err(); err != nil {
		log.Printf("change publish failed for %s: %v", date, err)
	}
}

// Subscribe runs until ctx is done, invoking fn with each changed date.
func Subscribe(ctx context.Context, client *redis.Client, fn func(date string)) {
	if client == nil {
		return
	}
	sub := client.Subscribe(ctx, changeChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(msg.Payload)
			}
		}
	}()
}
