package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"tourguide/models"

	"github.com/redis/go-redis/v9"
)

const BookingChannel = "booking-events"

func attractionKey(name string) string {
	return "attraction:bookings:" + name
}

// Broker publishes booking events over Redis pub/sub and reads the counters
// the worker maintains.
type Broker struct {
	conn *redis.Client
}

func NewBroker(conn *redis.Client) *Broker {
	return &Broker{conn: conn}
}

func (b *Broker) PublishBooking(ctx context.Context, ev models.BookingEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	return b.conn.Publish(ctx, BookingChannel, data).Err()
}

// AttractionBookings returns how many bookings were counted for the attraction.
func (b *Broker) AttractionBookings(ctx context.Context, attractionName string) (int64, error) {
	n, err := b.conn.Get(ctx, attractionKey(attractionName)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// BookingWorker consumes booking events.
type BookingWorker struct {
	conn *redis.Client
	sub  *redis.PubSub
}

// SubscribeBookings subscribes to the booking channel and waits for the
// subscription to be confirmed, so no event published afterwards is missed.
func (b *Broker) SubscribeBookings(ctx context.Context) (*BookingWorker, error) {
	sub := b.conn.Subscribe(ctx, BookingChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", BookingChannel, err)
	}
	return &BookingWorker{conn: b.conn, sub: sub}, nil
}

// Run counts each event per attraction and passes it to the handlers until
// ctx is cancelled.
func (w *BookingWorker) Run(ctx context.Context, handlers ...func(models.BookingEvent)) {
	defer w.sub.Close()
	ch := w.sub.Channel()

	log.Println("[BookingEvents] Listening for booking events...")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.BookingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[BookingEvents] Failed to parse event: %v", err)
				continue
			}
			if err := w.conn.Incr(ctx, attractionKey(ev.AttractionName)).Err(); err != nil {
				log.Printf("[BookingEvents] Failed to count booking %s: %v", ev.BookingID, err)
			}
			for _, h := range handlers {
				h(ev)
			}
		}
	}
}
