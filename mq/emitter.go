package mq

import (
	"context"
	"encoding/json"
	"time"

	"brouette/db"
	"brouette/models"
	"brouette/rdx"
	"brouette/utils"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

const eventsChannel = "brouette-events"

// Event is the envelope published on the domain event channel.
type Event struct {
	Name           string    `json:"name"` // sale-opened, sale-closed, order-placed, offers-rebuilt, cart-updated
	DistributionID string    `json:"distributionId,omitempty"`
	OrderID        string    `json:"orderId,omitempty"`
	MemberID       string    `json:"memberId,omitempty"`
	CartKey        string    `json:"cartKey,omitempty"`
	At             time.Time `json:"at"`
}

// Emit publishes a domain event to Redis. Best effort; failures are logged
// and never fail the calling operation.
func Emit(name string, evt Event) {
	evt.Name = name
	evt.At = time.Now()
	if rdx.Conn == nil {
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("event", name).Msg("mq: marshal event")
		return
	}
	if err := rdx.Conn.Publish(context.Background(), eventsChannel, data).Err(); err != nil {
		log.Error().Err(err).Str("event", name).Msg("mq: publish event")
	}
}

// Subscribe returns a channel of decoded events for consumers such as the
// cart websocket fanout.
func Subscribe(ctx context.Context) <-chan Event {
	out := make(chan Event, 16)
	sub := rdx.Conn.Subscribe(ctx, eventsChannel)
	go func() {
		defer close(out)
		defer sub.Close()
		for msg := range sub.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Error().Err(err).Msg("mq: decode event")
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// StartNotificationWorker materialises lifecycle events into member-visible
// messages so announcements survive the pub/sub hop.
func StartNotificationWorker(ctx context.Context) {
	log.Info().Msg("mq: notification worker listening")
	for evt := range Subscribe(ctx) {
		var body string
		switch evt.Name {
		case "sale-opened":
			body = "Une nouvelle vente est ouverte."
		case "sale-closed":
			body = "La vente en cours est terminee."
		default:
			continue
		}

		msg := models.Message{
			MessageID:      utils.GenerateID("m", 12),
			Kind:           "announcement",
			Body:           body,
			DistributionID: evt.DistributionID,
			CreatedAt:      evt.At,
		}
		if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
			log.Error().Err(err).Str("event", evt.Name).Msg("mq: store announcement")
		}
	}
}

// PurgeAnnouncements trims announcements for distributions that no longer exist.
func PurgeAnnouncements(ctx context.Context, distributionID string) {
	if _, err := db.MessagesCollection.DeleteMany(ctx, bson.M{
		"kind":           "announcement",
		"distributionId": distributionID,
	}); err != nil {
		log.Error().Err(err).Msg("mq: purge announcements")
	}
}
