package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventTicketCreated   = "ticket_created"
	EventTicketUpdated   = "ticket_updated"
	EventTicketConfirmed = "ticket_confirmed"
	EventTicketCancelled = "ticket_cancelled"
	EventTicketDeleted   = "ticket_deleted"
	EventPassengerAdded  = "passenger_added"
)

type TicketEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	TicketID    int64     `json:"ticket_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	TotalPrice  string    `json:"total_price,omitempty"`
	PassengerID int64     `json:"passenger_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Emitter sends ticket events to every configured topic. A nil Emitter or
// one without a publisher drops events.
type Emitter struct {
	producer Publisher
	topics   []string
}

func NewEmitter(producer Publisher, topics ...string) *Emitter {
	e := &Emitter{producer: producer}
	for _, t := range topics {
		if t != "" {
			e.topics = append(e.topics, t)
		}
	}
	return e
}

func (e *Emitter) Emit(ctx context.Context, event TicketEvent) error {
	if e == nil || e.producer == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	key := fmt.Sprintf("ticket-%d", event.TicketID)
	for _, topic := range e.topics {
		if err := e.producer.Publish(ctx, topic, key, event); err != nil {
			return fmt.Errorf("publish %s to %s: %w", event.Type, topic, err)
		}
	}
	return nil
}
