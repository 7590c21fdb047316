// Package email turns ticket events into customer notifications. Delivery
// is a log sink.
package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airticket/internal/kafka"
	"github.com/Domenick1991/airticket/internal/metrics"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

// Send notifies the ticket owner. Events without a recipient are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	msg, ok := Compose(event)
	if !ok {
		s.log.WithFields(logrus.Fields{"ticket_id": event.TicketID, "event": event.Type}).Debug("no recipient, notification skipped")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"to":        msg.To,
		"subject":   msg.Subject,
		"ticket_id": event.TicketID,
	}).Info("send email")
	metrics.NotificationsSent.WithLabelValues(event.Type).Inc()
	return nil
}

// Compose builds the notification for event.
func Compose(event kafka.TicketEvent) (Message, bool) {
	if event.Email == "" {
		return Message{}, false
	}

	var subject string
	switch event.Type {
	case kafka.EventTicketConfirmed:
		subject = fmt.Sprintf("Ticket #%d confirmed", event.TicketID)
	case kafka.EventTicketCancelled:
		subject = fmt.Sprintf("Ticket #%d cancelled", event.TicketID)
	default:
		subject = fmt.Sprintf("Ticket #%d updated", event.TicketID)
	}

	body := fmt.Sprintf("Your ticket #%d is now %s.", event.TicketID, event.Status)
	if event.TotalPrice != "" {
		body += fmt.Sprintf(" Total price: %s.", event.TotalPrice)
	}
	return Message{To: event.Email, Subject: subject, Body: body}, true
}
