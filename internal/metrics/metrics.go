package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	TicketTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airticket_ticket_transitions_total",
		Help: "Ticket lifecycle operations by operation and result",
	}, []string{"operation", "result"})

	PassengerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airticket_passenger_operations_total",
		Help: "Passenger operations by operation and result",
	}, []string{"operation", "result"})

	TicketSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airticket_ticket_searches_total",
		Help: "Ticket searches by kind and whether anything matched",
	}, []string{"kind", "matched"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airticket_notifications_sent_total",
		Help: "Ticket notifications handled by the worker",
	}, []string{"event"})
)

// Result classifies an operation outcome for the result label.
func Result(err error, isBusiness func(error) bool) string {
	switch {
	case err == nil:
		return ResultOK
	case isBusiness(err):
		return ResultRejected
	default:
		return ResultError
	}
}
