// Package ticket drives a ticket through its booking lifecycle and answers
// itinerary searches.
package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/kafka"
	"github.com/Domenick1991/airticket/internal/logger"
	"github.com/Domenick1991/airticket/internal/metrics"
	"github.com/Domenick1991/airticket/internal/repository"
	"github.com/Domenick1991/airticket/internal/service/itinerary"
	"github.com/Domenick1991/airticket/internal/service/pricing"
	"github.com/Domenick1991/airticket/internal/service/validation"
	"github.com/sirupsen/logrus"
)

type TicketUseCase interface {
	CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	ListTicketsByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, input UpdateTicketInput) (*domain.Ticket, error)
	ConfirmTicket(ctx context.Context, id int64, actingUserID *int64) (*domain.Ticket, error)
	CancelTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
	Search(ctx context.Context, input SearchInput) ([]domain.TicketLegs, error)
	SearchByOutboundTime(ctx context.Context, at time.Time, before bool) ([]domain.TicketLegs, error)
}

// FlightDirectory resolves the flights a ticket references.
type FlightDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type CreateTicketInput struct {
	Type             domain.TicketType   `json:"ticket_type" validate:"required,oneof=ONE_WAY ROUND_TRIP"`
	Class            domain.BookingClass `json:"booking_class" validate:"required,oneof=ECONOMY BUSINESS FIRST"`
	OutboundFlightID int64               `json:"outbound_flight_id" validate:"required,gt=0"`
	ReturnFlightID   *int64              `json:"return_flight_id,omitempty" validate:"omitempty,gt=0"`
	UserID           *int64              `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	TotalPassengers  int                 `json:"total_passengers,omitempty" validate:"omitempty,min=1"`
	Description      string              `json:"description" validate:"max=500"`
}

// UpdateTicketInput changes only the non-nil fields. Booking status is
// never changed by an update.
type UpdateTicketInput struct {
	Type              *domain.TicketType   `json:"ticket_type,omitempty" validate:"omitempty,oneof=ONE_WAY ROUND_TRIP"`
	Class             *domain.BookingClass `json:"booking_class,omitempty" validate:"omitempty,oneof=ECONOMY BUSINESS FIRST"`
	OutboundFlightID  *int64               `json:"outbound_flight_id,omitempty" validate:"omitempty,gt=0"`
	ReturnFlightID    *int64               `json:"return_flight_id,omitempty" validate:"omitempty,gt=0"`
	ClearReturnFlight bool                 `json:"clear_return_flight,omitempty"`
	UserID            *int64               `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	TotalPassengers   *int                 `json:"total_passengers,omitempty" validate:"omitempty,min=1"`
	Description       *string              `json:"description,omitempty" validate:"omitempty,max=500"`
}

type TicketService struct {
	tickets    repository.TicketRepository
	passengers repository.PassengerRepository
	flights    FlightDirectory
	users      UserDirectory
	tx         repository.Transactor
	events     *kafka.Emitter
	log        logrus.FieldLogger
	now        func() time.Time
	loc        *time.Location
}

type TicketServiceOption func(*TicketService)

func WithEmitter(e *kafka.Emitter) TicketServiceOption {
	return func(s *TicketService) { s.events = e }
}

func WithLogger(l logrus.FieldLogger) TicketServiceOption {
	return func(s *TicketService) { s.log = l }
}

func WithClock(now func() time.Time) TicketServiceOption {
	return func(s *TicketService) { s.now = now }
}

// WithLocation sets the timezone whose day boundaries are used by Search.
func WithLocation(loc *time.Location) TicketServiceOption {
	return func(s *TicketService) { s.loc = loc }
}

func NewTicketService(
	tickets repository.TicketRepository,
	passengers repository.PassengerRepository,
	flights FlightDirectory,
	users UserDirectory,
	tx repository.Transactor,
	opts ...TicketServiceOption,
) *TicketService {
	s := &TicketService{
		tickets:    tickets,
		passengers: passengers,
		flights:    flights,
		users:      users,
		tx:         tx,
		log:        logger.Discard(),
		now:        time.Now,
		loc:        time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (t *domain.Ticket, err error) {
	defer func() { s.observe("create", err) }()

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	outbound, ret, err := s.resolveLegs(ctx, input.OutboundFlightID, input.ReturnFlightID)
	if err != nil {
		return nil, err
	}
	if err := itinerary.ValidateLegs(input.Type, *outbound, ret); err != nil {
		return nil, err
	}
	if input.UserID != nil {
		if _, err := s.users.GetByID(ctx, *input.UserID); err != nil {
			return nil, fmt.Errorf("owning user: %w", err)
		}
	}

	passengers := input.TotalPassengers
	if passengers < 1 {
		passengers = 1
	}

	now := s.now()
	t = &domain.Ticket{
		UserID:           input.UserID,
		OutboundFlightID: input.OutboundFlightID,
		ReturnFlightID:   input.ReturnFlightID,
		Type:             input.Type,
		Class:            input.Class,
		Status:           domain.BookingStatusPending,
		TotalPassengers:  passengers,
		Description:      input.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	pricing.PriceLegs(*outbound, ret, passengers).Apply(t)

	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id":   t.ID,
		"ticket_type": t.Type,
		"total_price": pricing.Format(t.TotalPrice),
	}).Info("ticket created")
	s.emit(ctx, kafka.EventTicketCreated, t, "")
	return t, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

func (s *TicketService) ListTicketsByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("tickets of user %d: %w", userID, domain.ErrNoResults)
	}
	return tickets, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input UpdateTicketInput) (t *domain.Ticket, err error) {
	defer func() { s.observe("update", err) }()

	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.ClearReturnFlight && input.ReturnFlightID != nil {
		return nil, fmt.Errorf("%w: return_flight_id cannot be set and cleared at once", domain.ErrValidation)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated := *current
		if input.Type != nil {
			updated.Type = *input.Type
		}
		if input.Class != nil {
			updated.Class = *input.Class
		}
		if input.OutboundFlightID != nil {
			updated.OutboundFlightID = *input.OutboundFlightID
		}
		if input.ReturnFlightID != nil {
			updated.ReturnFlightID = input.ReturnFlightID
		}
		if input.ClearReturnFlight {
			updated.ReturnFlightID = nil
		}
		if input.TotalPassengers != nil {
			updated.TotalPassengers = *input.TotalPassengers
		}
		if input.Description != nil {
			updated.Description = *input.Description
		}
		if input.UserID != nil {
			if _, err := s.users.GetByID(ctx, *input.UserID); err != nil {
				return fmt.Errorf("owning user: %w", err)
			}
			updated.UserID = input.UserID
		}

		outbound, ret, err := s.resolveLegs(ctx, updated.OutboundFlightID, updated.ReturnFlightID)
		if err != nil {
			return err
		}
		if err := itinerary.ValidateLegs(updated.Type, *outbound, ret); err != nil {
			return err
		}
		pricing.PriceLegs(*outbound, ret, updated.TotalPassengers).Apply(&updated)

		updated.UpdatedAt = s.now()
		if err := s.tickets.Update(ctx, &updated); err != nil {
			return err
		}
		t = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, kafka.EventTicketUpdated, t, "")
	return t, nil
}

// ConfirmTicket is the single PENDING -> CONFIRMED transition behind both
// booking and check-in. A non-nil actingUserID takes ownership of the
// ticket. The passenger count is taken from the attached passengers when
// there are any and the ticket is re-priced for it.
func (s *TicketService) ConfirmTicket(ctx context.Context, id int64, actingUserID *int64) (t *domain.Ticket, err error) {
	defer func() { s.observe("confirm", err) }()

	var email string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return err
		}
		switch current.Status {
		case domain.BookingStatusConfirmed:
			if actingUserID == nil {
				return fmt.Errorf("%w: ticket already checked in", domain.ErrInvalidTransition)
			}
			return fmt.Errorf("%w: ticket already booked", domain.ErrInvalidTransition)
		case domain.BookingStatusCancelled:
			return fmt.Errorf("%w: cannot book a cancelled ticket", domain.ErrInvalidTransition)
		}

		updated := *current
		if actingUserID != nil {
			user, err := s.users.GetByID(ctx, *actingUserID)
			if err != nil {
				return fmt.Errorf("acting user: %w", err)
			}
			updated.UserID = &user.ID
			email = user.Email
		}

		count, err := s.passengers.CountByTicket(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			updated.TotalPassengers = count
		}

		outbound, ret, err := s.resolveLegs(ctx, updated.OutboundFlightID, updated.ReturnFlightID)
		if err != nil {
			return err
		}
		pricing.PriceLegs(*outbound, ret, updated.TotalPassengers).Apply(&updated)

		now := s.now()
		updated.Status = domain.BookingStatusConfirmed
		updated.BookingDate = &now
		updated.UpdatedAt = now
		if err := s.tickets.Update(ctx, &updated); err != nil {
			return err
		}
		t = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id":        t.ID,
		"total_passengers": t.TotalPassengers,
		"total_price":      pricing.Format(t.TotalPrice),
	}).Info("ticket confirmed")
	s.emit(ctx, kafka.EventTicketConfirmed, t, email)
	return t, nil
}

// CancelTicket moves a PENDING or CONFIRMED ticket to CANCELLED. Cancelling
// an already cancelled ticket returns it unchanged.
func (s *TicketService) CancelTicket(ctx context.Context, id int64) (t *domain.Ticket, err error) {
	defer func() { s.observe("cancel", err) }()

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}

	updated := *current
	updated.Status = domain.BookingStatusCancelled
	updated.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.log.WithField("ticket_id", updated.ID).Info("ticket cancelled")
	s.emit(ctx, kafka.EventTicketCancelled, &updated, "")
	return &updated, nil
}

// DeleteTicket removes the ticket together with its passengers.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) (err error) {
	defer func() { s.observe("delete", err) }()

	var deleted *domain.Ticket
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		t, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.passengers.DeleteByTicket(ctx, id); err != nil {
			return err
		}
		if err := s.tickets.Delete(ctx, id); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, kafka.EventTicketDeleted, deleted, "")
	return nil
}

func (s *TicketService) resolveLegs(ctx context.Context, outboundID int64, returnID *int64) (*domain.Flight, *domain.Flight, error) {
	outbound, err := s.flights.GetByID(ctx, outboundID)
	if err != nil {
		return nil, nil, fmt.Errorf("outbound flight: %w", err)
	}
	if returnID == nil {
		return outbound, nil, nil
	}
	ret, err := s.flights.GetByID(ctx, *returnID)
	if err != nil {
		return nil, nil, fmt.Errorf("return flight: %w", err)
	}
	return outbound, ret, nil
}

// emit publishes a ticket event. When the caller has no email at hand the
// owner's address is looked up so notifications reach them.
func (s *TicketService) emit(ctx context.Context, eventType string, t *domain.Ticket, email string) {
	if s.events == nil {
		return
	}
	if email == "" && t.UserID != nil {
		owner, err := s.users.GetByID(ctx, *t.UserID)
		if err != nil {
			s.log.WithError(err).WithField("ticket_id", t.ID).Warn("ticket owner lookup failed, event sent without email")
		} else {
			email = owner.Email
		}
	}
	err := s.events.Emit(ctx, kafka.TicketEvent{
		Type:       eventType,
		TicketID:   t.ID,
		UserID:     t.UserID,
		Email:      email,
		Status:     string(t.Status),
		TotalPrice: pricing.Format(t.TotalPrice),
	})
	if err != nil {
		s.log.WithError(err).WithField("ticket_id", t.ID).Warnf("failed to publish %s event", eventType)
	}
}

func (s *TicketService) observe(operation string, err error) {
	metrics.TicketTransitions.WithLabelValues(operation, metrics.Result(err, domain.IsBusinessError)).Inc()
}

var _ TicketUseCase = (*TicketService)(nil)
