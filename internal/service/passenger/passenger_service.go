// Package passenger manages the passengers attached to a ticket and the
// age and adult/infant association rules they must satisfy.
package passenger

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/kafka"
	"github.com/Domenick1991/airticket/internal/logger"
	"github.com/Domenick1991/airticket/internal/metrics"
	"github.com/Domenick1991/airticket/internal/repository"
	"github.com/Domenick1991/airticket/internal/service/validation"
	"github.com/sirupsen/logrus"
)

type PassengerUseCase interface {
	AddPassenger(ctx context.Context, input AddPassengerInput) (*domain.Passenger, error)
	GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error)
	ListPassengers(ctx context.Context, ticketID int64) ([]domain.Passenger, error)
	UpdatePassenger(ctx context.Context, id int64, input UpdatePassengerInput) (*domain.Passenger, error)
	DeletePassenger(ctx context.Context, id int64) error
}

type AddPassengerInput struct {
	TicketID          int64                `json:"ticket_id" validate:"required,gt=0"`
	Type              domain.PassengerType `json:"passenger_type" validate:"required,oneof=ADULT CHILD INFANT"`
	FullName          string               `json:"full_name" validate:"required,min=5,max=100"`
	Birthday          time.Time            `json:"birthday" validate:"required"`
	NationalID        string               `json:"cccd" validate:"required,numeric"`
	CountryCode       string               `json:"country_code" validate:"required,alpha,min=2,max=3"`
	AssociatedAdultID *int64               `json:"associated_adult_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdatePassengerInput changes only the non-nil fields.
type UpdatePassengerInput struct {
	Type                 *domain.PassengerType `json:"passenger_type,omitempty" validate:"omitempty,oneof=ADULT CHILD INFANT"`
	FullName             *string               `json:"full_name,omitempty" validate:"omitempty,min=5,max=100"`
	Birthday             *time.Time            `json:"birthday,omitempty"`
	NationalID           *string               `json:"cccd,omitempty" validate:"omitempty,numeric"`
	CountryCode          *string               `json:"country_code,omitempty" validate:"omitempty,alpha,min=2,max=3"`
	AssociatedAdultID    *int64                `json:"associated_adult_id,omitempty" validate:"omitempty,gt=0"`
	ClearAssociatedAdult bool                  `json:"clear_associated_adult,omitempty"`
}

type PassengerService struct {
	passengers repository.PassengerRepository
	tickets    repository.TicketRepository
	tx         repository.Transactor
	events     *kafka.Emitter
	log        logrus.FieldLogger
	now        func() time.Time

	// revalidateOnUpdate re-runs the age and association rules on update.
	// Off by default: the rules are enforced when a passenger is added.
	revalidateOnUpdate bool
}

type PassengerServiceOption func(*PassengerService)

func WithEmitter(e *kafka.Emitter) PassengerServiceOption {
	return func(s *PassengerService) { s.events = e }
}

func WithLogger(l logrus.FieldLogger) PassengerServiceOption {
	return func(s *PassengerService) { s.log = l }
}

func WithClock(now func() time.Time) PassengerServiceOption {
	return func(s *PassengerService) { s.now = now }
}

func WithRevalidateOnUpdate(enabled bool) PassengerServiceOption {
	return func(s *PassengerService) { s.revalidateOnUpdate = enabled }
}

func NewPassengerService(
	passengers repository.PassengerRepository,
	tickets repository.TicketRepository,
	tx repository.Transactor,
	opts ...PassengerServiceOption,
) *PassengerService {
	s := &PassengerService{
		passengers: passengers,
		tickets:    tickets,
		tx:         tx,
		log:        logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PassengerService) AddPassenger(ctx context.Context, input AddPassengerInput) (p *domain.Passenger, err error) {
	defer func() { s.observe("add", err) }()

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ticket, err := s.tickets.GetByID(ctx, input.TicketID)
		if err != nil {
			return err
		}
		if ticket.Status == domain.BookingStatusCancelled {
			return fmt.Errorf("%w: cannot add passengers to a cancelled ticket", domain.ErrInvalidTransition)
		}

		if err := Classify(input.Type, input.Birthday, now); err != nil {
			return err
		}

		adult, err := s.resolveAdult(ctx, ticket.ID, input.Type, input.AssociatedAdultID)
		if err != nil {
			return err
		}
		if err := ValidateAssociation(input.Type, adult); err != nil {
			return err
		}

		p = &domain.Passenger{
			TicketID:          ticket.ID,
			Type:              input.Type,
			FullName:          input.FullName,
			Birthday:          input.Birthday,
			NationalID:        input.NationalID,
			CountryCode:       input.CountryCode,
			AssociatedAdultID: input.AssociatedAdultID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return s.passengers.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"passenger_id":   p.ID,
		"ticket_id":      p.TicketID,
		"passenger_type": p.Type,
	}).Info("passenger added")

	if err := s.events.Emit(ctx, kafka.TicketEvent{
		Type:        kafka.EventPassengerAdded,
		TicketID:    p.TicketID,
		PassengerID: p.ID,
	}); err != nil {
		s.log.WithError(err).Warn("failed to publish passenger_added event")
	}
	return p, nil
}

// resolveAdult looks the associated adult up in the ticket's manifest. An id
// that exists on a different ticket is an association error, an unknown id
// is not found.
func (s *PassengerService) resolveAdult(ctx context.Context, ticketID int64, passengerType domain.PassengerType, adultID *int64) (*domain.Passenger, error) {
	if adultID == nil {
		return nil, nil
	}

	list, err := s.passengers.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if adult, ok := domain.NewManifest(list).Lookup(*adultID); ok {
		return &adult, nil
	}

	if _, err := s.passengers.GetByID(ctx, *adultID); err != nil {
		return nil, fmt.Errorf("associated adult: %w", err)
	}
	return nil, &AssociationError{Type: passengerType, Reason: ReasonOtherTicket}
}

func (s *PassengerService) GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.passengers.GetByID(ctx, id)
}

func (s *PassengerService) ListPassengers(ctx context.Context, ticketID int64) ([]domain.Passenger, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.passengers.ListByTicket(ctx, ticketID)
}

func (s *PassengerService) UpdatePassenger(ctx context.Context, id int64, input UpdatePassengerInput) (p *domain.Passenger, err error) {
	defer func() { s.observe("update", err) }()

	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.ClearAssociatedAdult && input.AssociatedAdultID != nil {
		return nil, fmt.Errorf("%w: associated_adult_id cannot be set and cleared at once", domain.ErrValidation)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.passengers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated := *current
		if input.Type != nil {
			updated.Type = *input.Type
		}
		if input.FullName != nil {
			updated.FullName = *input.FullName
		}
		if input.Birthday != nil {
			updated.Birthday = *input.Birthday
		}
		if input.NationalID != nil {
			updated.NationalID = *input.NationalID
		}
		if input.CountryCode != nil {
			updated.CountryCode = *input.CountryCode
		}
		if input.AssociatedAdultID != nil {
			updated.AssociatedAdultID = input.AssociatedAdultID
		}
		if input.ClearAssociatedAdult {
			updated.AssociatedAdultID = nil
		}

		if s.revalidateOnUpdate {
			if err := s.revalidate(ctx, &updated); err != nil {
				return err
			}
		}

		updated.UpdatedAt = s.now()
		if err := s.passengers.Update(ctx, &updated); err != nil {
			return err
		}
		p = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PassengerService) revalidate(ctx context.Context, p *domain.Passenger) error {
	if err := Classify(p.Type, p.Birthday, s.now()); err != nil {
		return err
	}
	if p.AssociatedAdultID != nil && *p.AssociatedAdultID == p.ID {
		return &AssociationError{Type: p.Type, Reason: ReasonMissingOrInvalidAdult}
	}
	adult, err := s.resolveAdult(ctx, p.TicketID, p.Type, p.AssociatedAdultID)
	if err != nil {
		return err
	}
	if err := ValidateAssociation(p.Type, adult); err != nil {
		return err
	}

	if p.Type != domain.PassengerTypeAdult {
		list, err := s.passengers.ListByTicket(ctx, p.TicketID)
		if err != nil {
			return err
		}
		if len(domain.NewManifest(list).Dependents(p.ID)) > 0 {
			return &AssociationError{Type: p.Type, Reason: ReasonHasDependents}
		}
	}
	return nil
}

// DeletePassenger refuses to remove an adult that an infant still points at.
func (s *PassengerService) DeletePassenger(ctx context.Context, id int64) (err error) {
	defer func() { s.observe("delete", err) }()

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.passengers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		list, err := s.passengers.ListByTicket(ctx, p.TicketID)
		if err != nil {
			return err
		}
		if len(domain.NewManifest(list).Dependents(p.ID)) > 0 {
			return &AssociationError{Type: p.Type, Reason: ReasonHasDependents}
		}

		return s.passengers.Delete(ctx, id)
	})
}

func (s *PassengerService) observe(operation string, err error) {
	metrics.PassengerOperations.WithLabelValues(operation, metrics.Result(err, domain.IsBusinessError)).Inc()
}

var _ PassengerUseCase = (*PassengerService)(nil)
