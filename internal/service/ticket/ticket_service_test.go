package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/email"
	"github.com/Domenick1991/airticket/internal/kafka"
	"github.com/Domenick1991/airticket/internal/service/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Search(ctx context.Context, f domain.TicketFilter) ([]domain.TicketLegs, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.TicketLegs), args.Error(1)
}

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Passenger, error) {
	args := m.Called(ctx, ticketID)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) CountByTicket(ctx context.Context, ticketID int64) (int, error) {
	args := m.Called(ctx, ticketID)
	return args.Int(0), args.Error(1)
}

func (m *MockPassengerRepository) Update(ctx context.Context, p *domain.Passenger) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPassengerRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPassengerRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

type MockFlightDirectory struct {
	mock.Mock
}

func (m *MockFlightDirectory) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var now = time.Date(2023, 11, 20, 8, 30, 0, 0, time.UTC)

type fixture struct {
	tickets    *MockTicketRepository
	passengers *MockPassengerRepository
	flights    *MockFlightDirectory
	users      *MockUserDirectory
	publisher  *MockPublisher
	svc        *TicketService
}

func newFixture(opts ...TicketServiceOption) *fixture {
	f := &fixture{
		tickets:    &MockTicketRepository{},
		passengers: &MockPassengerRepository{},
		flights:    &MockFlightDirectory{},
		users:      &MockUserDirectory{},
		publisher:  &MockPublisher{},
	}
	opts = append([]TicketServiceOption{
		WithClock(func() time.Time { return now }),
		WithEmitter(kafka.NewEmitter(f.publisher, "ticket-events")),
	}, opts...)
	f.svc = NewTicketService(f.tickets, f.passengers, f.flights, f.users, passThroughTx{}, opts...)
	f.publisher.On("Publish", mock.Anything, "ticket-events", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func jfkToLax() *domain.Flight {
	return &domain.Flight{
		ID:               1,
		FlightNumber:     "AA100",
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		DepartureTime:    time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC),
		ArrivalTime:      time.Date(2023, 12, 1, 11, 0, 0, 0, time.UTC),
		BasePrice:        decimal.RequireFromString("100.00"),
	}
}

func laxToJfk() *domain.Flight {
	return &domain.Flight{
		ID:               2,
		FlightNumber:     "AA200",
		DepartureAirport: "LAX",
		ArrivalAirport:   "JFK",
		DepartureTime:    time.Date(2023, 12, 3, 9, 0, 0, 0, time.UTC),
		ArrivalTime:      time.Date(2023, 12, 3, 17, 0, 0, 0, time.UTC),
		BasePrice:        decimal.RequireFromString("150.50"),
	}
}

func pending(id int64) *domain.Ticket {
	return &domain.Ticket{
		ID:               id,
		OutboundFlightID: 1,
		Type:             domain.TicketTypeOneWay,
		Class:            domain.BookingClassEconomy,
		Status:           domain.BookingStatusPending,
		TotalPassengers:  1,
		OutboundPrice:    decimal.RequireFromString("100.00"),
		ReturnPrice:      decimal.Zero,
		TotalPrice:       decimal.RequireFromString("100.00"),
		Version:          1,
	}
}

func TestTicketService_CreateTicket_OneWayPricing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.tickets.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Ticket).ID = 42
	}).Return(nil)

	ticket, err := f.svc.CreateTicket(ctx, CreateTicketInput{
		Type:             domain.TicketTypeOneWay,
		Class:            domain.BookingClassEconomy,
		OutboundFlightID: 1,
		TotalPassengers:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), ticket.ID)
	assert.Equal(t, domain.BookingStatusPending, ticket.Status)
	assert.Equal(t, "200.00", pricing.Format(ticket.OutboundPrice))
	assert.Equal(t, "0", pricing.Format(ticket.ReturnPrice))
	assert.Equal(t, "200.00", pricing.Format(ticket.TotalPrice))
	assert.Equal(t, now, ticket.CreatedAt)
	assert.Equal(t, now, ticket.UpdatedAt)
	assert.Nil(t, ticket.BookingDate)
	f.publisher.AssertCalled(t, "Publish", ctx, "ticket-events", "ticket-42", mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.EventTicketCreated && e.TotalPrice == "200.00"
	}))
}

func TestTicketService_CreateTicket_DefaultsToOnePassenger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.tickets.On("Create", ctx, mock.Anything).Return(nil)

	ticket, err := f.svc.CreateTicket(ctx, CreateTicketInput{
		Type:             domain.TicketTypeOneWay,
		Class:            domain.BookingClassBusiness,
		OutboundFlightID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, ticket.TotalPassengers)
	assert.Equal(t, "100.00", pricing.Format(ticket.TotalPrice))
}

func TestTicketService_CreateTicket_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.flights.On("GetByID", ctx, int64(2)).Return(laxToJfk(), nil)
	f.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "a@example.com"}, nil)
	f.tickets.On("Create", ctx, mock.Anything).Return(nil)

	ticket, err := f.svc.CreateTicket(ctx, CreateTicketInput{
		Type:             domain.TicketTypeRoundTrip,
		Class:            domain.BookingClassEconomy,
		OutboundFlightID: 1,
		ReturnFlightID:   int64Ptr(2),
		UserID:           int64Ptr(7),
		TotalPassengers:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, "200.00", pricing.Format(ticket.OutboundPrice))
	assert.Equal(t, "301.00", pricing.Format(ticket.ReturnPrice))
	assert.Equal(t, "501.00", pricing.Format(ticket.TotalPrice))
	assert.Equal(t, int64(7), *ticket.UserID)
}

func TestTicketService_CreateTicket_ReturnBeforeOutboundArrives(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	early := laxToJfk()
	early.DepartureTime = time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC)
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.flights.On("GetByID", ctx, int64(2)).Return(early, nil)

	_, err := f.svc.CreateTicket(ctx, CreateTicketInput{
		Type:             domain.TicketTypeRoundTrip,
		Class:            domain.BookingClassEconomy,
		OutboundFlightID: 1,
		ReturnFlightID:   int64Ptr(2),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidItinerary)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTicketService_CreateTicket_ShapeErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.flights.On("GetByID", ctx, int64(2)).Return(laxToJfk(), nil)

	tests := []struct {
		name  string
		input CreateTicketInput
	}{
		{
			name:  "round trip without return flight",
			input: CreateTicketInput{Type: domain.TicketTypeRoundTrip, Class: domain.BookingClassEconomy, OutboundFlightID: 1},
		},
		{
			name:  "one way with return flight",
			input: CreateTicketInput{Type: domain.TicketTypeOneWay, Class: domain.BookingClassEconomy, OutboundFlightID: 1, ReturnFlightID: int64Ptr(2)},
		},
		{
			name:  "unknown class",
			input: CreateTicketInput{Type: domain.TicketTypeOneWay, Class: "PREMIUM", OutboundFlightID: 1},
		},
		{
			name:  "negative passengers",
			input: CreateTicketInput{Type: domain.TicketTypeOneWay, Class: domain.BookingClassEconomy, OutboundFlightID: 1, TotalPassengers: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTicket(ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTicketService_CreateTicket_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.flights.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound)
	f.users.On("GetByID", ctx, int64(5)).Return(nil, domain.ErrNotFound)

	_, err := f.svc.CreateTicket(ctx, CreateTicketInput{
		Type: domain.TicketTypeOneWay, Class: domain.BookingClassEconomy, OutboundFlightID: 9,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.CreateTicket(ctx, CreateTicketInput{
		Type: domain.TicketTypeOneWay, Class: domain.BookingClassEconomy, OutboundFlightID: 1, UserID: int64Ptr(5),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTicketService_ConfirmTicket_Book(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "a@example.com"}, nil)
	f.passengers.On("CountByTicket", ctx, int64(42)).Return(3, nil)
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.tickets.On("Update", ctx, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.Status == domain.BookingStatusConfirmed && tk.Version == 1
	})).Return(nil)

	ticket, err := f.svc.ConfirmTicket(ctx, 42, int64Ptr(7))

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, ticket.Status)
	assert.Equal(t, int64(7), *ticket.UserID)
	assert.Equal(t, 3, ticket.TotalPassengers)
	assert.Equal(t, "300.00", pricing.Format(ticket.TotalPrice))
	require.NotNil(t, ticket.BookingDate)
	assert.Equal(t, now, *ticket.BookingDate)
	f.publisher.AssertCalled(t, "Publish", ctx, "ticket-events", "ticket-42", mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.EventTicketConfirmed && e.Email == "a@example.com"
	}))
}

func TestTicketService_ConfirmTicket_CheckInKeepsCountWithoutPassengers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tk := pending(42)
	tk.TotalPassengers = 2
	f.tickets.On("GetByID", ctx, int64(42)).Return(tk, nil)
	f.passengers.On("CountByTicket", ctx, int64(42)).Return(0, nil)
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.tickets.On("Update", ctx, mock.Anything).Return(nil)

	ticket, err := f.svc.ConfirmTicket(ctx, 42, nil)

	require.NoError(t, err)
	assert.Nil(t, ticket.UserID)
	assert.Equal(t, 2, ticket.TotalPassengers)
	assert.Equal(t, "200.00", pricing.Format(ticket.TotalPrice))
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTicketService_ConfirmTicket_Guards(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		acting  *int64
		message string
	}{
		{"book confirmed", domain.BookingStatusConfirmed, int64Ptr(7), "ticket already booked"},
		{"check in confirmed", domain.BookingStatusConfirmed, nil, "ticket already checked in"},
		{"book cancelled", domain.BookingStatusCancelled, int64Ptr(7), "cannot book a cancelled ticket"},
		{"check in cancelled", domain.BookingStatusCancelled, nil, "cannot book a cancelled ticket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			tk := pending(42)
			tk.Status = tt.status
			f.tickets.On("GetByID", ctx, int64(42)).Return(tk, nil)

			_, err := f.svc.ConfirmTicket(ctx, 42, tt.acting)

			require.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Contains(t, err.Error(), tt.message)
			f.tickets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestTicketService_ConfirmTicket_ConcurrentWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.passengers.On("CountByTicket", ctx, int64(42)).Return(1, nil)
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.tickets.On("Update", ctx, mock.Anything).Return(domain.ErrConflict)

	_, err := f.svc.ConfirmTicket(ctx, 42, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_CancelTicket(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			tk := pending(42)
			tk.Status = status
			f.tickets.On("GetByID", ctx, int64(42)).Return(tk, nil)
			f.tickets.On("Update", ctx, mock.MatchedBy(func(tk *domain.Ticket) bool {
				return tk.Status == domain.BookingStatusCancelled
			})).Return(nil)

			ticket, err := f.svc.CancelTicket(ctx, 42)

			require.NoError(t, err)
			assert.Equal(t, domain.BookingStatusCancelled, ticket.Status)
			assert.Equal(t, now, ticket.UpdatedAt)
		})
	}
}

func TestTicketService_CancelTicket_NotifiesOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tk := pending(42)
	tk.Status = domain.BookingStatusConfirmed
	tk.UserID = int64Ptr(7)
	f.tickets.On("GetByID", ctx, int64(42)).Return(tk, nil)
	f.tickets.On("Update", ctx, mock.Anything).Return(nil)
	f.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "owner@example.com"}, nil).Once()

	_, err := f.svc.CancelTicket(ctx, 42)

	require.NoError(t, err)
	f.publisher.AssertCalled(t, "Publish", ctx, "ticket-events", "ticket-42", mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.EventTicketCancelled && e.Email == "owner@example.com" && *e.UserID == 7
	}))
	msg, ok := email.Compose(kafkaEvent(t, f.publisher))
	require.True(t, ok)
	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "Ticket #42 cancelled", msg.Subject)
}

func TestTicketService_CancelTicket_OwnerLookupFailureStillPublishes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tk := pending(42)
	tk.UserID = int64Ptr(7)
	f.tickets.On("GetByID", ctx, int64(42)).Return(tk, nil)
	f.tickets.On("Update", ctx, mock.Anything).Return(nil)
	f.users.On("GetByID", ctx, int64(7)).Return(nil, errors.New("connection reset"))

	ticket, err := f.svc.CancelTicket(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, ticket.Status)
	f.publisher.AssertCalled(t, "Publish", ctx, "ticket-events", "ticket-42", mock.MatchedBy(func(e kafka.TicketEvent) bool {
		return e.Type == kafka.EventTicketCancelled && e.Email == ""
	}))
}

func TestTicketService_EmitWithoutOwnerSkipsLookup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.tickets.On("Update", ctx, mock.Anything).Return(nil)

	_, err := f.svc.CancelTicket(ctx, 42)

	require.NoError(t, err)
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// kafkaEvent returns the last event handed to the publisher.
func kafkaEvent(t *testing.T, pub *MockPublisher) kafka.TicketEvent {
	t.Helper()
	require.NotEmpty(t, pub.Calls)
	event, ok := pub.Calls[len(pub.Calls)-1].Arguments.Get(3).(kafka.TicketEvent)
	require.True(t, ok)
	return event
}

func TestTicketService_CancelTicket_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tk := pending(42)
	tk.Status = domain.BookingStatusCancelled
	f.tickets.On("GetByID", ctx, int64(42)).Return(tk, nil)

	ticket, err := f.svc.CancelTicket(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, tk, ticket)
	f.tickets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTicketService_UpdateTicket_RepricesAndRevalidates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)
	f.flights.On("GetByID", ctx, int64(2)).Return(laxToJfk(), nil)
	f.tickets.On("Update", ctx, mock.Anything).Return(nil)

	roundTrip := domain.TicketTypeRoundTrip
	passengers := 2
	ticket, err := f.svc.UpdateTicket(ctx, 42, UpdateTicketInput{
		Type:            &roundTrip,
		ReturnFlightID:  int64Ptr(2),
		TotalPassengers: &passengers,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, ticket.Status)
	assert.Equal(t, "501.00", pricing.Format(ticket.TotalPrice))
}

func TestTicketService_UpdateTicket_RoundTripWithoutReturn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.flights.On("GetByID", ctx, int64(1)).Return(jfkToLax(), nil)

	roundTrip := domain.TicketTypeRoundTrip
	_, err := f.svc.UpdateTicket(ctx, 42, UpdateTicketInput{Type: &roundTrip})

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.tickets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTicketService_DeleteTicket_Cascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.passengers.On("DeleteByTicket", ctx, int64(42)).Return(nil).Once()
	f.tickets.On("Delete", ctx, int64(42)).Return(nil).Once()

	require.NoError(t, f.svc.DeleteTicket(ctx, 42))
	f.passengers.AssertExpectations(t)
	f.tickets.AssertExpectations(t)
}

func TestTicketService_DeleteTicket_StorageFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("GetByID", ctx, int64(42)).Return(pending(42), nil)
	f.passengers.On("DeleteByTicket", ctx, int64(42)).Return(errors.New("connection reset"))

	err := f.svc.DeleteTicket(ctx, 42)

	require.Error(t, err)
	assert.False(t, domain.IsBusinessError(err))
	f.tickets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTicketService_ListTicketsByUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7}, nil)
	f.users.On("GetByID", ctx, int64(8)).Return(&domain.User{ID: 8}, nil)
	f.tickets.On("ListByUser", ctx, int64(7)).Return([]domain.Ticket{*pending(1)}, nil)
	f.tickets.On("ListByUser", ctx, int64(8)).Return([]domain.Ticket{}, nil)

	tickets, err := f.svc.ListTicketsByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	_, err = f.svc.ListTicketsByUser(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrNoResults)
}
