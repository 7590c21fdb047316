package api

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/passenger"
	"github.com/Domenick1991/airticket/internal/service/ticket"
	"github.com/stretchr/testify/mock"
)

type MockTicketUseCase struct {
	mock.Mock
}

func (m *MockTicketUseCase) ticket(args mock.Arguments) (*domain.Ticket, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) CreateTicket(ctx context.Context, input ticket.CreateTicketInput) (*domain.Ticket, error) {
	return m.ticket(m.Called(ctx, input))
}

func (m *MockTicketUseCase) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return m.ticket(m.Called(ctx, id))
}

func (m *MockTicketUseCase) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) ListTicketsByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) UpdateTicket(ctx context.Context, id int64, input ticket.UpdateTicketInput) (*domain.Ticket, error) {
	return m.ticket(m.Called(ctx, id, input))
}

func (m *MockTicketUseCase) ConfirmTicket(ctx context.Context, id int64, actingUserID *int64) (*domain.Ticket, error) {
	return m.ticket(m.Called(ctx, id, actingUserID))
}

func (m *MockTicketUseCase) CancelTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return m.ticket(m.Called(ctx, id))
}

func (m *MockTicketUseCase) DeleteTicket(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTicketUseCase) Search(ctx context.Context, input ticket.SearchInput) ([]domain.TicketLegs, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]domain.TicketLegs), args.Error(1)
}

func (m *MockTicketUseCase) SearchByOutboundTime(ctx context.Context, at time.Time, before bool) ([]domain.TicketLegs, error) {
	args := m.Called(ctx, at, before)
	return args.Get(0).([]domain.TicketLegs), args.Error(1)
}

type MockPassengerUseCase struct {
	mock.Mock
}

func (m *MockPassengerUseCase) passenger(args mock.Arguments) (*domain.Passenger, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockPassengerUseCase) AddPassenger(ctx context.Context, input passenger.AddPassengerInput) (*domain.Passenger, error) {
	return m.passenger(m.Called(ctx, input))
}

func (m *MockPassengerUseCase) GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	return m.passenger(m.Called(ctx, id))
}

func (m *MockPassengerUseCase) ListPassengers(ctx context.Context, ticketID int64) ([]domain.Passenger, error) {
	args := m.Called(ctx, ticketID)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockPassengerUseCase) UpdatePassenger(ctx context.Context, id int64, input passenger.UpdatePassengerInput) (*domain.Passenger, error) {
	return m.passenger(m.Called(ctx, id, input))
}

func (m *MockPassengerUseCase) DeletePassenger(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

// memoryIdempotencyStore is an in-process IdempotencyStore.
type memoryIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string][]byte
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{keys: make(map[string][]byte)}
}

func (s *memoryIdempotencyStore) ReserveIdempotencyKey(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = nil
	return true, nil
}

func (s *memoryIdempotencyStore) LookupIdempotencyKey(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.keys[key]
	return v, ok && v != nil, nil
}

func (s *memoryIdempotencyStore) CompleteIdempotencyKey(_ context.Context, key string, response []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = response
	return nil
}

func (s *memoryIdempotencyStore) ReleaseIdempotencyKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
