package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/pricing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// Update writes ticket only if its stored version still equals
	// ticket.Version, then bumps the version. A stale version yields
	// domain.ErrConflict.
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	Search(ctx context.Context, filter domain.TicketFilter) ([]domain.TicketLegs, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `t.id, t.user_id, t.outbound_flight_id, t.return_flight_id, t.ticket_type, t.booking_class, t.booking_status,
	t.total_passengers, t.outbound_ticket_price, t.return_ticket_price, t.total_price, t.booking_date, t.description,
	t.version, t.created_at, t.updated_at`

func (r *PGTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	t.Version = 1
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO tickets (user_id, outbound_flight_id, return_flight_id, ticket_type, booking_class,
		booking_status, total_passengers, outbound_ticket_price, return_ticket_price, total_price, booking_date, description,
		version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		t.UserID, t.OutboundFlightID, t.ReturnFlightID, t.Type, t.Class,
		t.Status, t.TotalPassengers, pricing.Format(t.OutboundPrice), pricing.Format(t.ReturnPrice), pricing.Format(t.TotalPrice), t.BookingDate, t.Description,
		t.Version, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets t WHERE t.id=$1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *PGTicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	db := conn(ctx, r.db)
	var version int64
	err := db.QueryRow(ctx, `UPDATE tickets SET user_id=$3, outbound_flight_id=$4, return_flight_id=$5, ticket_type=$6,
		booking_class=$7, booking_status=$8, total_passengers=$9, outbound_ticket_price=$10, return_ticket_price=$11,
		total_price=$12, booking_date=$13, description=$14, updated_at=$15, version=version+1
		WHERE id=$1 AND version=$2
		RETURNING version`,
		t.ID, t.Version, t.UserID, t.OutboundFlightID, t.ReturnFlightID, t.Type,
		t.Class, t.Status, t.TotalPassengers, pricing.Format(t.OutboundPrice), pricing.Format(t.ReturnPrice),
		pricing.Format(t.TotalPrice), t.BookingDate, t.Description, t.UpdatedAt,
	).Scan(&version)
	if err == nil {
		t.Version = version
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update ticket: %w", err)
	}

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, t.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check ticket: %w", err)
	}
	if !exists {
		return fmt.Errorf("ticket %d: %w", t.ID, domain.ErrNotFound)
	}
	return fmt.Errorf("ticket %d version %d: %w", t.ID, t.Version, domain.ErrConflict)
}

func (r *PGTicketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PGTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets t ORDER BY t.id`)
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets t WHERE t.user_id=$1 ORDER BY t.id`, userID)
}

func (r *PGTicketRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Ticket, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) Search(ctx context.Context, f domain.TicketFilter) ([]domain.TicketLegs, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+ticketColumns+`,
		o.id, o.flight_number, o.departure_airport, o.arrival_airport, o.departure_time, o.arrival_time, o.base_price, o.available_seats, o.status, o.created_at, o.updated_at,
		r.id, r.flight_number, r.departure_airport, r.arrival_airport, r.departure_time, r.arrival_time, r.base_price, r.available_seats, r.status, r.created_at, r.updated_at
		FROM tickets t
		JOIN flights o ON o.id = t.outbound_flight_id
		LEFT JOIN flights r ON r.id = t.return_flight_id
		WHERE ($1::text = '' OR t.ticket_type = $1)
		  AND ($2::text = '' OR o.departure_airport = $2)
		  AND ($3::text = '' OR o.arrival_airport = $3)
		  AND ($4::timestamptz IS NULL OR o.departure_time >= $4)
		  AND ($5::timestamptz IS NULL OR o.departure_time <= $5)
		  AND ($6::timestamptz IS NULL OR r.departure_time >= $6)
		  AND ($7::timestamptz IS NULL OR r.departure_time <= $7)
		ORDER BY o.departure_time, t.id`,
		string(f.Type), f.DepartureAirport, f.ArrivalAirport, f.OutboundFrom, f.OutboundTo, f.ReturnFrom, f.ReturnTo,
	)
	if err != nil {
		return nil, fmt.Errorf("search tickets: %w", err)
	}
	defer rows.Close()

	result := make([]domain.TicketLegs, 0)
	for rows.Next() {
		legs, err := scanTicketLegs(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *legs)
	}
	return result, rows.Err()
}

type ticketRow struct {
	t                            domain.Ticket
	outbound, returnPrice, total string
}

func (tr *ticketRow) dest() []any {
	t := &tr.t
	return []any{&t.ID, &t.UserID, &t.OutboundFlightID, &t.ReturnFlightID, &t.Type, &t.Class, &t.Status,
		&t.TotalPassengers, &tr.outbound, &tr.returnPrice, &tr.total, &t.BookingDate, &t.Description,
		&t.Version, &t.CreatedAt, &t.UpdatedAt}
}

func (tr *ticketRow) ticket() (*domain.Ticket, error) {
	var err error
	if tr.t.OutboundPrice, err = decimal.NewFromString(tr.outbound); err != nil {
		return nil, fmt.Errorf("ticket %d outbound price: %w", tr.t.ID, err)
	}
	if tr.t.ReturnPrice, err = decimal.NewFromString(tr.returnPrice); err != nil {
		return nil, fmt.Errorf("ticket %d return price: %w", tr.t.ID, err)
	}
	if tr.t.TotalPrice, err = decimal.NewFromString(tr.total); err != nil {
		return nil, fmt.Errorf("ticket %d total price: %w", tr.t.ID, err)
	}
	return &tr.t, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var tr ticketRow
	if err := row.Scan(tr.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return tr.ticket()
}

// nullableFlight receives the columns of a LEFT JOINed flight.
type nullableFlight struct {
	id                   *int64
	number, dep, arr     *string
	depTime, arrTime     *time.Time
	price                *string
	seats                *int
	status               *string
	createdAt, updatedAt *time.Time
}

func (n *nullableFlight) dest() []any {
	return []any{&n.id, &n.number, &n.dep, &n.arr, &n.depTime, &n.arrTime, &n.price, &n.seats, &n.status, &n.createdAt, &n.updatedAt}
}

func (n *nullableFlight) flight() (*domain.Flight, error) {
	if n.id == nil {
		return nil, nil
	}
	price, err := decimal.NewFromString(*n.price)
	if err != nil {
		return nil, fmt.Errorf("flight %d base price: %w", *n.id, err)
	}
	return &domain.Flight{
		ID:               *n.id,
		FlightNumber:     *n.number,
		DepartureAirport: *n.dep,
		ArrivalAirport:   *n.arr,
		DepartureTime:    *n.depTime,
		ArrivalTime:      *n.arrTime,
		BasePrice:        price,
		AvailableSeats:   *n.seats,
		Status:           domain.FlightStatus(*n.status),
		CreatedAt:        *n.createdAt,
		UpdatedAt:        *n.updatedAt,
	}, nil
}

func scanTicketLegs(rows pgx.Rows) (*domain.TicketLegs, error) {
	var (
		tr       ticketRow
		outbound nullableFlight
		ret      nullableFlight
	)
	dest := append(tr.dest(), outbound.dest()...)
	dest = append(dest, ret.dest()...)
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan ticket legs: %w", err)
	}

	t, err := tr.ticket()
	if err != nil {
		return nil, err
	}
	out, err := outbound.flight()
	if err != nil {
		return nil, err
	}
	back, err := ret.flight()
	if err != nil {
		return nil, err
	}
	return &domain.TicketLegs{Ticket: *t, Outbound: *out, Return: back}, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
