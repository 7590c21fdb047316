package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *domain.Passenger) error
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Passenger, error)
	CountByTicket(ctx context.Context, ticketID int64) (int, error)
	Update(ctx context.Context, passenger *domain.Passenger) error
	Delete(ctx context.Context, id int64) error
	DeleteByTicket(ctx context.Context, ticketID int64) error
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

const passengerColumns = `id, ticket_id, passenger_type, full_name, birthday, cccd, country_code, associated_adult_id, created_at, updated_at`

func (r *PGPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO ticket_passengers (ticket_id, passenger_type, full_name, birthday, cccd,
		country_code, associated_adult_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.TicketID, p.Type, p.FullName, p.Birthday, p.NationalID, p.CountryCode, p.AssociatedAdultID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+passengerColumns+` FROM ticket_passengers WHERE id=$1`, id)
	p, err := scanPassenger(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("passenger %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *PGPassengerRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Passenger, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+passengerColumns+` FROM ticket_passengers WHERE ticket_id=$1 ORDER BY id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, *p)
	}
	return passengers, rows.Err()
}

func (r *PGPassengerRepository) CountByTicket(ctx context.Context, ticketID int64) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM ticket_passengers WHERE ticket_id=$1`, ticketID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count passengers: %w", err)
	}
	return n, nil
}

func (r *PGPassengerRepository) Update(ctx context.Context, p *domain.Passenger) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE ticket_passengers SET passenger_type=$2, full_name=$3, birthday=$4, cccd=$5,
		country_code=$6, associated_adult_id=$7, updated_at=$8 WHERE id=$1`,
		p.ID, p.Type, p.FullName, p.Birthday, p.NationalID, p.CountryCode, p.AssociatedAdultID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update passenger: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("passenger %d: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PGPassengerRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM ticket_passengers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete passenger: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("passenger %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteByTicket removes infants first so self references never dangle.
func (r *PGPassengerRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	db := conn(ctx, r.db)
	if _, err := db.Exec(ctx, `DELETE FROM ticket_passengers WHERE ticket_id=$1 AND associated_adult_id IS NOT NULL`, ticketID); err != nil {
		return fmt.Errorf("delete ticket infants: %w", err)
	}
	if _, err := db.Exec(ctx, `DELETE FROM ticket_passengers WHERE ticket_id=$1`, ticketID); err != nil {
		return fmt.Errorf("delete ticket passengers: %w", err)
	}
	return nil
}

func scanPassenger(row pgx.Row) (*domain.Passenger, error) {
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.TicketID, &p.Type, &p.FullName, &p.Birthday, &p.NationalID, &p.CountryCode, &p.AssociatedAdultID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan passenger: %w", err)
	}
	return &p, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
