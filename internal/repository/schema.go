package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	full_name  TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL DEFAULT 'CUSTOMER'
);

CREATE TABLE IF NOT EXISTS flights (
	id                BIGSERIAL PRIMARY KEY,
	flight_number     TEXT NOT NULL,
	departure_airport TEXT NOT NULL,
	arrival_airport   TEXT NOT NULL,
	departure_time    TIMESTAMPTZ NOT NULL,
	arrival_time      TIMESTAMPTZ NOT NULL CHECK (arrival_time > departure_time),
	base_price        TEXT NOT NULL,
	available_seats   INT NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'SCHEDULED',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tickets (
	id                    BIGSERIAL PRIMARY KEY,
	user_id               BIGINT REFERENCES users(id),
	outbound_flight_id    BIGINT NOT NULL REFERENCES flights(id),
	return_flight_id      BIGINT REFERENCES flights(id),
	ticket_type           TEXT NOT NULL,
	booking_class         TEXT NOT NULL,
	booking_status        TEXT NOT NULL,
	total_passengers      INT NOT NULL DEFAULT 1 CHECK (total_passengers >= 1),
	outbound_ticket_price TEXT NOT NULL,
	return_ticket_price   TEXT NOT NULL,
	total_price           TEXT NOT NULL,
	booking_date          TIMESTAMPTZ,
	description           TEXT NOT NULL DEFAULT '',
	version               BIGINT NOT NULL DEFAULT 1,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL,
	CHECK ((ticket_type = 'ROUND_TRIP') = (return_flight_id IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS tickets_user_id_idx ON tickets (user_id);

CREATE TABLE IF NOT EXISTS ticket_passengers (
	id                  BIGSERIAL PRIMARY KEY,
	ticket_id           BIGINT NOT NULL REFERENCES tickets(id),
	passenger_type      TEXT NOT NULL,
	full_name           TEXT NOT NULL,
	birthday            DATE NOT NULL,
	cccd                TEXT NOT NULL,
	country_code        TEXT NOT NULL,
	associated_adult_id BIGINT REFERENCES ticket_passengers(id),
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS ticket_passengers_ticket_id_idx ON ticket_passengers (ticket_id);
`

// Migrate creates the tables used by the repositories when they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
