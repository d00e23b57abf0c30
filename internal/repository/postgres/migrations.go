package postgres

import (
	"context"
	"database/sql"
)

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			phone         TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id           TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL UNIQUE REFERENCES users(id),
			make         TEXT NOT NULL,
			model        TEXT NOT NULL,
			plate_number TEXT NOT NULL,
			color        TEXT NOT NULL DEFAULT '',
			capacity     INT NOT NULL CHECK (capacity >= 1),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS rides (
			id           TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL REFERENCES users(id),
			source       TEXT NOT NULL,
			destination  TEXT NOT NULL,
			departure_at TIMESTAMPTZ NOT NULL,
			total_seats  INT NOT NULL CHECK (total_seats >= 1),
			price_per_km NUMERIC NOT NULL DEFAULT 0,
			distance_km  NUMERIC NOT NULL DEFAULT 0,
			status       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			cancelled_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS rides_owner_idx ON rides (owner_id)`,
		`CREATE INDEX IF NOT EXISTS rides_status_departure_idx ON rides (status, departure_at)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id              TEXT PRIMARY KEY,
			ride_id         TEXT NOT NULL REFERENCES rides(id),
			passenger_id    TEXT NOT NULL REFERENCES users(id),
			seats_requested INT NOT NULL CHECK (seats_requested >= 1),
			passenger_phone TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS bookings_ride_idx ON bookings (ride_id)`,
		`CREATE INDEX IF NOT EXISTS bookings_passenger_idx ON bookings (passenger_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
