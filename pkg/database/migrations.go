package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema is portable between PostgreSQL and SQLite. Timestamps are stored as
// TIMESTAMP and quantities as integers; money amounts are NUMERIC text.
const schema = `
CREATE TABLE IF NOT EXISTS id_counters (
    name  VARCHAR(32) PRIMARY KEY,
    value INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS camp_managers (
    camp_id        VARCHAR(32) PRIMARY KEY,
    camp_name      TEXT NOT NULL,
    manager_name   TEXT NOT NULL,
    email          TEXT NOT NULL UNIQUE,
    password_hash  TEXT NOT NULL,
    location       TEXT NOT NULL DEFAULT '',
    contact_number TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMP NOT NULL,
    updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS disasters (
    disaster_id         VARCHAR(32) PRIMARY KEY,
    disaster_name       TEXT NOT NULL,
    location            TEXT NOT NULL,
    latitude            DOUBLE PRECISION,
    longitude           DOUBLE PRECISION,
    date_occurred       TIMESTAMP NOT NULL,
    disaster_type       VARCHAR(32) NOT NULL,
    severity            VARCHAR(16) NOT NULL,
    description         TEXT NOT NULL DEFAULT '',
    affected_population INTEGER NOT NULL DEFAULT 0,
    status              VARCHAR(16) NOT NULL DEFAULT 'Active',
    created_at          TIMESTAMP NOT NULL,
    updated_at          TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS camp_requests (
    id            VARCHAR(36) PRIMARY KEY,
    camp_id       VARCHAR(32) NOT NULL,
    camp_name     TEXT NOT NULL DEFAULT '',
    item_name     TEXT NOT NULL,
    unit          TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL DEFAULT '',
    priority      VARCHAR(16) NOT NULL DEFAULT 'Medium',
    required_qty  INTEGER NOT NULL CHECK (required_qty > 0),
    remaining_qty INTEGER NOT NULL CHECK (remaining_qty >= 0 AND remaining_qty <= required_qty),
    status        VARCHAR(16) NOT NULL DEFAULT 'Pending',
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_camp_requests_camp_item ON camp_requests (camp_id, item_name);

CREATE TABLE IF NOT EXISTS donation_records (
    id          VARCHAR(36) PRIMARY KEY,
    request_id  VARCHAR(36) NOT NULL REFERENCES camp_requests (id),
    camp_id     VARCHAR(32) NOT NULL,
    donor_name  TEXT NOT NULL DEFAULT 'Anonymous Donor',
    item_name   TEXT NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    unit        TEXT NOT NULL DEFAULT '',
    status      VARCHAR(16) NOT NULL DEFAULT 'Pending',
    donated_at  TIMESTAMP NOT NULL,
    received_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_donation_records_camp ON donation_records (camp_id, donated_at);

CREATE TABLE IF NOT EXISTS inventory (
    camp_id      VARCHAR(32) NOT NULL,
    item_name    TEXT NOT NULL,
    quantity     INTEGER NOT NULL CHECK (quantity >= 0),
    last_updated TIMESTAMP NOT NULL,
    PRIMARY KEY (camp_id, item_name)
);

CREATE TABLE IF NOT EXISTS money_donations (
    id             VARCHAR(36) PRIMARY KEY,
    donor_id       TEXT NOT NULL DEFAULT '',
    camp_id        VARCHAR(32) NOT NULL,
    amount         NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
    payment_status VARCHAR(16) NOT NULL,
    donated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS camp_inmates (
    id                 VARCHAR(36) PRIMARY KEY,
    camp_id            VARCHAR(32) NOT NULL,
    name               TEXT NOT NULL,
    age                INTEGER NOT NULL CHECK (age >= 0),
    gender             VARCHAR(8) NOT NULL,
    contact_number     TEXT NOT NULL DEFAULT '',
    aadhar_number      TEXT NOT NULL DEFAULT '',
    address            TEXT NOT NULL DEFAULT '',
    family_members     INTEGER NOT NULL DEFAULT 1,
    medical_conditions TEXT NOT NULL DEFAULT '',
    status             VARCHAR(16) NOT NULL DEFAULT 'Active',
    registered_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_camp_inmates_camp ON camp_inmates (camp_id, status);
`

// Migrate applies the schema. Statements are idempotent so it runs on every
// start when auto-migration is enabled.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
