package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and makes sure the schema exists.
func Init(dsn string) {
	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		logrus.Fatalf("unable to connect to database: %v", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		logrus.Fatalf("unable to ping database: %v", err)
	}

	logrus.Info("connected to Postgres")

	ensureSchema()
}

// ensureSchema creates the tables the service depends on. The wallets CHECK
// constraint is the database-level guard against a negative balance.
func ensureSchema() {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			referral_code TEXT NOT NULL UNIQUE,
			referred_by UUID REFERENCES users(id),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			bio TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS wallets (
			user_id UUID PRIMARY KEY REFERENCES users(id),
			balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			total_earned BIGINT NOT NULL DEFAULT 0,
			total_withdrawn BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			type TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
			amount BIGINT NOT NULL CHECK (amount > 0),
			status TEXT NOT NULL DEFAULT 'completed',
			reference_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_transactions_user
			ON wallet_transactions (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS payout_methods (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			kind TEXT NOT NULL CHECK (kind IN ('upi', 'bank')),
			upi_id TEXT NOT NULL DEFAULT '',
			account_number TEXT NOT NULL DEFAULT '',
			ifsc TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payouts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			method_id UUID NOT NULL REFERENCES payout_methods(id),
			amount BIGINT NOT NULL CHECK (amount > 0),
			status TEXT NOT NULL DEFAULT 'pending',
			reference TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			processed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL CHECK (price >= 0),
			asset_key TEXT NOT NULL DEFAULT '',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS course_modules (
			id UUID PRIMARY KEY,
			course_id UUID NOT NULL REFERENCES courses(id),
			title TEXT NOT NULL,
			position INT NOT NULL DEFAULT 0,
			duration_minutes INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			course_id UUID NOT NULL REFERENCES courses(id),
			amount BIGINT NOT NULL CHECK (amount >= 0),
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS course_progress (
			user_id UUID NOT NULL REFERENCES users(id),
			module_id UUID NOT NULL REFERENCES course_modules(id),
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, module_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			type TEXT NOT NULL DEFAULT 'system',
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user
			ON notifications (user_id, created_at DESC)`,
	}

	ctx := context.Background()
	for _, stmt := range stmts {
		if _, err := Conn.Exec(ctx, stmt); err != nil {
			logrus.Fatalf("schema setup failed: %v", err)
		}
	}
}
