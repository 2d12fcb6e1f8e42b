//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestDB_IsEmailRegistered_Postgres(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("authgate"),
		tcpostgres.WithUsername("authgate"),
		tcpostgres.WithPassword("authgate"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New() error = %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, `CREATE TABLE accounts (id bigserial PRIMARY KEY, email_address text NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO accounts (email_address) VALUES ('Alice@Example.com')`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	db := NewDB(pool, instrument.NewNoop(), "accounts", "email_address")

	tests := []struct {
		email string
		want  bool
	}{
		{email: "alice@example.com", want: true},
		{email: "bob@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			// Act
			got, err := db.IsEmailRegistered(ctx, tt.email)

			// Assert
			if err != nil {
				t.Fatalf("IsEmailRegistered() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsEmailRegistered() = %v, want %v", got, tt.want)
			}
		})
	}
}
