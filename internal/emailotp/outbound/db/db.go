package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB answers whether an address already belongs to a user account.
type DB struct {
	conn  Querier
	ins   instrument.Instrumentation
	query string
}

// NewDB builds the lookup against table.column. Both names are quoted as
// identifiers, so they may come from configuration.
func NewDB(conn Querier, ins instrument.Instrumentation, table, column string) *DB {
	return &DB{
		conn:  conn,
		ins:   ins,
		query: "SELECT EXISTS (SELECT 1 FROM " + pgx.Identifier{table}.Sanitize() + " WHERE lower(" + pgx.Identifier{column}.Sanitize() + ") = $1)",
	}
}

func (s *DB) IsEmailRegistered(ctx context.Context, email string) (exists bool, err error) {
	ctx, span := s.startSpan(ctx, "IsEmailRegistered")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, s.query, email).Scan(&exists)
	return exists, err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("emailotp.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
