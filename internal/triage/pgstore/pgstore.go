// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/casetriage/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/casetriage/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists case records in PostgreSQL. Update mutations run inside a
// transaction holding a row lock, so concurrent updates to one case
// serialize instead of clobbering each other.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store. The pool stays owned by
// the caller.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const caseColumns = `id, status, intake, triage, routing, notes, transitions, review_requests,
	created_at, updated_at`

// Create inserts a new case. A duplicate id is an error.
func (s *Store) Create(ctx context.Context, c *triage.Case) error {
	ctx, span := tracer.Start(ctx, "pgstore.Create", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	cols, err := marshalCase(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	query := `INSERT INTO cases (` + caseColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err = s.pool.Exec(ctx, query,
		c.ID, string(c.Status), cols.intake, cols.triage, cols.routing,
		cols.notes, cols.transitions, cols.reviews, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			err = fmt.Errorf("case already exists: %s", c.ID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Get retrieves a case by ID.
func (s *Store) Get(ctx context.Context, id string) (*triage.Case, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	c, err := scanCaseRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if c == nil {
		return nil, false, nil
	}
	return c, true, nil
}

// Update loads the case under SELECT FOR UPDATE, applies fn and writes the
// result back in the same transaction. A fn error rolls back and is returned
// as-is so callers' typed errors survive.
func (s *Store) Update(ctx context.Context, id string, fn func(*triage.Case) error) (*triage.Case, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Update", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is harmless

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1 FOR UPDATE`
	c, err := scanCaseRow(tx.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if c == nil {
		return nil, false, nil
	}

	if err := fn(c); err != nil {
		// caller's error, not a storage failure
		return nil, true, err
	}

	cols, err := marshalCase(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, true, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE cases SET
			status          = $2,
			intake          = $3,
			triage          = $4,
			routing         = $5,
			notes           = $6,
			transitions     = $7,
			review_requests = $8,
			updated_at      = $9
		WHERE id = $1`,
		c.ID, string(c.Status), cols.intake, cols.triage, cols.routing,
		cols.notes, cols.transitions, cols.reviews, c.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, true, fmt.Errorf("update case: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, true, fmt.Errorf("commit: %w", err)
	}
	return c, true, nil
}

// List returns cases newest first, optionally filtered by status.
// limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, status triage.Status, limit int) ([]*triage.Case, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + caseColumns + ` FROM cases`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var out []*triage.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

type caseColumnsJSON struct {
	intake      []byte
	triage      []byte
	routing     []byte
	notes       []byte
	transitions []byte
	reviews     []byte
}

func marshalCase(c *triage.Case) (*caseColumnsJSON, error) {
	var cols caseColumnsJSON
	var err error

	if cols.intake, err = json.Marshal(c.Intake); err != nil {
		return nil, fmt.Errorf("marshal intake: %w", err)
	}
	if c.Triage != nil {
		if cols.triage, err = json.Marshal(c.Triage); err != nil {
			return nil, fmt.Errorf("marshal triage: %w", err)
		}
	}
	if c.Routing != nil {
		if cols.routing, err = json.Marshal(c.Routing); err != nil {
			return nil, fmt.Errorf("marshal routing: %w", err)
		}
	}
	if cols.notes, err = marshalList(c.Notes); err != nil {
		return nil, fmt.Errorf("marshal notes: %w", err)
	}
	if cols.transitions, err = marshalList(c.Transitions); err != nil {
		return nil, fmt.Errorf("marshal transitions: %w", err)
	}
	if cols.reviews, err = marshalList(c.ReviewRequests); err != nil {
		return nil, fmt.Errorf("marshal review requests: %w", err)
	}
	return &cols, nil
}

// marshalList keeps empty slices as JSON [] so the NOT NULL columns always
// hold an array.
func marshalList[T any](list []T) ([]byte, error) {
	if list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(list)
}

// scanCase scans one row into a triage.Case.
func scanCase(row pgx.Row) (*triage.Case, error) {
	var (
		c           triage.Case
		status      string
		intakeJSON  []byte
		triageJSON  []byte
		routingJSON []byte
		notesJSON   []byte
		transJSON   []byte
		reviewsJSON []byte
	)

	err := row.Scan(
		&c.ID, &status, &intakeJSON, &triageJSON, &routingJSON,
		&notesJSON, &transJSON, &reviewsJSON, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	c.Status = triage.Status(status)

	if err := json.Unmarshal(intakeJSON, &c.Intake); err != nil {
		return nil, fmt.Errorf("unmarshal intake: %w", err)
	}
	if len(triageJSON) > 0 {
		c.Triage = &triage.TriageResult{}
		if err := json.Unmarshal(triageJSON, c.Triage); err != nil {
			return nil, fmt.Errorf("unmarshal triage: %w", err)
		}
	}
	if len(routingJSON) > 0 {
		c.Routing = &triage.RoutingResult{}
		if err := json.Unmarshal(routingJSON, c.Routing); err != nil {
			return nil, fmt.Errorf("unmarshal routing: %w", err)
		}
	}
	if err := json.Unmarshal(notesJSON, &c.Notes); err != nil {
		return nil, fmt.Errorf("unmarshal notes: %w", err)
	}
	if err := json.Unmarshal(transJSON, &c.Transitions); err != nil {
		return nil, fmt.Errorf("unmarshal transitions: %w", err)
	}
	if err := json.Unmarshal(reviewsJSON, &c.ReviewRequests); err != nil {
		return nil, fmt.Errorf("unmarshal review requests: %w", err)
	}
	return &c, nil
}

// scanCaseRow scans a single-row query, mapping no-rows to (nil, nil).
func scanCaseRow(row pgx.Row) (*triage.Case, error) {
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
