package schemarouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookly-hq/bookly/pkg/logger"
	"github.com/bookly-hq/bookly/pkg/pg"
	"github.com/bookly-hq/bookly/pkg/tenant"
)

// resetTimeout bounds the schema reset on release. The reset runs on a
// background context on purpose: request cancellation must not be able
// to skip it.
const resetTimeout = 5 * time.Second

type sourceConfig struct {
	defaultSchema string
	logger        *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*sourceConfig)

// WithDefaultSchema overrides the schema connections are reset to on
// release.
func WithDefaultSchema(schema string) SourceOption {
	return func(c *sourceConfig) {
		if schema != "" {
			c.defaultSchema = schema
		}
	}
}

// WithLogger sets the source logger.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(c *sourceConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Source is the schema-routing connection source. It owns no connections
// itself; it decorates checkouts from the one shared pool with the
// switch-on-acquire, reset-on-release protocol.
type Source struct {
	pool          *pgxpool.Pool
	defaultSchema string
	log           *slog.Logger
}

// New wraps the shared pool in a schema-routing source.
func New(pool *pgxpool.Pool, opts ...SourceOption) *Source {
	cfg := &sourceConfig{
		defaultSchema: tenant.DefaultSchema,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Source{
		pool:          pool,
		defaultSchema: cfg.defaultSchema,
		log:           cfg.logger.With(logger.Component("schemarouter")),
	}
}

// DefaultSchema returns the schema connections rest at between units of
// work.
func (s *Source) DefaultSchema() string {
	return s.defaultSchema
}

// Acquire checks a connection out of the pool and points it at the
// schema bound on ctx. Unbound contexts get a connection at the default
// schema. The returned Conn must be released exactly once.
//
// A failed schema switch destroys the connection and surfaces
// ErrSchemaSwitchFailed; the connection never re-enters the pool in an
// unknown state.
func (s *Source) Acquire(ctx context.Context) (*Conn, error) {
	schema := tenant.CurrentSchema(ctx)

	poolConn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, errors.Join(ErrAcquireFailed, err)
	}

	if schema != s.defaultSchema {
		if !ValidSchemaName(schema) {
			poolConn.Release()
			return nil, fmt.Errorf("%w: %q", ErrInvalidSchemaName, schema)
		}
		if _, err := poolConn.Exec(ctx, "SET search_path TO "+quoteIdentifier(schema)); err != nil {
			s.discard(poolConn)
			observeSwitch(resultFailed)
			if pg.IsUndefinedSchemaError(err) {
				return nil, errors.Join(ErrSchemaSwitchFailed, tenant.ErrTenantNotFound, err)
			}
			return nil, errors.Join(ErrSchemaSwitchFailed, err)
		}
		// SET search_path accepts names that do not resolve, so the
		// switch is verified before the connection is handed out. A
		// registry row whose schema was dropped out of band would
		// otherwise surface as relation-not-found errors mid-request.
		var current *string
		if err := poolConn.QueryRow(ctx, "SELECT current_schema()").Scan(&current); err != nil {
			s.discard(poolConn)
			observeSwitch(resultFailed)
			return nil, errors.Join(ErrSchemaSwitchFailed, err)
		}
		if current == nil || *current != schema {
			s.discard(poolConn)
			observeSwitch(resultFailed)
			return nil, fmt.Errorf("%w: schema %q does not exist",
				errors.Join(ErrSchemaSwitchFailed, tenant.ErrTenantNotFound), schema)
		}
		observeSwitch(resultOK)
		s.log.DebugContext(ctx, "connection switched to tenant schema",
			slog.String("schema", schema))
	}

	return &Conn{conn: poolConn, source: s, schema: schema}, nil
}

// discard removes a connection from the pool permanently. Hijack detaches
// it from pool accounting, then the raw connection is closed.
func (s *Source) discard(poolConn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()
	_ = poolConn.Hijack().Close(ctx)
	observeDiscard()
}

// Conn is one checked-out connection bound to a single schema for one
// unit of work. Aggressive mid-transaction release is intentionally not
// supported; the connection serves its unit of work start to finish.
type Conn struct {
	conn     *pgxpool.Conn
	source   *Source
	schema   string
	released bool
}

// Schema returns the schema this connection was switched to at acquire
// time.
func (c *Conn) Schema() string {
	return c.schema
}

// Exec runs a statement on the routed connection.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn.Exec(ctx, sql, args...)
}

// Query runs a query on the routed connection.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// QueryRow runs a single-row query on the routed connection.
func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.conn.QueryRow(ctx, sql, args...)
}

// Begin starts a transaction on the routed connection. The transaction
// inherits the connection's schema.
func (c *Conn) Begin(ctx context.Context) (pgx.Tx, error) {
	return c.conn.Begin(ctx)
}

// Raw would expose the underlying driver connection, which would let
// callers bypass the reset-on-release protocol. It reports ErrUnsupported
// instead of silently handing out a default.
func (c *Conn) Raw() (*pgx.Conn, error) {
	return nil, ErrUnsupported
}

// Release resets the connection to the default schema and returns it to
// the pool. Safe to call more than once; only the first call acts. A
// failed reset destroys the connection instead of pooling it.
func (c *Conn) Release() {
	if c.released {
		return
	}
	c.released = true

	if c.schema != c.source.defaultSchema {
		// Background context: a canceled request must still reset the
		// connection it used.
		ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
		defer cancel()

		if _, err := c.conn.Exec(ctx, "SET search_path TO "+quoteIdentifier(c.source.defaultSchema)); err != nil {
			c.source.log.Error("schema reset failed, discarding connection",
				slog.String("schema", c.schema),
				slog.Any("error", err))
			c.source.discard(c.conn)
			observeReset(resultFailed)
			return
		}
		observeReset(resultOK)
	}

	c.conn.Release()
}
