package schemarouter_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookly-hq/bookly/pkg/schemarouter"
	"github.com/bookly-hq/bookly/pkg/tenant"
)

// testPool connects to the database named by TEST_DATABASE_URL, skipping
// the test when it is unset. These tests exercise the acquire/release
// protocol against a real pool; the protocol cannot be verified
// meaningfully against a mock.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createSchema(t *testing.T, pool *pgxpool.Pool, schema string) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, schema))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q.items (name text)`, schema))
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), fmt.Sprintf(`DROP SCHEMA IF EXISTS %q CASCADE`, schema))
	})
}

func currentSearchPath(t *testing.T, conn *schemarouter.Conn) string {
	t.Helper()

	var path string
	require.NoError(t, conn.QueryRow(context.Background(), `SHOW search_path`).Scan(&path))
	return path
}

func TestSource_Acquire(t *testing.T) {
	pool := testPool(t)
	source := schemarouter.New(pool)

	t.Run("unbound context stays on default schema", func(t *testing.T) {
		conn, err := source.Acquire(context.Background())
		require.NoError(t, err)
		defer conn.Release()

		assert.Equal(t, tenant.DefaultSchema, conn.Schema())
	})

	t.Run("bound context switches search_path", func(t *testing.T) {
		createSchema(t, pool, "t_switch")

		ctx := tenant.WithSchema(context.Background(), "t_switch")
		conn, err := source.Acquire(ctx)
		require.NoError(t, err)
		defer conn.Release()

		assert.Equal(t, "t_switch", conn.Schema())
		assert.Contains(t, currentSearchPath(t, conn), "t_switch")
	})

	t.Run("invalid schema name is rejected before touching the connection", func(t *testing.T) {
		ctx := tenant.WithSchema(context.Background(), `t";DROP SCHEMA public;--`)
		_, err := source.Acquire(ctx)
		assert.ErrorIs(t, err, schemarouter.ErrInvalidSchemaName)
	})

	t.Run("switch to missing schema fails and discards", func(t *testing.T) {
		// SET search_path itself tolerates names that do not resolve,
		// so the acquire path has to verify the switch took effect.
		ctx := tenant.WithSchema(context.Background(), "t_gone_schema")
		_, err := source.Acquire(ctx)
		assert.ErrorIs(t, err, schemarouter.ErrSchemaSwitchFailed)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

		// The pool must still serve clean connections afterwards.
		conn, err := source.Acquire(context.Background())
		require.NoError(t, err)
		conn.Release()
	})
}

func TestSource_ResetOnRelease(t *testing.T) {
	pool := testPool(t)
	createSchema(t, pool, "t_reset")

	// A pool of exactly one connection guarantees the released physical
	// connection is the one the next acquire observes.
	dsn := os.Getenv("TEST_DATABASE_URL")
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 1
	single, err := pgxpool.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer single.Close()

	source := schemarouter.New(single)

	// Round trip: switch to tenant schema, release, reacquire unbound.
	ctx := tenant.WithSchema(context.Background(), "t_reset")
	conn, err := source.Acquire(ctx)
	require.NoError(t, err)
	conn.Release()

	conn, err = source.Acquire(context.Background())
	require.NoError(t, err)
	defer conn.Release()

	path := currentSearchPath(t, conn)
	assert.NotContains(t, path, "t_reset")
}

func TestSource_DoubleReleaseIsSafe(t *testing.T) {
	pool := testPool(t)
	source := schemarouter.New(pool)

	conn, err := source.Acquire(context.Background())
	require.NoError(t, err)

	conn.Release()
	assert.NotPanics(t, conn.Release)
}

func TestSource_RawIsUnsupported(t *testing.T) {
	pool := testPool(t)
	source := schemarouter.New(pool)

	conn, err := source.Acquire(context.Background())
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Raw()
	assert.ErrorIs(t, err, schemarouter.ErrUnsupported)
}

func TestSource_ConcurrentTenantIsolation(t *testing.T) {
	pool := testPool(t)
	createSchema(t, pool, "t_acme")
	createSchema(t, pool, "t_beta")

	ctx := context.Background()
	_, err := pool.Exec(ctx, `INSERT INTO t_acme.items (name) VALUES ('acme-only')`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO t_beta.items (name) VALUES ('beta-only')`)
	require.NoError(t, err)

	source := schemarouter.New(pool)

	const perStream = 50
	var wg sync.WaitGroup
	wg.Add(2)

	stream := func(schema, want string) {
		defer wg.Done()
		for i := 0; i < perStream; i++ {
			streamCtx := tenant.WithSchema(context.Background(), schema)

			conn, err := source.Acquire(streamCtx)
			if !assert.NoError(t, err) {
				return
			}

			rows, err := conn.Query(streamCtx, `SELECT name FROM items`)
			if !assert.NoError(t, err) {
				conn.Release()
				return
			}

			var names []string
			for rows.Next() {
				var name string
				if assert.NoError(t, rows.Scan(&name)) {
					names = append(names, name)
				}
			}
			rows.Close()
			conn.Release()

			// Every unqualified query must see exactly its own
			// tenant's rows, even though both streams share the
			// same physical connections.
			assert.Equal(t, []string{want}, names)
		}
	}

	go stream("t_acme", "acme-only")
	go stream("t_beta", "beta-only")
	wg.Wait()
}
