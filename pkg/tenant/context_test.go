package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookly-hq/bookly/pkg/tenant"
)

func createTestTenant(displayName, schemaName string, active bool) *tenant.Tenant {
	now := time.Now()
	return &tenant.Tenant{
		ID:          uuid.New(),
		SchemaName:  schemaName,
		DisplayName: displayName,
		Active:      active,
		Status:      tenant.StatusReady,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		testTenant := createTestTenant("Acme Library", "t_acme", true)
		ctx := tenant.WithTenant(context.Background(), testTenant)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, testTenant, got)
	})

	t.Run("empty context has no tenant", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil tenant is not a binding", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithTenant(context.Background(), nil)
		_, ok := tenant.FromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("must panics without binding", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})

	t.Run("binding does not leak to parent context", func(t *testing.T) {
		t.Parallel()

		parent := context.Background()
		_ = tenant.WithTenant(parent, createTestTenant("Acme", "t_acme", true))

		_, ok := tenant.FromContext(parent)
		assert.False(t, ok)
	})
}

func TestSchemaFromContext(t *testing.T) {
	t.Parallel()

	t.Run("from full tenant binding", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithTenant(context.Background(), createTestTenant("Acme", "t_acme", true))
		schema, ok := tenant.SchemaFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "t_acme", schema)
	})

	t.Run("from bare schema binding", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithSchema(context.Background(), "t_beta")
		schema, ok := tenant.SchemaFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "t_beta", schema)
	})

	t.Run("tenant binding wins over bare schema", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithSchema(context.Background(), "t_beta")
		ctx = tenant.WithTenant(ctx, createTestTenant("Acme", "t_acme", true))

		schema, ok := tenant.SchemaFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "t_acme", schema)
	})

	t.Run("unbound context", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.SchemaFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestCurrentSchema(t *testing.T) {
	t.Parallel()

	t.Run("defaults to public when unset", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, tenant.DefaultSchema, tenant.CurrentSchema(context.Background()))
	})

	t.Run("returns bound schema", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithTenant(context.Background(), createTestTenant("Acme", "t_acme", true))
		assert.Equal(t, "t_acme", tenant.CurrentSchema(ctx))
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := tenant.LoggerExtractor()

	attr, ok := extract(tenant.WithSchema(context.Background(), "t_acme"))
	require.True(t, ok)
	assert.Equal(t, "schema", attr.Key)
	assert.Equal(t, "t_acme", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}

func TestResolvable(t *testing.T) {
	t.Parallel()

	ready := createTestTenant("Acme", "t_acme", true)
	assert.True(t, ready.Resolvable())

	inactive := createTestTenant("Acme", "t_acme", false)
	assert.False(t, inactive.Resolvable())

	pending := createTestTenant("Acme", "t_acme", true)
	pending.Status = tenant.StatusPending
	assert.False(t, pending.Resolvable())

	failed := createTestTenant("Acme", "t_acme", true)
	failed.Status = tenant.StatusFailed
	assert.False(t, failed.Resolvable())
}
