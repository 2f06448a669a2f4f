package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookly-hq/bookly/pkg/pg"
	"github.com/bookly-hq/bookly/pkg/tenant"
)

// DB is the pgx surface the store uses. *pgxpool.Pool and pgx.Tx both
// satisfy it, so the store can run standalone or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const tenantColumns = `id, schema_name, display_name, description, active, status, owner_id, created_at, updated_at`

// Store reads and writes public.tenants.
type Store struct {
	db DB
}

var _ tenant.Provider = (*Store)(nil)

// New creates a registry store on the given database handle.
func New(db DB) *Store {
	return &Store{db: db}
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(
		&t.ID,
		&t.SchemaName,
		&t.DisplayName,
		&t.Description,
		&t.Active,
		&t.Status,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return &t, nil
}

// GetByIdentifier retrieves a tenant by schema name or, when the
// identifier parses as a UUID, by id. Satisfies tenant.Provider.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*tenant.Tenant, error) {
	if identifier == "" {
		return nil, tenant.ErrInvalidIdentifier
	}

	if id, err := uuid.Parse(identifier); err == nil {
		return s.GetByID(ctx, id)
	}
	return s.GetBySchemaName(ctx, identifier)
}

// GetByID retrieves a tenant by primary key.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants WHERE id = $1`, id)
	return scanTenant(row)
}

// GetBySchemaName retrieves a tenant by its canonical schema name.
func (s *Store) GetBySchemaName(ctx context.Context, schemaName string) (*tenant.Tenant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants WHERE schema_name = $1`, schemaName)
	return scanTenant(row)
}

// GetByDisplayName retrieves a tenant by display name. The provisioner
// uses this as a fast-fail pre-check before inserting.
func (s *Store) GetByDisplayName(ctx context.Context, displayName string) (*tenant.Tenant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants WHERE display_name = $1`, displayName)
	return scanTenant(row)
}

// List returns all tenants ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*tenant.Tenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants ORDER BY created_at`)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return tenants, nil
}

// Create inserts a new tenant row. The caller sets Status; the
// provisioner inserts pending rows and flips them to ready after the
// schema DDL succeeds. Unique violations on schema_name or display_name
// map to ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, t *tenant.Tenant) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO public.tenants (id, schema_name, display_name, description, active, status, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.SchemaName, t.DisplayName, t.Description, t.Active, t.Status, t.OwnerID)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", ErrAlreadyExists, t.DisplayName)
		}
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

// MarkReady flips a tenant to ready once its schema exists.
func (s *Store) MarkReady(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, tenant.StatusReady)
}

// MarkFailed records a provisioning failure.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, tenant.StatusFailed)
}

func (s *Store) setStatus(ctx context.Context, id uuid.UUID, status tenant.Status) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE public.tenants SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// Deactivate turns a tenant off without touching its schema or data.
func (s *Store) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE public.tenants SET active = false, updated_at = now() WHERE id = $1`,
		id)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// Delete removes the registry row. Used as the compensating step when
// schema provisioning fails after the row was inserted.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM public.tenants WHERE id = $1`, id)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}
