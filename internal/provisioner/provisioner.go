package provisioner

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookly-hq/bookly/internal/registry"
	"github.com/bookly-hq/bookly/pkg/logger"
	"github.com/bookly-hq/bookly/pkg/tenant"
)

// DefaultSchemaPrefix keeps generated names out of the default schema's
// namespace. "public" can never collide with a prefixed hex name.
const DefaultSchemaPrefix = "t_"

// Registry is the subset of the registry store the provisioner uses.
type Registry interface {
	GetByDisplayName(ctx context.Context, displayName string) (*tenant.Tenant, error)
	Create(ctx context.Context, t *tenant.Tenant) error
	MarkReady(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Execer runs DDL against the default connection source. Satisfied by
// *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Provisioner creates and tears down tenant schemas.
type Provisioner struct {
	registry Registry
	db       Execer
	prefix   string
	log      *slog.Logger
}

// Option configures the provisioner.
type Option func(*Provisioner)

// WithPrefix overrides the generated schema name prefix.
func WithPrefix(prefix string) Option {
	if prefix == "" {
		panic("WithPrefix: prefix cannot be empty")
	}
	return func(p *Provisioner) { p.prefix = prefix }
}

// WithLogger supplies a logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provisioner) { p.log = log }
}

// New creates a Provisioner.
func New(reg Registry, db Execer, opts ...Option) *Provisioner {
	p := &Provisioner{
		registry: reg,
		db:       db,
		prefix:   DefaultSchemaPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.log = p.log.With(logger.Component("provisioner"))
	return p
}

// SchemaName derives the canonical schema name for a tenant id: the
// prefix followed by the id's 32 hex digits. Deterministic, collision
// free for distinct ids, and always a valid lowercase identifier.
func SchemaName(prefix string, id uuid.UUID) string {
	return prefix + hex.EncodeToString(id[:])
}

// CreateParams describes a tenant to provision.
type CreateParams struct {
	DisplayName string
	Description string
	OwnerID     uuid.UUID
}

// CreateTenant registers a tenant and builds its schema.
//
// The display-name pre-check is a fast path for a friendlier error; the
// unique constraints on public.tenants are the actual guarantee, and an
// insert-time duplicate maps to the same ErrTenantAlreadyExists. The
// row is inserted pending and flipped to ready only after every DDL
// statement succeeded, so a tenant observed as ready always has a live
// schema.
func (p *Provisioner) CreateTenant(ctx context.Context, params CreateParams) (*tenant.Tenant, error) {
	start := time.Now()

	displayName := strings.TrimSpace(params.DisplayName)
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}

	if _, err := p.registry.GetByDisplayName(ctx, displayName); err == nil {
		return nil, ErrTenantAlreadyExists
	} else if !errors.Is(err, tenant.ErrTenantNotFound) {
		return nil, errors.Join(ErrProvisioningFailed, err)
	}

	id := uuid.New()
	t := &tenant.Tenant{
		ID:          id,
		SchemaName:  SchemaName(p.prefix, id),
		DisplayName: displayName,
		Description: params.Description,
		Active:      true,
		Status:      tenant.StatusPending,
		OwnerID:     params.OwnerID,
	}

	if err := p.registry.Create(ctx, t); err != nil {
		if errors.Is(err, registry.ErrAlreadyExists) {
			return nil, ErrTenantAlreadyExists
		}
		return nil, errors.Join(ErrProvisioningFailed, err)
	}

	for _, stmt := range ddlStatements(t.SchemaName) {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			p.log.ErrorContext(ctx, "Tenant schema DDL failed",
				logger.TenantID(t.ID.String()),
				logger.Schema(t.SchemaName),
				logger.Error(err),
			)
			p.compensate(ctx, t)
			return nil, errors.Join(ErrProvisioningFailed, err)
		}
	}

	if err := p.registry.MarkReady(ctx, id); err != nil {
		p.compensate(ctx, t)
		return nil, errors.Join(ErrProvisioningFailed, err)
	}
	t.Status = tenant.StatusReady

	p.log.InfoContext(ctx, "Tenant provisioned",
		logger.TenantID(t.ID.String()),
		logger.Schema(t.SchemaName),
		logger.Duration(time.Since(start)),
	)
	return t, nil
}

// compensate removes the partial schema and the pending registry row.
// Best effort: when the row cannot be deleted it is flagged failed so
// the binder never resolves it.
func (p *Provisioner) compensate(ctx context.Context, t *tenant.Tenant) {
	if _, err := p.db.Exec(ctx, dropSchemaStatement(t.SchemaName)); err != nil {
		p.log.ErrorContext(ctx, "Compensating schema drop failed",
			logger.Schema(t.SchemaName),
			logger.Error(err),
		)
	}
	if err := p.registry.Delete(ctx, t.ID); err != nil {
		p.log.ErrorContext(ctx, "Compensating registry delete failed",
			logger.TenantID(t.ID.String()),
			logger.Error(err),
		)
		if err := p.registry.MarkFailed(ctx, t.ID); err != nil {
			p.log.ErrorContext(ctx, "Flagging tenant as failed also failed",
				logger.TenantID(t.ID.String()),
				logger.Error(err),
			)
		}
	}
}
