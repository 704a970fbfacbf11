package ledger

import (
	"context"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryRepository defines the interface for ledger entry persistence
type EntryRepository interface {
	// FindByIDForTenant finds an entry by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)

	// GetOrCreate inserts the entry unless one already exists for its
	// (tenant, entry type, source kind, source ID) key. Returns the stored
	// entry and whether this call created it.
	GetOrCreate(ctx context.Context, entry *Entry) (*Entry, bool, error)

	// FindBySource finds all entries posted for one source record
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceKind string, sourceID uuid.UUID) ([]Entry, error)

	// ListForTenant lists a tenant's entries, optionally filtered by type,
	// newest first
	ListForTenant(ctx context.Context, tenantID uuid.UUID, entryType string, filter shared.Filter) (shared.Paginated[Entry], error)

	// Save updates an existing entry's reversal flag
	Save(ctx context.Context, entry *Entry) error
}
