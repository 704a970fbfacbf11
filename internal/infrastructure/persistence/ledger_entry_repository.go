package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerEntryRepository implements ledger.EntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByIDForTenant finds an entry by ID within a tenant
func (r *GormLedgerEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetOrCreate inserts the entry unless one already exists for its posting key.
// The insert races on the unique index; a conflicting insert is a no-op and
// the existing entry is fetched afterwards.
func (r *GormLedgerEntryRepository) GetOrCreate(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, bool, error) {
	model := models.LedgerEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "entry_type"}, {Name: "source_kind"}, {Name: "source_id"},
			},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return entry, true, nil
	}

	var existing models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entry_type = ? AND source_kind = ? AND source_id = ?",
			entry.TenantID, entry.EntryType, entry.SourceKind, entry.SourceID).
		First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("fetching existing ledger entry after conflict: %w", err)
	}
	return existing.ToDomain(), false, nil
}

// FindBySource finds all entries posted for one source record, oldest first
func (r *GormLedgerEntryRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceKind string, sourceID uuid.UUID) ([]ledger.Entry, error) {
	var modelList []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_kind = ? AND source_id = ?", tenantID, sourceKind, sourceID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry, len(modelList))
	for i, m := range modelList {
		entries[i] = *m.ToDomain()
	}
	return entries, nil
}

// ListForTenant lists a tenant's entries, optionally filtered by type, newest first
func (r *GormLedgerEntryRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, entryType string, filter shared.Filter) (shared.Paginated[ledger.Entry], error) {
	base := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ?", tenantID)
	if entryType != "" {
		base = base.Where("entry_type = ?", entryType)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[ledger.Entry]{}, err
	}

	query := base.Order("entry_date DESC, created_at DESC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	var modelList []models.LedgerEntryModel
	if err := query.Find(&modelList).Error; err != nil {
		return shared.Paginated[ledger.Entry]{}, err
	}

	entries := make([]ledger.Entry, len(modelList))
	for i, m := range modelList {
		entries[i] = *m.ToDomain()
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// Save updates an existing entry's reversal flag
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormLedgerEntryRepository implements the interface
var _ ledger.EntryRepository = (*GormLedgerEntryRepository)(nil)
