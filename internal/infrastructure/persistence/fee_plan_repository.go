package persistence

import (
	"context"
	"errors"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeeTypeRepository implements billing.FeeTypeRepository using GORM
type GormFeeTypeRepository struct {
	db *gorm.DB
}

// NewGormFeeTypeRepository creates a new GormFeeTypeRepository
func NewGormFeeTypeRepository(db *gorm.DB) *GormFeeTypeRepository {
	return &GormFeeTypeRepository{db: db}
}

// FindByIDForTenant finds a fee type by ID within a tenant
func (r *GormFeeTypeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.FeeType, error) {
	var model models.FeeTypeModel
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

// FindByNameForTenant finds a fee type by exact name
func (r *GormFeeTypeRepository) FindByNameForTenant(ctx context.Context, tenantID uuid.UUID, name string) (*billing.FeeType, error) {
	var model models.FeeTypeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetOrCreateByName returns the named fee type, creating it if absent. The
// insert races are resolved by the (tenant, name) unique index: a conflicting
// insert is a no-op and the existing row is fetched afterwards.
func (r *GormFeeTypeRepository) GetOrCreateByName(ctx context.Context, tenantID uuid.UUID, name, category string) (*billing.FeeType, error) {
	existing, err := r.FindByNameForTenant(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	feeType, err := billing.NewFeeType(tenantID, name, category)
	if err != nil {
		return nil, err
	}

	model := models.FeeTypeModelFromDomain(feeType)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race, fetch the winner
		return r.FindByNameForTenant(ctx, tenantID, name)
	}
	return feeType, nil
}

// Save creates or updates a fee type
func (r *GormFeeTypeRepository) Save(ctx context.Context, feeType *billing.FeeType) error {
	model := models.FeeTypeModelFromDomain(feeType)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormClassFeeStructureRepository implements billing.ClassFeeStructureRepository using GORM
type GormClassFeeStructureRepository struct {
	db *gorm.DB
}

// NewGormClassFeeStructureRepository creates a new GormClassFeeStructureRepository
func NewGormClassFeeStructureRepository(db *gorm.DB) *GormClassFeeStructureRepository {
	return &GormClassFeeStructureRepository{db: db}
}

// FindByIDForTenant finds a structure row by ID within a tenant
func (r *GormClassFeeStructureRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.ClassFeeStructure, error) {
	var model models.ClassFeeStructureModel
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

// FindActiveBySessionClass finds the active structure rows for a class in a session
func (r *GormClassFeeStructureRepository) FindActiveBySessionClass(ctx context.Context, tenantID, sessionID, classID uuid.UUID) ([]billing.ClassFeeStructure, error) {
	var modelList []models.ClassFeeStructureModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ? AND class_id = ? AND active = ?", tenantID, sessionID, classID, true).
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	structures := make([]billing.ClassFeeStructure, len(modelList))
	for i, m := range modelList {
		structures[i] = *m.ToDomain()
	}
	return structures, nil
}

// Save creates or updates a structure row
func (r *GormClassFeeStructureRepository) Save(ctx context.Context, structure *billing.ClassFeeStructure) error {
	model := models.ClassFeeStructureModelFromDomain(structure)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormInstallmentRepository implements billing.InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByIDForTenant finds an installment by ID within a tenant
func (r *GormInstallmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Installment, error) {
	var model models.InstallmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindActiveBySession finds the active installments of a session ordered by due date
func (r *GormInstallmentRepository) FindActiveBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]billing.Installment, error) {
	var modelList []models.InstallmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ? AND active = ?", tenantID, sessionID, true).
		Order("due_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	installments := make([]billing.Installment, len(modelList))
	for i, m := range modelList {
		installment, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		installments[i] = *installment
	}
	return installments, nil
}

// Save creates or updates an installment
func (r *GormInstallmentRepository) Save(ctx context.Context, installment *billing.Installment) error {
	model := models.InstallmentModelFromDomain(installment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure the repositories implement their interfaces
var (
	_ billing.FeeTypeRepository           = (*GormFeeTypeRepository)(nil)
	_ billing.ClassFeeStructureRepository = (*GormClassFeeStructureRepository)(nil)
	_ billing.InstallmentRepository       = (*GormInstallmentRepository)(nil)
)
