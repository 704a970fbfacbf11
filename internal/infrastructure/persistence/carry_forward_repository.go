package persistence

import (
	"context"
	"errors"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCarryForwardRepository implements billing.CarryForwardRepository using GORM
type GormCarryForwardRepository struct {
	db *gorm.DB
}

// NewGormCarryForwardRepository creates a new GormCarryForwardRepository
func NewGormCarryForwardRepository(db *gorm.DB) *GormCarryForwardRepository {
	return &GormCarryForwardRepository{db: db}
}

// FindByIDForTenant finds a carry-forward due by ID within a tenant
func (r *GormCarryForwardRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.CarryForwardDue, error) {
	var model models.CarryForwardDueModel
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

// FindByTransition finds the carry-forward due of a student for one
// session-to-session transition. The unique index over the transition key
// guarantees at most one row.
func (r *GormCarryForwardRepository) FindByTransition(ctx context.Context, tenantID, studentID, fromSessionID, toSessionID uuid.UUID) (*billing.CarryForwardDue, error) {
	var model models.CarryForwardDueModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND from_session_id = ? AND to_session_id = ?",
			tenantID, studentID, fromSessionID, toSessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByStudentToSession finds all active carry-forward dues landing in
// the given session for a student, oldest first so settlements drain them in
// generation order
func (r *GormCarryForwardRepository) FindActiveByStudentToSession(ctx context.Context, tenantID, studentID, toSessionID uuid.UUID) ([]billing.CarryForwardDue, error) {
	var modelList []models.CarryForwardDueModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND to_session_id = ? AND active = ?",
			tenantID, studentID, toSessionID, true).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	dues := make([]billing.CarryForwardDue, len(modelList))
	for i, m := range modelList {
		dues[i] = *m.ToDomain()
	}
	return dues, nil
}

// Save creates or updates a carry-forward due
func (r *GormCarryForwardRepository) Save(ctx context.Context, due *billing.CarryForwardDue) error {
	model := models.CarryForwardDueModelFromDomain(due)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormCarryForwardRepository implements the interface
var _ billing.CarryForwardRepository = (*GormCarryForwardRepository)(nil)
