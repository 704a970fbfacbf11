package persistence

import (
	"context"
	"errors"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConcessionRepository implements billing.ConcessionRepository using GORM
type GormConcessionRepository struct {
	db *gorm.DB
}

// NewGormConcessionRepository creates a new GormConcessionRepository
func NewGormConcessionRepository(db *gorm.DB) *GormConcessionRepository {
	return &GormConcessionRepository{db: db}
}

// FindByIDForTenant finds a concession by ID within a tenant
func (r *GormConcessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.StudentConcession, error) {
	var model models.StudentConcessionModel
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

// FindActiveByStudentSession finds the active concessions of a student in a session
func (r *GormConcessionRepository) FindActiveByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentConcession, error) {
	var modelList []models.StudentConcessionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND session_id = ? AND active = ?",
			tenantID, studentID, sessionID, true).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	concessions := make([]billing.StudentConcession, len(modelList))
	for i, m := range modelList {
		concession, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		concessions[i] = *concession
	}
	return concessions, nil
}

// Save creates or updates a concession
func (r *GormConcessionRepository) Save(ctx context.Context, concession *billing.StudentConcession) error {
	model := models.StudentConcessionModelFromDomain(concession)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormConcessionRepository implements the interface
var _ billing.ConcessionRepository = (*GormConcessionRepository)(nil)
