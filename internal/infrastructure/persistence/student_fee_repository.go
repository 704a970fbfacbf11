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

// allocationOrder is the waterfall order: the carry-forward row first, then
// the remaining heads alphabetically. The trailing id keeps the order stable
// when two heads share a name.
const allocationOrder = "is_carry_forward DESC, fee_type_name ASC, id ASC"

// GormStudentFeeRepository implements billing.StudentFeeRepository using GORM
type GormStudentFeeRepository struct {
	db *gorm.DB
}

// NewGormStudentFeeRepository creates a new GormStudentFeeRepository
func NewGormStudentFeeRepository(db *gorm.DB) *GormStudentFeeRepository {
	return &GormStudentFeeRepository{db: db}
}

// FindByIDForTenant finds an obligation by ID within a tenant
func (r *GormStudentFeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.StudentFee, error) {
	var model models.StudentFeeModel
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

// FindByKey finds the obligation for a (student, session, fee type) triple, active or not
func (r *GormStudentFeeRepository) FindByKey(ctx context.Context, tenantID, studentID, sessionID, feeTypeID uuid.UUID) (*billing.StudentFee, error) {
	var model models.StudentFeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND session_id = ? AND fee_type_id = ?",
			tenantID, studentID, sessionID, feeTypeID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStudentSession finds all obligations of a student in a session, active or not
func (r *GormStudentFeeRepository) FindByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	var modelList []models.StudentFeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND session_id = ?", tenantID, studentID, sessionID).
		Order(allocationOrder).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toStudentFees(modelList), nil
}

// FindActiveByStudentSession finds the active obligations of a student in a
// session in allocation order
func (r *GormStudentFeeRepository) FindActiveByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	return r.findActive(ctx, r.db, tenantID, studentID, sessionID)
}

// FindActiveByStudentSessionForUpdate is FindActiveByStudentSession with a
// row-level lock. Collection and reversal both take it first, serializing
// concurrent money movements per student.
func (r *GormStudentFeeRepository) FindActiveByStudentSessionForUpdate(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	return r.findActive(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, studentID, sessionID)
}

func (r *GormStudentFeeRepository) findActive(ctx context.Context, db *gorm.DB, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	var modelList []models.StudentFeeModel
	if err := db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND session_id = ? AND active = ?",
			tenantID, studentID, sessionID, true).
		Order(allocationOrder).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toStudentFees(modelList), nil
}

// HasObligations reports whether any obligation has been materialized from
// the given fee structure row. Deactivated rows count too; once a student has
// been billed from the structure its amount is history, not configuration.
func (r *GormStudentFeeRepository) HasObligations(ctx context.Context, tenantID, sessionID, classID, feeTypeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentFeeModel{}).
		Joins("JOIN student_enrollments ON student_enrollments.tenant_id = student_fees.tenant_id"+
			" AND student_enrollments.student_id = student_fees.student_id"+
			" AND student_enrollments.session_id = student_fees.session_id").
		Where("student_fees.tenant_id = ? AND student_fees.session_id = ? AND student_fees.fee_type_id = ?",
			tenantID, sessionID, feeTypeID).
		Where("student_enrollments.class_id = ?", classID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an obligation
func (r *GormStudentFeeRepository) Save(ctx context.Context, fee *billing.StudentFee) error {
	model := models.StudentFeeModelFromDomain(fee)
	return r.db.WithContext(ctx).Save(model).Error
}

func toStudentFees(modelList []models.StudentFeeModel) []billing.StudentFee {
	fees := make([]billing.StudentFee, len(modelList))
	for i, m := range modelList {
		fees[i] = *m.ToDomain()
	}
	return fees
}

// Ensure GormStudentFeeRepository implements the interface
var _ billing.StudentFeeRepository = (*GormStudentFeeRepository)(nil)
