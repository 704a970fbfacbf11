package persistence

import (
	"context"
	"errors"

	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements school.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByIDForTenant finds a session by ID within a tenant
func (r *GormSessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*school.AcademicSession, error) {
	var model models.AcademicSessionModel
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

// FindActiveForTenant finds all active sessions for a tenant
func (r *GormSessionRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]school.AcademicSession, error) {
	var modelList []models.AcademicSessionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("start_date DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	sessions := make([]school.AcademicSession, len(modelList))
	for i, m := range modelList {
		sessions[i] = *m.ToDomain()
	}
	return sessions, nil
}

// Save creates or updates a session
func (r *GormSessionRepository) Save(ctx context.Context, session *school.AcademicSession) error {
	model := models.AcademicSessionModelFromDomain(session)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormEnrollmentRepository implements school.EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// FindByStudentSession finds the enrollment of a student in a session
func (r *GormEnrollmentRepository) FindByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) (*school.StudentEnrollment, error) {
	var model models.StudentEnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND student_id = ? AND session_id = ?", tenantID, studentID, sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySessionClass finds all active enrollments of a class in a session
func (r *GormEnrollmentRepository) FindBySessionClass(ctx context.Context, tenantID, sessionID, classID uuid.UUID) ([]school.StudentEnrollment, error) {
	var modelList []models.StudentEnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ? AND class_id = ? AND active = ?", tenantID, sessionID, classID, true).
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	enrollments := make([]school.StudentEnrollment, len(modelList))
	for i, m := range modelList {
		enrollments[i] = *m.ToDomain()
	}
	return enrollments, nil
}

// Save creates or updates an enrollment
func (r *GormEnrollmentRepository) Save(ctx context.Context, enrollment *school.StudentEnrollment) error {
	model := models.StudentEnrollmentModelFromDomain(enrollment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure the repositories implement their interfaces
var (
	_ school.SessionRepository    = (*GormSessionRepository)(nil)
	_ school.EnrollmentRepository = (*GormEnrollmentRepository)(nil)
)
