package models

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/google/uuid"
)

// AcademicSessionModel is the persistence model for the AcademicSession
// aggregate root. The tenant ID is declared directly so it can join the
// unique index that scopes session codes per school.
type AcademicSessionModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_session_tenant_code,priority:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(100);not null"`
	Code      string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_session_tenant_code,priority:2"`
	StartDate time.Time  `gorm:"not null"`
	EndDate   time.Time  `gorm:"not null"`
	Active    bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AcademicSessionModel) TableName() string {
	return "academic_sessions"
}

// ToDomain converts the persistence model to a domain AcademicSession.
func (m *AcademicSessionModel) ToDomain() *school.AcademicSession {
	session := &school.AcademicSession{
		Name:      m.Name,
		Code:      m.Code,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Active:    m.Active,
	}
	session.ID = m.ID
	session.CreatedAt = m.CreatedAt
	session.UpdatedAt = m.UpdatedAt
	session.Version = m.Version
	session.TenantID = m.TenantID
	session.CreatedBy = m.CreatedBy
	return session
}

// FromDomain populates the persistence model from a domain AcademicSession.
func (m *AcademicSessionModel) FromDomain(s *school.AcademicSession) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.TenantID = s.TenantID
	m.CreatedBy = s.CreatedBy
	m.Name = s.Name
	m.Code = s.Code
	m.StartDate = s.StartDate
	m.EndDate = s.EndDate
	m.Active = s.Active
}

// AcademicSessionModelFromDomain creates a new persistence model from a domain AcademicSession.
func AcademicSessionModelFromDomain(s *school.AcademicSession) *AcademicSessionModel {
	m := &AcademicSessionModel{}
	m.FromDomain(s)
	return m
}

// StudentEnrollmentModel is the persistence model for the StudentEnrollment aggregate root.
type StudentEnrollmentModel struct {
	TenantAggregateModel
	StudentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_session,priority:1"`
	SessionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_session,priority:2;index"`
	ClassID   *uuid.UUID `gorm:"type:uuid;index"`
	ClassName string     `gorm:"type:varchar(100)"`
	Active    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StudentEnrollmentModel) TableName() string {
	return "student_enrollments"
}

// ToDomain converts the persistence model to a domain StudentEnrollment.
func (m *StudentEnrollmentModel) ToDomain() *school.StudentEnrollment {
	return &school.StudentEnrollment{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		StudentID:           m.StudentID,
		SessionID:           m.SessionID,
		ClassID:             m.ClassID,
		ClassName:           m.ClassName,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain StudentEnrollment.
func (m *StudentEnrollmentModel) FromDomain(e *school.StudentEnrollment) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.StudentID = e.StudentID
	m.SessionID = e.SessionID
	m.ClassID = e.ClassID
	m.ClassName = e.ClassName
	m.Active = e.Active
}

// StudentEnrollmentModelFromDomain creates a new persistence model from a domain StudentEnrollment.
func StudentEnrollmentModelFromDomain(e *school.StudentEnrollment) *StudentEnrollmentModel {
	m := &StudentEnrollmentModel{}
	m.FromDomain(e)
	return m
}
