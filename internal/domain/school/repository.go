package school

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for academic session persistence
type SessionRepository interface {
	// FindByIDForTenant finds a session by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AcademicSession, error)

	// FindActiveForTenant finds all active sessions for a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]AcademicSession, error)

	// Save creates or updates a session
	Save(ctx context.Context, session *AcademicSession) error
}

// EnrollmentRepository defines the interface for student enrollment persistence
type EnrollmentRepository interface {
	// FindByStudentSession finds the enrollment of a student in a session
	FindByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) (*StudentEnrollment, error)

	// FindBySessionClass finds all active enrollments of a class in a session
	FindBySessionClass(ctx context.Context, tenantID, sessionID, classID uuid.UUID) ([]StudentEnrollment, error)

	// Save creates or updates an enrollment
	Save(ctx context.Context, enrollment *StudentEnrollment) error
}
