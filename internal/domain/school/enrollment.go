package school

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StudentEnrollment is the read model of a student's class membership in one
// session. It is maintained from enrollment-lifecycle notifications delivered
// by the admission system; the billing core never performs enrollment logic
// itself. ClassID is nil for a student who currently has no class in the
// session (e.g. pending re-admission), in which case all of the student's
// non-carry-forward obligations are deactivated.
type StudentEnrollment struct {
	shared.TenantAggregateRoot
	StudentID uuid.UUID  `json:"student_id"`
	SessionID uuid.UUID  `json:"session_id"`
	ClassID   *uuid.UUID `json:"class_id"`
	ClassName string     `json:"class_name"`
	Active    bool       `json:"active"`
}

// NewStudentEnrollment creates an enrollment record for a student in a session
func NewStudentEnrollment(tenantID, studentID, sessionID uuid.UUID, classID *uuid.UUID, className string) (*StudentEnrollment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if classID != nil && *classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLASS", "Class ID cannot be the nil UUID")
	}

	return &StudentEnrollment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StudentID:           studentID,
		SessionID:           sessionID,
		ClassID:             classID,
		ClassName:           className,
		Active:              true,
	}, nil
}

// AssignClass moves the student to a different class within the session
func (e *StudentEnrollment) AssignClass(classID uuid.UUID, className string) error {
	if classID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLASS", "Class ID cannot be empty")
	}
	e.ClassID = &classID
	e.ClassName = className
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// RemoveClass clears the student's class mapping for the session
func (e *StudentEnrollment) RemoveClass() {
	e.ClassID = nil
	e.ClassName = ""
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// HasClass reports whether the student currently belongs to a class
func (e *StudentEnrollment) HasClass() bool {
	return e.ClassID != nil
}
