package school

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AcademicSession represents one academic year/term of a school.
// Fee structures, installments and student obligations are all scoped to a
// session; the carry-forward engine uses EndDate as its as-of instant.
type AcademicSession struct {
	shared.TenantAggregateRoot
	Name      string    `json:"name"`
	Code      string    `json:"code"` // short code used in receipt numbers, e.g. "2026-27"
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Active    bool      `json:"active"`
}

// NewAcademicSession creates a new academic session
func NewAcademicSession(tenantID uuid.UUID, name, code string, startDate, endDate time.Time) (*AcademicSession, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SESSION_NAME", "Session name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SESSION_CODE", "Session code cannot be empty")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SESSION_DATES", "Session start and end dates are required")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_SESSION_DATES", "Session end date must be after start date")
	}

	return &AcademicSession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		StartDate:           startDate,
		EndDate:             endDate,
		Active:              true,
	}, nil
}

// Close marks the session as no longer active. Closed sessions keep their
// financial history; new obligations are only materialized in active sessions.
func (s *AcademicSession) Close() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Contains reports whether the given instant falls within the session.
func (s *AcademicSession) Contains(t time.Time) bool {
	return !t.Before(s.StartDate) && !t.After(s.EndDate)
}
