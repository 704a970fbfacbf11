package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConcessionBenefit is the discount a concession grants: either a percentage
// of the targeted obligations or a fixed amount. Exactly one form is set.
type ConcessionBenefit struct {
	kind  string
	value decimal.Decimal
}

const (
	benefitKindPercentage = "percentage"
	benefitKindFixed      = "fixed"
)

// NewPercentageBenefit creates a percentage discount in (0, 100]
func NewPercentageBenefit(percent decimal.Decimal) (ConcessionBenefit, error) {
	if !percent.IsPositive() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return ConcessionBenefit{}, shared.NewDomainError("INVALID_BENEFIT", "Percentage benefit must be between 0 and 100")
	}
	return ConcessionBenefit{kind: benefitKindPercentage, value: percent}, nil
}

// NewFixedBenefit creates a fixed-amount discount
func NewFixedBenefit(amount decimal.Decimal) (ConcessionBenefit, error) {
	if !amount.IsPositive() {
		return ConcessionBenefit{}, shared.NewDomainError("INVALID_BENEFIT", "Fixed benefit must be positive")
	}
	return ConcessionBenefit{kind: benefitKindFixed, value: amount}, nil
}

// BenefitFromParts reconstructs a benefit from its stored representation
func BenefitFromParts(kind string, value decimal.Decimal) (ConcessionBenefit, error) {
	switch kind {
	case benefitKindPercentage:
		return NewPercentageBenefit(value)
	case benefitKindFixed:
		return NewFixedBenefit(value)
	}
	return ConcessionBenefit{}, shared.NewDomainError("INVALID_BENEFIT", "Unknown benefit kind: "+kind)
}

// Kind returns the benefit kind for persistence
func (b ConcessionBenefit) Kind() string { return b.kind }

// Value returns the benefit value for persistence
func (b ConcessionBenefit) Value() decimal.Decimal { return b.value }

// IsPercentage reports whether the benefit is percentage-based
func (b ConcessionBenefit) IsPercentage() bool { return b.kind == benefitKindPercentage }

// PercentageOf applies a percentage benefit to a base amount, rounded to two
// decimal places. Only meaningful when IsPercentage is true.
func (b ConcessionBenefit) PercentageOf(base decimal.Decimal) decimal.Decimal {
	return base.Mul(b.value).Div(decimal.NewFromInt(100)).Round(2)
}

// StudentConcession is a discount granted to one student for a session.
// FeeTypeID scopes the concession to a single fee head; nil means the
// concession applies across all of the student's non-carry-forward
// obligations in the session.
type StudentConcession struct {
	shared.TenantAggregateRoot
	StudentID  uuid.UUID         `json:"student_id"`
	SessionID  uuid.UUID         `json:"session_id"`
	FeeTypeID  *uuid.UUID        `json:"fee_type_id"`
	Benefit    ConcessionBenefit `json:"-"`
	Reason     string            `json:"reason"`
	ApprovedBy string            `json:"approved_by"`
	Active     bool              `json:"active"`
}

// NewStudentConcession grants a concession to a student
func NewStudentConcession(tenantID, studentID, sessionID uuid.UUID, feeTypeID *uuid.UUID, benefit ConcessionBenefit, reason, approvedBy string) (*StudentConcession, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if feeTypeID != nil && *feeTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE", "Fee type ID cannot be the nil UUID")
	}
	if benefit.kind == "" {
		return nil, shared.NewDomainError("INVALID_BENEFIT", "Concession benefit is required")
	}
	if approvedBy == "" {
		return nil, shared.NewDomainError("INVALID_APPROVER", "Concession approver is required")
	}

	return &StudentConcession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StudentID:           studentID,
		SessionID:           sessionID,
		FeeTypeID:           feeTypeID,
		Benefit:             benefit,
		Reason:              reason,
		ApprovedBy:          approvedBy,
		Active:              true,
	}, nil
}

// Withdraw revokes the concession; the allocator removes its effect on the
// next recalculation.
func (c *StudentConcession) Withdraw() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
