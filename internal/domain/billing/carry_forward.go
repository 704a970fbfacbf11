package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarryForwardDue records the unpaid balance a student brings from one
// session into the next. Amount is the snapshot taken at generation time;
// SettledAmount accumulates as payments are allocated against the
// carry-forward obligation in the destination session.
type CarryForwardDue struct {
	shared.TenantAggregateRoot
	StudentID     uuid.UUID       `json:"student_id"`
	FromSessionID uuid.UUID       `json:"from_session_id"`
	ToSessionID   uuid.UUID       `json:"to_session_id"`
	Amount        decimal.Decimal `json:"amount"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	Active        bool            `json:"active"`
}

// NewCarryForwardDue snapshots a student's outstanding balance into the next session
func NewCarryForwardDue(tenantID, studentID, fromSessionID, toSessionID uuid.UUID, amount decimal.Decimal) (*CarryForwardDue, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if fromSessionID == uuid.Nil || toSessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Source and destination session IDs are required")
	}
	if fromSessionID == toSessionID {
		return nil, shared.NewDomainError("INVALID_SESSION", "Source and destination sessions must differ")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Carry-forward amount must be positive")
	}

	return &CarryForwardDue{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StudentID:           studentID,
		FromSessionID:       fromSessionID,
		ToSessionID:         toSessionID,
		Amount:              amount,
		SettledAmount:       decimal.Zero,
		Active:              true,
	}, nil
}

// UpdateAmount re-snapshots the carried balance. Allowed only while nothing
// has been settled against it; once money has moved the record is frozen and
// corrections go through reversals.
func (c *CarryForwardDue) UpdateAmount(amount decimal.Decimal) error {
	if c.SettledAmount.IsPositive() {
		return shared.ErrImmutableRecord
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Carry-forward amount must be positive")
	}
	c.Amount = amount
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AddSettlement records a payment allocation against the carried balance
func (c *CarryForwardDue) AddSettlement(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	next := c.SettledAmount.Add(amount)
	if next.GreaterThan(c.Amount) {
		return shared.NewDomainError("OVER_SETTLEMENT", "Settlement would exceed the carried amount")
	}
	c.SettledAmount = next
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// RemoveSettlement rolls back a settlement after a payment reversal
func (c *CarryForwardDue) RemoveSettlement(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	next := c.SettledAmount.Sub(amount)
	if next.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Cannot remove more than was settled")
	}
	c.SettledAmount = next
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Remaining returns the unsettled part of the carried balance
func (c *CarryForwardDue) Remaining() decimal.Decimal {
	return c.Amount.Sub(c.SettledAmount)
}
