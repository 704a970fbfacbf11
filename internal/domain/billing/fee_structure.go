package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassFeeStructure maps a fee type to a class for one session with the
// amount every enrolled student owes. One (session, class, fee type) pair
// carries at most one active structure row.
type ClassFeeStructure struct {
	shared.TenantAggregateRoot
	SessionID uuid.UUID       `json:"session_id"`
	ClassID   uuid.UUID       `json:"class_id"`
	FeeTypeID uuid.UUID       `json:"fee_type_id"`
	Amount    decimal.Decimal `json:"amount"`
	Active    bool            `json:"active"`
}

// NewClassFeeStructure creates a fee structure row for a class in a session
func NewClassFeeStructure(tenantID, sessionID, classID, feeTypeID uuid.UUID, amount decimal.Decimal) (*ClassFeeStructure, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLASS", "Class ID cannot be empty")
	}
	if feeTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE", "Fee type ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}

	return &ClassFeeStructure{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SessionID:           sessionID,
		ClassID:             classID,
		FeeTypeID:           feeTypeID,
		Amount:              amount,
		Active:              true,
	}, nil
}

// ChangeAmount updates the fee amount. Callers must first verify that no
// payment has been allocated against obligations materialized from this row.
func (s *ClassFeeStructure) ChangeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}
	s.Amount = amount
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate removes the mapping without touching materialized obligations
func (s *ClassFeeStructure) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
