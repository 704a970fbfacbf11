package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentSplit describes how an installment divides the session total:
// either a fixed amount or a percentage of the student's final payable.
// Exactly one of the two is set.
type InstallmentSplit struct {
	kind  string
	value decimal.Decimal
}

const (
	splitKindFixed      = "fixed"
	splitKindPercentage = "percentage"
)

// NewFixedSplit creates a split of a fixed amount
func NewFixedSplit(amount decimal.Decimal) (InstallmentSplit, error) {
	if !amount.IsPositive() {
		return InstallmentSplit{}, shared.NewDomainError("INVALID_SPLIT", "Fixed split amount must be positive")
	}
	return InstallmentSplit{kind: splitKindFixed, value: amount}, nil
}

// NewPercentageSplit creates a split of a percentage of the session payable
func NewPercentageSplit(percent decimal.Decimal) (InstallmentSplit, error) {
	if !percent.IsPositive() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return InstallmentSplit{}, shared.NewDomainError("INVALID_SPLIT", "Percentage split must be between 0 and 100")
	}
	return InstallmentSplit{kind: splitKindPercentage, value: percent}, nil
}

// SplitFromParts reconstructs a split from its stored representation
func SplitFromParts(kind string, value decimal.Decimal) (InstallmentSplit, error) {
	switch kind {
	case splitKindFixed:
		return NewFixedSplit(value)
	case splitKindPercentage:
		return NewPercentageSplit(value)
	}
	return InstallmentSplit{}, shared.NewDomainError("INVALID_SPLIT", "Unknown split kind: "+kind)
}

// Kind returns the split kind for persistence
func (s InstallmentSplit) Kind() string { return s.kind }

// Value returns the split value for persistence
func (s InstallmentSplit) Value() decimal.Decimal { return s.value }

// AmountOf resolves the split against a session payable total
func (s InstallmentSplit) AmountOf(sessionTotal decimal.Decimal) decimal.Decimal {
	if s.kind == splitKindPercentage {
		return sessionTotal.Mul(s.value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return s.value
}

// Installment is a scheduled collection window within a session. Payments
// made after DueDate accrue a per-day late fine; the fine stops accruing for
// amounts already collected under the installment.
type Installment struct {
	shared.TenantAggregateRoot
	SessionID  uuid.UUID         `json:"session_id"`
	Name       string            `json:"name"`
	DueDate    time.Time         `json:"due_date"`
	FinePerDay decimal.Decimal   `json:"fine_per_day"`
	Split      *InstallmentSplit `json:"-"`
	Active     bool              `json:"active"`
}

// NewInstallment creates an installment for a session
func NewInstallment(tenantID, sessionID uuid.UUID, name string, dueDate time.Time, finePerDay decimal.Decimal, split *InstallmentSplit) (*Installment, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_NAME", "Installment name cannot be empty")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Installment due date is required")
	}
	if finePerDay.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FINE", "Fine per day cannot be negative")
	}

	return &Installment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SessionID:           sessionID,
		Name:                name,
		DueDate:             dueDate,
		FinePerDay:          finePerDay,
		Split:               split,
		Active:              true,
	}, nil
}

// FineAccruedAsOf computes the raw fine accrued for this installment at the
// given instant, before subtracting fines already collected. Days are counted
// in whole 24-hour periods past the due date.
func (i *Installment) FineAccruedAsOf(asOf time.Time) decimal.Decimal {
	if i.FinePerDay.IsZero() || !asOf.After(i.DueDate) {
		return decimal.Zero
	}
	days := int64(asOf.Sub(i.DueDate).Hours() / 24)
	if days <= 0 {
		return decimal.Zero
	}
	return i.FinePerDay.Mul(decimal.NewFromInt(days))
}

// Deactivate removes the installment from future fine computation
func (i *Installment) Deactivate() {
	i.Active = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
