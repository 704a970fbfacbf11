package ledger

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry types
const (
	EntryTypeIncome   = "income"
	EntryTypeExpense  = "expense"
	EntryTypeRefund   = "refund"
	EntryTypeReversal = "reversal"
)

// Source kinds
const (
	SourceFeePayment = "fee_payment"
	SourceFeeRefund  = "fee_refund"
)

// Entry is one append-only line in the school's financial ledger. The
// composite key (tenant, entry type, source kind, source ID) identifies a
// posting: posting the same business event twice yields the existing entry
// instead of a duplicate.
//
// Entries are never updated or deleted. A mistake is corrected by posting a
// compensating entry that points back through RelatedEntryID; the original is
// flagged IsReversed so balance queries can exclude the pair.
type Entry struct {
	shared.TenantAggregateRoot
	EntryType      string          `json:"entry_type"`
	SourceKind     string          `json:"source_kind"`
	SourceID       uuid.UUID       `json:"source_id"`
	Amount         decimal.Decimal `json:"amount"`
	EntryDate      time.Time       `json:"entry_date"`
	Description    string          `json:"description"`
	RelatedEntryID *uuid.UUID      `json:"related_entry_id"`
	IsReversed     bool            `json:"is_reversed"`
}

// NewEntry creates a ledger entry
func NewEntry(tenantID uuid.UUID, entryType, sourceKind string, sourceID uuid.UUID, amount decimal.Decimal, entryDate time.Time, description string) (*Entry, error) {
	if !isValidEntryType(entryType) {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type must be income, expense, refund or reversal")
	}
	if !isValidSourceKind(sourceKind) {
		return nil, shared.NewDomainError("INVALID_SOURCE_KIND", "Source kind must be fee_payment or fee_refund")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	return &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryType:           entryType,
		SourceKind:          sourceKind,
		SourceID:            sourceID,
		Amount:              amount,
		EntryDate:           entryDate,
		Description:         description,
	}, nil
}

// LinkTo points a compensating entry back at the entry it reverses
func (e *Entry) LinkTo(originalID uuid.UUID) error {
	if originalID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENTRY", "Related entry ID cannot be empty")
	}
	e.RelatedEntryID = &originalID
	return nil
}

// MarkReversed flags the entry as compensated. One-way; the flag never clears.
func (e *Entry) MarkReversed() error {
	if e.IsReversed {
		return shared.ErrAlreadyReversed
	}
	e.IsReversed = true
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Signed returns the entry amount with its balance sign: income is positive,
// everything else negative.
func (e *Entry) Signed() decimal.Decimal {
	if e.EntryType == EntryTypeIncome {
		return e.Amount
	}
	return e.Amount.Neg()
}

func isValidEntryType(entryType string) bool {
	switch entryType {
	case EntryTypeIncome, EntryTypeExpense, EntryTypeRefund, EntryTypeReversal:
		return true
	}
	return false
}

func isValidSourceKind(kind string) bool {
	switch kind {
	case SourceFeePayment, SourceFeeRefund:
		return true
	}
	return false
}
