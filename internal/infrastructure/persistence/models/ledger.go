package models

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for the ledger Entry aggregate
// root. The unique index over (tenant, entry type, source kind, source ID)
// backs the idempotent get-or-create posting path.
type LedgerEntryModel struct {
	AggregateModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_posting_key,priority:1"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid;index"`
	EntryType      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_ledger_posting_key,priority:2"`
	SourceKind     string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_ledger_posting_key,priority:3"`
	SourceID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_posting_key,priority:4"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EntryDate      time.Time       `gorm:"not null;index"`
	Description    string          `gorm:"type:varchar(500)"`
	RelatedEntryID *uuid.UUID      `gorm:"type:uuid;index"`
	IsReversed     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain Entry.
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	entry := &ledger.Entry{
		EntryType:      m.EntryType,
		SourceKind:     m.SourceKind,
		SourceID:       m.SourceID,
		Amount:         m.Amount,
		EntryDate:      m.EntryDate,
		Description:    m.Description,
		RelatedEntryID: m.RelatedEntryID,
		IsReversed:     m.IsReversed,
	}
	entry.ID = m.ID
	entry.CreatedAt = m.CreatedAt
	entry.UpdatedAt = m.UpdatedAt
	entry.Version = m.Version
	entry.TenantID = m.TenantID
	entry.CreatedBy = m.CreatedBy
	return entry
}

// FromDomain populates the persistence model from a domain Entry.
func (m *LedgerEntryModel) FromDomain(e *ledger.Entry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.TenantID = e.TenantID
	m.CreatedBy = e.CreatedBy
	m.EntryType = e.EntryType
	m.SourceKind = e.SourceKind
	m.SourceID = e.SourceID
	m.Amount = e.Amount
	m.EntryDate = e.EntryDate
	m.Description = e.Description
	m.RelatedEntryID = e.RelatedEntryID
	m.IsReversed = e.IsReversed
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain Entry.
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}
