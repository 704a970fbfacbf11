package ledger

import (
	"context"
	"time"

	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostingService posts and queries ledger entries. Posting is idempotent on
// the entry's composite key, so callers retry freely.
type PostingService struct {
	entries ledger.EntryRepository
	logger  *zap.Logger
}

// NewPostingService creates a new PostingService
func NewPostingService(entries ledger.EntryRepository, logger *zap.Logger) *PostingService {
	return &PostingService{entries: entries, logger: logger}
}

// PostEntryRequest posts one ledger entry
type PostEntryRequest struct {
	EntryType   string          `json:"entry_type" binding:"required,oneof=income expense refund reversal"`
	SourceKind  string          `json:"source_kind" binding:"required,oneof=fee_payment fee_refund"`
	SourceID    uuid.UUID       `json:"source_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	EntryDate   time.Time       `json:"entry_date"`
	Description string          `json:"description"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	EntryType      string          `json:"entry_type"`
	SourceKind     string          `json:"source_kind"`
	SourceID       uuid.UUID       `json:"source_id"`
	Amount         decimal.Decimal `json:"amount"`
	EntryDate      time.Time       `json:"entry_date"`
	Description    string          `json:"description,omitempty"`
	RelatedEntryID *uuid.UUID      `json:"related_entry_id,omitempty"`
	IsReversed     bool            `json:"is_reversed"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PostResult is the outcome of a posting attempt
type PostResult struct {
	Entry   EntryResponse `json:"entry"`
	Created bool          `json:"created"`
}

// Post writes the entry unless one already exists for its composite key, in
// which case the existing entry comes back with Created false.
func (s *PostingService) Post(ctx context.Context, tenantID uuid.UUID, req PostEntryRequest) (*PostResult, error) {
	entry, err := ledger.NewEntry(tenantID, req.EntryType, req.SourceKind, req.SourceID, req.Amount, req.EntryDate, req.Description)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.entries.GetOrCreate(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !created {
		s.logger.Debug("duplicate posting ignored",
			zap.String("entry_type", req.EntryType),
			zap.String("source_kind", req.SourceKind),
			zap.String("source_id", req.SourceID.String()))
	}

	return &PostResult{Entry: *toEntryResponse(stored), Created: created}, nil
}

// List returns a tenant's entries, optionally filtered by entry type
func (s *PostingService) List(ctx context.Context, tenantID uuid.UUID, entryType string, filter shared.Filter) (*shared.Paginated[EntryResponse], error) {
	page, err := s.entries.ListForTenant(ctx, tenantID, entryType, filter)
	if err != nil {
		return nil, err
	}
	items := make([]EntryResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toEntryResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// GetBySource returns every entry posted for one source record
func (s *PostingService) GetBySource(ctx context.Context, tenantID uuid.UUID, sourceKind string, sourceID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.entries.FindBySource(ctx, tenantID, sourceKind, sourceID)
	if err != nil {
		return nil, err
	}
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toEntryResponse(&entries[i]))
	}
	return responses, nil
}

func toEntryResponse(entry *ledger.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             entry.ID,
		EntryType:      entry.EntryType,
		SourceKind:     entry.SourceKind,
		SourceID:       entry.SourceID,
		Amount:         entry.Amount,
		EntryDate:      entry.EntryDate,
		Description:    entry.Description,
		RelatedEntryID: entry.RelatedEntryID,
		IsReversed:     entry.IsReversed,
		CreatedAt:      entry.CreatedAt,
	}
}
