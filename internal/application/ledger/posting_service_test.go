package ledger

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEntryRepo struct {
	items map[uuid.UUID]*ledger.Entry
	byKey map[string]uuid.UUID
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{
		items: make(map[uuid.UUID]*ledger.Entry),
		byKey: make(map[string]uuid.UUID),
	}
}

func key(e *ledger.Entry) string {
	return e.TenantID.String() + "|" + e.EntryType + "|" + e.SourceKind + "|" + e.SourceID.String()
}

func (r *fakeEntryRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	e := r.items[id]
	if e == nil || e.TenantID != tenantID {
		return nil, nil
	}
	return e, nil
}

func (r *fakeEntryRepo) GetOrCreate(_ context.Context, entry *ledger.Entry) (*ledger.Entry, bool, error) {
	if id, ok := r.byKey[key(entry)]; ok {
		return r.items[id], false, nil
	}
	r.items[entry.ID] = entry
	r.byKey[key(entry)] = entry.ID
	return entry, true, nil
}

func (r *fakeEntryRepo) FindBySource(_ context.Context, tenantID uuid.UUID, sourceKind string, sourceID uuid.UUID) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range r.items {
		if e.TenantID == tenantID && e.SourceKind == sourceKind && e.SourceID == sourceID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *fakeEntryRepo) ListForTenant(_ context.Context, tenantID uuid.UUID, entryType string, filter shared.Filter) (shared.Paginated[ledger.Entry], error) {
	var out []ledger.Entry
	for _, e := range r.items {
		if e.TenantID != tenantID {
			continue
		}
		if entryType != "" && e.EntryType != entryType {
			continue
		}
		out = append(out, *e)
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (r *fakeEntryRepo) Save(_ context.Context, entry *ledger.Entry) error {
	r.items[entry.ID] = entry
	return nil
}

var _ ledger.EntryRepository = (*fakeEntryRepo)(nil)

func TestPostingService_Post(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	paymentID := uuid.New()

	req := PostEntryRequest{
		EntryType:   ledger.EntryTypeIncome,
		SourceKind:  ledger.SourceFeePayment,
		SourceID:    paymentID,
		Amount:      decimal.NewFromInt(5100),
		EntryDate:   time.Now(),
		Description: "fee collection",
	}

	t.Run("posting the same event twice yields one entry", func(t *testing.T) {
		repo := newFakeEntryRepo()
		service := NewPostingService(repo, zap.NewNop())

		first, err := service.Post(ctx, tenantID, req)
		require.NoError(t, err)
		assert.True(t, first.Created)

		second, err := service.Post(ctx, tenantID, req)
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.Entry.ID, second.Entry.ID)
		assert.Len(t, repo.items, 1)
	})

	t.Run("different entry types for one source are distinct postings", func(t *testing.T) {
		repo := newFakeEntryRepo()
		service := NewPostingService(repo, zap.NewNop())

		_, err := service.Post(ctx, tenantID, req)
		require.NoError(t, err)

		reversal := req
		reversal.EntryType = ledger.EntryTypeReversal
		result, err := service.Post(ctx, tenantID, reversal)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Len(t, repo.items, 2)
	})

	t.Run("tenants never share postings", func(t *testing.T) {
		repo := newFakeEntryRepo()
		service := NewPostingService(repo, zap.NewNop())

		_, err := service.Post(ctx, tenantID, req)
		require.NoError(t, err)

		other, err := service.Post(ctx, uuid.New(), req)
		require.NoError(t, err)
		assert.True(t, other.Created)
	})

	t.Run("invalid entry rejected", func(t *testing.T) {
		repo := newFakeEntryRepo()
		service := NewPostingService(repo, zap.NewNop())

		bad := req
		bad.Amount = decimal.Zero
		_, err := service.Post(ctx, tenantID, bad)
		assert.Error(t, err)
	})
}

func TestPostingService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := newFakeEntryRepo()
	service := NewPostingService(repo, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := service.Post(ctx, tenantID, PostEntryRequest{
			EntryType:  ledger.EntryTypeIncome,
			SourceKind: ledger.SourceFeePayment,
			SourceID:   uuid.New(),
			Amount:     decimal.NewFromInt(100),
		})
		require.NoError(t, err)
	}
	_, err := service.Post(ctx, tenantID, PostEntryRequest{
		EntryType:  ledger.EntryTypeRefund,
		SourceKind: ledger.SourceFeeRefund,
		SourceID:   uuid.New(),
		Amount:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	all, err := service.List(ctx, tenantID, "", shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)

	refunds, err := service.List(ctx, tenantID, ledger.EntryTypeRefund, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), refunds.Total)
}
