package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeTypeRepository_GetOrCreateByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFeeTypeRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()

	t.Run("creates the fee type on first use", func(t *testing.T) {
		feeType, err := repo.GetOrCreateByName(ctx, tenantID, "Tuition Fee", "academic")
		require.NoError(t, err)
		require.NotNil(t, feeType)
		assert.Equal(t, "Tuition Fee", feeType.Name)
		assert.Equal(t, "academic", feeType.Category)
	})

	t.Run("returns the existing row on repeat calls", func(t *testing.T) {
		first, err := repo.GetOrCreateByName(ctx, tenantID, "Bus Fee", "transport")
		require.NoError(t, err)
		second, err := repo.GetOrCreateByName(ctx, tenantID, "Bus Fee", "transport")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("same name in another tenant is a separate row", func(t *testing.T) {
		mine, err := repo.GetOrCreateByName(ctx, tenantID, "Lab Fee", "academic")
		require.NoError(t, err)
		theirs, err := repo.GetOrCreateByName(ctx, uuid.New(), "Lab Fee", "academic")
		require.NoError(t, err)
		assert.NotEqual(t, mine.ID, theirs.ID)
	})
}

func TestInstallmentRepository_FindActiveBySession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInstallmentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	sessionID := uuid.New()
	base := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	// Seed out of due-date order
	for _, tc := range []struct {
		name    string
		dueDays int
	}{
		{"Term 2", 90},
		{"Term 1", 0},
		{"Term 3", 180},
	} {
		installment, err := billing.NewInstallment(tenantID, sessionID, tc.name, base.AddDate(0, 0, tc.dueDays), decimal.NewFromInt(10), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, installment))
	}

	inactive, err := billing.NewInstallment(tenantID, sessionID, "Dropped", base.AddDate(0, 0, 45), decimal.Zero, nil)
	require.NoError(t, err)
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	installments, err := repo.FindActiveBySession(ctx, tenantID, sessionID)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	assert.Equal(t, "Term 1", installments[0].Name)
	assert.Equal(t, "Term 2", installments[1].Name)
	assert.Equal(t, "Term 3", installments[2].Name)
}
