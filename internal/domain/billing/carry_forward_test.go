package billing

import (
	"testing"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCarryForward(t *testing.T, amount int64) *CarryForwardDue {
	t.Helper()
	due, err := NewCarryForwardDue(uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(amount))
	require.NoError(t, err)
	return due
}

func TestNewCarryForwardDue(t *testing.T) {
	t.Run("creates valid carry-forward", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)

		assert.True(t, due.Amount.Equal(decimal.NewFromInt(4500)))
		assert.True(t, due.SettledAmount.IsZero())
		assert.True(t, due.Remaining().Equal(decimal.NewFromInt(4500)))
		assert.True(t, due.Active)
	})

	t.Run("rejects identical sessions", func(t *testing.T) {
		sessionID := uuid.New()
		due, err := NewCarryForwardDue(uuid.New(), uuid.New(), sessionID, sessionID, decimal.NewFromInt(100))

		assert.Error(t, err)
		assert.Nil(t, due)
		assert.Contains(t, err.Error(), "must differ")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		due, err := NewCarryForwardDue(uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.Zero)

		assert.Error(t, err)
		assert.Nil(t, due)
	})
}

func TestCarryForwardDue_UpdateAmount(t *testing.T) {
	t.Run("updates while unsettled", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)

		require.NoError(t, due.UpdateAmount(decimal.NewFromInt(5200)))

		assert.True(t, due.Amount.Equal(decimal.NewFromInt(5200)))
	})

	t.Run("frozen once settlement begins", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)
		require.NoError(t, due.AddSettlement(decimal.NewFromInt(1000)))

		err := due.UpdateAmount(decimal.NewFromInt(6000))

		assert.ErrorIs(t, err, shared.ErrImmutableRecord)
		assert.True(t, due.Amount.Equal(decimal.NewFromInt(4500)))
	})
}

func TestCarryForwardDue_Settlement(t *testing.T) {
	t.Run("accumulates settlements up to the carried amount", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)

		require.NoError(t, due.AddSettlement(decimal.NewFromInt(3000)))
		require.NoError(t, due.AddSettlement(decimal.NewFromInt(1500)))

		assert.True(t, due.Remaining().IsZero())
	})

	t.Run("rejects over-settlement", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)

		err := due.AddSettlement(decimal.NewFromInt(4501))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceed")
		assert.True(t, due.SettledAmount.IsZero())
	})

	t.Run("removes settlement after a reversal", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)
		require.NoError(t, due.AddSettlement(decimal.NewFromInt(3000)))

		require.NoError(t, due.RemoveSettlement(decimal.NewFromInt(3000)))

		assert.True(t, due.SettledAmount.IsZero())
	})

	t.Run("cannot remove more than was settled", func(t *testing.T) {
		due := newTestCarryForward(t, 4500)
		require.NoError(t, due.AddSettlement(decimal.NewFromInt(1000)))

		err := due.RemoveSettlement(decimal.NewFromInt(2000))

		assert.Error(t, err)
	})
}
