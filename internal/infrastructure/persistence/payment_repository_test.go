package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()

	payment, err := billing.NewFeePayment(tenantID, studentID, sessionID, nil, dec("500"), dec("50"), "cash", "slip-42", time.Now(), "clerk")
	require.NoError(t, err)

	feeTarget, err := billing.NewStudentFeeTarget(uuid.New())
	require.NoError(t, err)
	_, err = payment.Allocate(feeTarget, dec("300"))
	require.NoError(t, err)

	cfTarget, err := billing.NewCarryForwardTarget(uuid.New())
	require.NoError(t, err)
	_, err = payment.Allocate(cfTarget, dec("200"))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, payment))

	t.Run("round trips payment with allocations", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, payment.ID)
		require.NoError(t, err)
		require.NotNil(t, found)

		assert.True(t, found.AmountPaid.Equal(dec("500")))
		assert.True(t, found.FineAmount.Equal(dec("50")))
		assert.Equal(t, "slip-42", found.Reference)
		require.Len(t, found.Allocations, 2)
		assert.True(t, found.AllocatedTotal().Equal(dec("500")))
	})

	t.Run("returns nil for wrong tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, uuid.New(), payment.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestPaymentRepository_SumAllocationsForTarget(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	feeID := uuid.New()
	target, err := billing.NewStudentFeeTarget(feeID)
	require.NoError(t, err)

	pay := func(amount string) *billing.FeePayment {
		payment, err := billing.NewFeePayment(tenantID, studentID, sessionID, nil, dec(amount), dec("0"), "cash", "", time.Now(), "clerk")
		require.NoError(t, err)
		_, err = payment.Allocate(target, dec(amount))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, payment))
		return payment
	}

	first := pay("300")
	pay("200")

	t.Run("sums non-reversed allocations", func(t *testing.T) {
		total, err := repo.SumAllocationsForTarget(ctx, tenantID, billing.AllocationTargetStudentFee, feeID)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("500")))
	})

	t.Run("excludes reversed payments", func(t *testing.T) {
		require.NoError(t, first.Reverse("clerk", "keying error"))
		require.NoError(t, repo.Save(ctx, first))

		total, err := repo.SumAllocationsForTarget(ctx, tenantID, billing.AllocationTargetStudentFee, feeID)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("200")))
	})

	t.Run("zero for an untouched target", func(t *testing.T) {
		total, err := repo.SumAllocationsForTarget(ctx, tenantID, billing.AllocationTargetStudentFee, uuid.New())
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestPaymentRepository_SumFineCollectedForInstallment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	installmentID := uuid.New()

	for _, fine := range []string{"30", "20"} {
		payment, err := billing.NewFeePayment(tenantID, studentID, sessionID, &installmentID, dec("100"), dec(fine), "cash", "", time.Now(), "clerk")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, payment))
	}

	// A payment against another installment stays out of the sum
	other := uuid.New()
	stray, err := billing.NewFeePayment(tenantID, studentID, sessionID, &other, dec("100"), dec("99"), "cash", "", time.Now(), "clerk")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, stray))

	total, err := repo.SumFineCollectedForInstallment(ctx, tenantID, studentID, installmentID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("50")))
}

func TestPaymentRepository_ListByStudentSession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		payment, err := billing.NewFeePayment(tenantID, studentID, sessionID, nil, dec("100"), dec("0"), "cash", "", base.AddDate(0, 0, i), "clerk")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, payment))
	}

	t.Run("newest first with pagination", func(t *testing.T) {
		result, err := repo.ListByStudentSession(ctx, tenantID, studentID, sessionID, shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
		require.Len(t, result.Items, 2)
		assert.True(t, result.Items[0].PaymentDate.After(result.Items[1].PaymentDate))

		second, err := repo.ListByStudentSession(ctx, tenantID, studentID, sessionID, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, second.Items, 1)
	})
}

func TestPaymentRepository_Receipts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	payment, err := billing.NewFeePayment(tenantID, uuid.New(), uuid.New(), nil, dec("100"), dec("0"), "online", "txn-9", time.Now(), "clerk")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, payment))

	receipt, err := billing.NewFeeReceipt(tenantID, payment.ID, "RCP-2025-000001")
	require.NoError(t, err)
	require.NoError(t, repo.SaveReceipt(ctx, receipt))

	t.Run("finds receipt by payment", func(t *testing.T) {
		found, err := repo.FindReceiptByPayment(ctx, tenantID, payment.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "RCP-2025-000001", found.ReceiptNumber)
	})

	t.Run("nil when no receipt exists", func(t *testing.T) {
		found, err := repo.FindReceiptByPayment(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
