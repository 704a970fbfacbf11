package billing

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

// twoFeeSetup materializes a 1200 tuition and 300 transport obligation for
// one student.
func twoFeeSetup(t *testing.T) (*fixture, uuid.UUID, uuid.UUID, *billing.FeeType, *billing.FeeType) {
	t.Helper()
	f := newFixture()
	session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
	tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
	transport := f.addFeeType(t, "Transport Fee", billing.FeeCategoryTransport)
	classID := uuid.New()
	f.addClassFee(t, session.ID, classID, tuition.ID, 1200)
	f.addClassFee(t, session.ID, classID, transport.ID, 300)
	studentID := uuid.New()
	f.sync(t, studentID, session.ID, &classID)
	return f, studentID, session.ID, tuition, transport
}

func feesByName(t *testing.T, f *fixture, studentID, sessionID uuid.UUID) map[string]billing.StudentFee {
	t.Helper()
	fees, err := f.studentFees.FindActiveByStudentSession(context.Background(), f.tenantID, studentID, sessionID)
	require.NoError(t, err)
	byName := make(map[string]billing.StudentFee, len(fees))
	for _, fee := range fees {
		byName[fee.FeeTypeName] = fee
	}
	return byName
}

func TestConcessionService_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("ten percent across all fee types", func(t *testing.T) {
		f, studentID, sessionID, _, _ := twoFeeSetup(t)

		_, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID:    studentID,
			SessionID:    sessionID,
			BenefitKind:  "percentage",
			BenefitValue: decimal.NewFromInt(10),
			Reason:       "merit scholarship",
			ApprovedBy:   "principal",
		})
		require.NoError(t, err)

		byName := feesByName(t, f, studentID, sessionID)
		assert.True(t, byName["Tuition Fee"].ConcessionAmount.Equal(decimal.NewFromInt(120)))
		assert.True(t, byName["Tuition Fee"].FinalAmount.Equal(decimal.NewFromInt(1080)))
		assert.True(t, byName["Transport Fee"].ConcessionAmount.Equal(decimal.NewFromInt(30)))
		assert.True(t, byName["Transport Fee"].FinalAmount.Equal(decimal.NewFromInt(270)))
	})

	t.Run("fee-type scoped fixed amount lands on one row", func(t *testing.T) {
		f, studentID, sessionID, _, transport := twoFeeSetup(t)

		_, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID:    studentID,
			SessionID:    sessionID,
			FeeTypeID:    &transport.ID,
			BenefitKind:  "fixed",
			BenefitValue: decimal.NewFromInt(300),
			ApprovedBy:   "principal",
		})
		require.NoError(t, err)

		byName := feesByName(t, f, studentID, sessionID)
		assert.True(t, byName["Transport Fee"].FinalAmount.IsZero())
		assert.True(t, byName["Tuition Fee"].ConcessionAmount.IsZero())
	})

	t.Run("unscoped fixed amount spreads proportionally and sums exactly", func(t *testing.T) {
		f, studentID, sessionID, _, _ := twoFeeSetup(t)

		_, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID:    studentID,
			SessionID:    sessionID,
			BenefitKind:  "fixed",
			BenefitValue: decimal.NewFromInt(500),
			ApprovedBy:   "principal",
		})
		require.NoError(t, err)

		byName := feesByName(t, f, studentID, sessionID)
		granted := byName["Tuition Fee"].ConcessionAmount.Add(byName["Transport Fee"].ConcessionAmount)
		assert.True(t, granted.Equal(decimal.NewFromInt(500)), "granted %s", granted)
		// 1200:300 split
		assert.True(t, byName["Tuition Fee"].ConcessionAmount.Equal(decimal.NewFromInt(400)))
		assert.True(t, byName["Transport Fee"].ConcessionAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rounded-up shares never exceed the benefit", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		classID := uuid.New()
		names := []string{"Fee A", "Fee B", "Fee C", "Fee D", "Fee E"}
		amounts := []int64{1, 1, 1, 1, 2}
		for i, name := range names {
			feeType := f.addFeeType(t, name, billing.FeeCategoryOther)
			f.addClassFee(t, session.ID, classID, feeType.ID, amounts[i])
		}
		studentID := uuid.New()
		f.sync(t, studentID, session.ID, &classID)

		// each 1-unit row's share of 0.03 rounds 0.005 up to 0.01, four of
		// them already overshooting the benefit before the last row
		_, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID:    studentID,
			SessionID:    session.ID,
			BenefitKind:  "fixed",
			BenefitValue: decimal.RequireFromString("0.03"),
			ApprovedBy:   "principal",
		})
		require.NoError(t, err)

		byName := feesByName(t, f, studentID, session.ID)
		granted := decimal.Zero
		for _, name := range names {
			fee := byName[name]
			assert.False(t, fee.ConcessionAmount.IsNegative(), "%s got %s", name, fee.ConcessionAmount)
			granted = granted.Add(fee.ConcessionAmount)
		}
		assert.True(t, granted.Equal(decimal.RequireFromString("0.03")), "granted %s", granted)
		assert.True(t, byName["Fee E"].ConcessionAmount.IsZero())
	})

	t.Run("over-granted concession clamps to the fee amount", func(t *testing.T) {
		f, studentID, sessionID, _, transport := twoFeeSetup(t)

		_, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID:    studentID,
			SessionID:    sessionID,
			FeeTypeID:    &transport.ID,
			BenefitKind:  "fixed",
			BenefitValue: decimal.NewFromInt(5000),
			ApprovedBy:   "principal",
		})
		require.NoError(t, err)

		byName := feesByName(t, f, studentID, sessionID)
		assert.True(t, byName["Transport Fee"].ConcessionAmount.Equal(decimal.NewFromInt(300)))
		assert.False(t, byName["Transport Fee"].FinalAmount.IsNegative())
	})

	t.Run("concessions stack additively", func(t *testing.T) {
		f, studentID, sessionID, tuition, _ := twoFeeSetup(t)

		_, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID: studentID, SessionID: sessionID,
			BenefitKind: "percentage", BenefitValue: decimal.NewFromInt(10), ApprovedBy: "principal",
		})
		require.NoError(t, err)
		_, err = f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
			StudentID: studentID, SessionID: sessionID, FeeTypeID: &tuition.ID,
			BenefitKind: "fixed", BenefitValue: decimal.NewFromInt(100), ApprovedBy: "principal",
		})
		require.NoError(t, err)

		byName := feesByName(t, f, studentID, sessionID)
		assert.True(t, byName["Tuition Fee"].ConcessionAmount.Equal(decimal.NewFromInt(220)))
	})
}

func TestConcessionService_Withdraw(t *testing.T) {
	ctx := context.Background()
	f, studentID, sessionID, _, _ := twoFeeSetup(t)

	granted, err := f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
		StudentID:    studentID,
		SessionID:    sessionID,
		BenefitKind:  "percentage",
		BenefitValue: decimal.NewFromInt(10),
		ApprovedBy:   "principal",
	})
	require.NoError(t, err)

	_, err = f.concession.Withdraw(ctx, f.tenantID, granted.ID)
	require.NoError(t, err)

	byName := feesByName(t, f, studentID, sessionID)
	assert.True(t, byName["Tuition Fee"].ConcessionAmount.IsZero())
	assert.True(t, byName["Tuition Fee"].FinalAmount.Equal(decimal.NewFromInt(1200)))

	t.Run("unknown concession fails", func(t *testing.T) {
		_, err := f.concession.Withdraw(ctx, f.tenantID, uuid.New())
		assert.Error(t, err)
	})
}

func TestConcessionService_CarryForwardRowsExcluded(t *testing.T) {
	ctx := context.Background()
	f, studentID, sessionID, _, _ := twoFeeSetup(t)

	cfType, err := f.feeTypes.GetOrCreateByName(ctx, f.tenantID, billing.CarryForwardFeeTypeName, billing.FeeCategoryOther)
	require.NoError(t, err)
	cfRow, err := billing.NewStudentFee(f.tenantID, studentID, sessionID, cfType.ID, billing.CarryForwardFeeTypeName, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, f.studentFees.Save(ctx, cfRow))

	_, err = f.concession.Grant(ctx, f.tenantID, GrantConcessionRequest{
		StudentID:    studentID,
		SessionID:    sessionID,
		BenefitKind:  "percentage",
		BenefitValue: decimal.NewFromInt(50),
		ApprovedBy:   "principal",
	})
	require.NoError(t, err)

	byName := feesByName(t, f, studentID, sessionID)
	assert.True(t, byName[billing.CarryForwardFeeTypeName].ConcessionAmount.IsZero())
	assert.True(t, byName[billing.CarryForwardFeeTypeName].FinalAmount.Equal(decimal.NewFromInt(1000)))
}
