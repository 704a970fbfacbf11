package billing

import (
	"context"
	"testing"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeePlanService_SyncStudentFees(t *testing.T) {
	ctx := context.Background()

	t.Run("materializes obligations from the class fee plan", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		transport := f.addFeeType(t, "Transport Fee", billing.FeeCategoryTransport)
		classID := uuid.New()
		f.addClassFee(t, session.ID, classID, tuition.ID, 12000)
		f.addClassFee(t, session.ID, classID, transport.ID, 3000)

		studentID := uuid.New()
		fees := f.sync(t, studentID, session.ID, &classID)

		require.Len(t, fees, 2)
		total := decimal.Zero
		for _, fee := range fees {
			assert.True(t, fee.Active)
			assert.True(t, fee.ConcessionAmount.IsZero())
			total = total.Add(fee.FinalAmount)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(15000)))

		enrollment, err := f.enrollments.FindByStudentSession(ctx, f.tenantID, studentID, session.ID)
		require.NoError(t, err)
		require.NotNil(t, enrollment)
		assert.True(t, enrollment.HasClass())
	})

	t.Run("sync is idempotent", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		f.addClassFee(t, session.ID, classID, tuition.ID, 12000)
		studentID := uuid.New()

		first := f.sync(t, studentID, session.ID, &classID)
		second := f.sync(t, studentID, session.ID, &classID)

		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)
	})

	t.Run("class removal deactivates obligations but keeps carry-forward", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		f.addClassFee(t, session.ID, classID, tuition.ID, 12000)
		studentID := uuid.New()
		f.sync(t, studentID, session.ID, &classID)

		// a carried balance exists alongside the class fees
		cfType, err := f.feeTypes.GetOrCreateByName(ctx, f.tenantID, billing.CarryForwardFeeTypeName, billing.FeeCategoryOther)
		require.NoError(t, err)
		cfRow, err := billing.NewStudentFee(f.tenantID, studentID, session.ID, cfType.ID, billing.CarryForwardFeeTypeName, decimal.NewFromInt(500))
		require.NoError(t, err)
		require.NoError(t, f.studentFees.Save(ctx, cfRow))

		fees := f.sync(t, studentID, session.ID, nil)

		require.Len(t, fees, 1)
		assert.True(t, fees[0].IsCarryForward)

		all, err := f.studentFees.FindByStudentSession(ctx, f.tenantID, studentID, session.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2) // deactivated row kept for history
	})

	t.Run("re-enrollment reactivates the existing rows", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		f.addClassFee(t, session.ID, classID, tuition.ID, 12000)
		studentID := uuid.New()

		first := f.sync(t, studentID, session.ID, &classID)
		f.sync(t, studentID, session.ID, nil)
		again := f.sync(t, studentID, session.ID, &classID)

		require.Len(t, again, 1)
		assert.Equal(t, first[0].ID, again[0].ID)
		assert.True(t, again[0].Active)
	})

	t.Run("carry-forward failure does not block the sync", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		f.addClassFee(t, session.ID, classID, tuition.ID, 12000)

		// the previous session is unknown, so the carry-forward attempt fails
		previousID := uuid.New()
		fees, err := f.feePlan.SyncStudentFees(ctx, f.tenantID, SyncEnrollmentRequest{
			StudentID:         uuid.New(),
			SessionID:         session.ID,
			ClassID:           &classID,
			PreviousSessionID: &previousID,
		})
		require.NoError(t, err)
		require.Len(t, fees, 1)
		assert.True(t, fees[0].TotalAmount.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("class change swaps the obligation set", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		lab := f.addFeeType(t, "Lab Fee", billing.FeeCategoryAcademic)
		classA := uuid.New()
		classB := uuid.New()
		f.addClassFee(t, session.ID, classA, tuition.ID, 12000)
		f.addClassFee(t, session.ID, classB, tuition.ID, 14000)
		f.addClassFee(t, session.ID, classB, lab.ID, 800)
		studentID := uuid.New()

		f.sync(t, studentID, session.ID, &classA)
		fees := f.sync(t, studentID, session.ID, &classB)

		require.Len(t, fees, 2)
		byName := map[string]StudentFeeResponse{}
		for _, fee := range fees {
			byName[fee.FeeTypeName] = fee
		}
		assert.True(t, byName["Tuition Fee"].TotalAmount.Equal(decimal.NewFromInt(14000)))
		assert.True(t, byName["Lab Fee"].TotalAmount.Equal(decimal.NewFromInt(800)))
	})
}

func TestFeePlanService_UpdateClassFee(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, uuid.UUID, uuid.UUID, *billing.ClassFeeStructure) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		structure := f.addClassFee(t, session.ID, classID, tuition.ID, 12000)
		studentID := uuid.New()
		f.sync(t, studentID, session.ID, &classID)
		return f, session.ID, studentID, structure
	}

	t.Run("changes the amount while nothing is materialized", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		structure := f.addClassFee(t, session.ID, uuid.New(), tuition.ID, 12000)

		resp, err := f.feePlan.UpdateClassFee(ctx, f.tenantID, structure.ID, UpdateClassFeeRequest{Amount: decimal.NewFromInt(13000)})
		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(13000)))
	})

	t.Run("locked once an obligation is materialized, before any payment", func(t *testing.T) {
		f, sessionID, studentID, structure := setup(t)

		_, err := f.feePlan.UpdateClassFee(ctx, f.tenantID, structure.ID, UpdateClassFeeRequest{Amount: decimal.NewFromInt(13000)})
		assert.ErrorIs(t, err, shared.ErrStructureLocked)

		// neither the structure nor the student's obligation moved
		kept, err := f.feeStructures.FindByIDForTenant(ctx, f.tenantID, structure.ID)
		require.NoError(t, err)
		assert.True(t, kept.Amount.Equal(decimal.NewFromInt(12000)))

		fees, err := f.studentFees.FindActiveByStudentSession(ctx, f.tenantID, studentID, sessionID)
		require.NoError(t, err)
		require.Len(t, fees, 1)
		assert.True(t, fees[0].TotalAmount.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("unknown structure fails", func(t *testing.T) {
		f := newFixture()

		_, err := f.feePlan.UpdateClassFee(ctx, f.tenantID, uuid.New(), UpdateClassFeeRequest{Amount: decimal.NewFromInt(100)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestFeePlanService_CreateFeeType(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.feePlan.CreateFeeType(ctx, f.tenantID, CreateFeeTypeRequest{Name: "Exam Fee", Category: billing.FeeCategoryAcademic})
	require.NoError(t, err)
	assert.Equal(t, "Exam Fee", created.Name)

	_, err = f.feePlan.CreateFeeType(ctx, f.tenantID, CreateFeeTypeRequest{Name: "Exam Fee", Category: billing.FeeCategoryAcademic})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFeePlanService_CreateClassFee(t *testing.T) {
	ctx := context.Background()

	t.Run("materializes for already enrolled students", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		studentID := uuid.New()
		f.enroll(t, studentID, session.ID, &classID)

		_, err := f.feePlan.CreateClassFee(ctx, f.tenantID, CreateClassFeeRequest{
			SessionID: session.ID,
			ClassID:   classID,
			FeeTypeID: tuition.ID,
			Amount:    decimal.NewFromInt(9000),
		})
		require.NoError(t, err)

		fees, err := f.studentFees.FindActiveByStudentSession(ctx, f.tenantID, studentID, session.ID)
		require.NoError(t, err)
		require.Len(t, fees, 1)
		assert.True(t, fees[0].TotalAmount.Equal(decimal.NewFromInt(9000)))
	})

	t.Run("rejects duplicate mapping", func(t *testing.T) {
		f := newFixture()
		session := f.addSession(t, "2026-27", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
		tuition := f.addFeeType(t, "Tuition Fee", billing.FeeCategoryAcademic)
		classID := uuid.New()
		f.addClassFee(t, session.ID, classID, tuition.ID, 9000)

		_, err := f.feePlan.CreateClassFee(ctx, f.tenantID, CreateClassFeeRequest{
			SessionID: session.ID,
			ClassID:   classID,
			FeeTypeID: tuition.ID,
			Amount:    decimal.NewFromInt(9500),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already mapped")
	})
}
