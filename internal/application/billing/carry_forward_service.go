package billing

import (
	"context"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CarryForwardService snapshots a student's unpaid balance at the end of one
// session into a carry-forward obligation in the next.
type CarryForwardService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewCarryForwardService creates a new CarryForwardService
func NewCarryForwardService(scope TransactionScope, logger *zap.Logger) *CarryForwardService {
	return &CarryForwardService{scope: scope, logger: logger}
}

// Generate computes the student's outstanding balance in the source session
// as of that session's end date and materializes it in the destination
// session. Regenerating is allowed until money is settled against the carried
// amount; after that the snapshot is frozen and fails with IMMUTABLE_RECORD.
func (s *CarryForwardService) Generate(ctx context.Context, tenantID uuid.UUID, req GenerateCarryForwardRequest) (*CarryForwardResponse, error) {
	var due *billing.CarryForwardDue

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		due, err = generateCarryForwardInTx(ctx, repos, tenantID, req.StudentID, req.FromSessionID, req.ToSessionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("carry-forward generated",
		zap.String("student_id", req.StudentID.String()),
		zap.String("from_session_id", req.FromSessionID.String()),
		zap.String("to_session_id", req.ToSessionID.String()),
		zap.String("amount", due.Amount.String()))

	return toCarryForwardResponse(due), nil
}

// ListForStudent returns the carry-forward dues landing in a session for a student
func (s *CarryForwardService) ListForStudent(ctx context.Context, tenantID, studentID, toSessionID uuid.UUID) ([]CarryForwardResponse, error) {
	var responses []CarryForwardResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		dues, err := repos.CarryForwards().FindActiveByStudentToSession(ctx, tenantID, studentID, toSessionID)
		if err != nil {
			return err
		}
		responses = make([]CarryForwardResponse, 0, len(dues))
		for i := range dues {
			responses = append(responses, *toCarryForwardResponse(&dues[i]))
		}
		return nil
	})
	return responses, err
}

// generateCarryForwardInTx runs carry-forward generation inside an existing
// transaction. The carried amount is the principal still outstanding plus the
// fines accrued and uncollected as of the source session's end date.
func generateCarryForwardInTx(ctx context.Context, repos TransactionalRepositories, tenantID, studentID, fromSessionID, toSessionID uuid.UUID) (*billing.CarryForwardDue, error) {
	fromSession, err := repos.Sessions().FindByIDForTenant(ctx, tenantID, fromSessionID)
	if err != nil {
		return nil, err
	}
	if fromSession == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Source session not found")
	}
	toSession, err := repos.Sessions().FindByIDForTenant(ctx, tenantID, toSessionID)
	if err != nil {
		return nil, err
	}
	if toSession == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Destination session not found")
	}

	enrollment, err := repos.Enrollments().FindByStudentSession(ctx, tenantID, studentID, toSessionID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, shared.NewDomainError("NOT_ENROLLED", "Student is not enrolled in the destination session")
	}

	asOf := fromSession.EndDate

	fees, err := repos.StudentFees().FindActiveByStudentSession(ctx, tenantID, studentID, fromSessionID)
	if err != nil {
		return nil, err
	}
	lines, err := computeFeeLines(ctx, repos.Payments(), repos.CarryForwards(), tenantID, fees)
	if err != nil {
		return nil, err
	}
	fines, err := computeFineLines(ctx, repos.Installments(), repos.Payments(), tenantID, studentID, fromSessionID, asOf)
	if err != nil {
		return nil, err
	}

	total := sumOutstanding(lines)
	for i := range fines {
		total = total.Add(fines[i].FineDue)
	}
	if !total.IsPositive() {
		return nil, shared.ErrNothingOutstanding
	}

	due, err := repos.CarryForwards().FindByTransition(ctx, tenantID, studentID, fromSessionID, toSessionID)
	if err != nil {
		return nil, err
	}
	if due == nil {
		due, err = billing.NewCarryForwardDue(tenantID, studentID, fromSessionID, toSessionID, total)
		if err != nil {
			return nil, err
		}
	} else if err := due.UpdateAmount(total); err != nil {
		return nil, err
	}
	if err := repos.CarryForwards().Save(ctx, due); err != nil {
		return nil, err
	}

	if err := syncCarryForwardRow(ctx, repos, tenantID, studentID, toSessionID); err != nil {
		return nil, err
	}
	return due, nil
}

// syncCarryForwardRow keeps the destination session's carry-forward obligation
// equal to the sum of the student's active carry-forward dues landing there.
func syncCarryForwardRow(ctx context.Context, repos TransactionalRepositories, tenantID, studentID, toSessionID uuid.UUID) error {
	dues, err := repos.CarryForwards().FindActiveByStudentToSession(ctx, tenantID, studentID, toSessionID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for i := range dues {
		total = total.Add(dues[i].Amount)
	}

	feeType, err := repos.FeeTypes().GetOrCreateByName(ctx, tenantID, billing.CarryForwardFeeTypeName, billing.FeeCategoryOther)
	if err != nil {
		return err
	}

	row, err := repos.StudentFees().FindByKey(ctx, tenantID, studentID, toSessionID, feeType.ID)
	if err != nil {
		return err
	}
	if row == nil {
		if total.IsZero() {
			return nil
		}
		row, err = billing.NewStudentFee(tenantID, studentID, toSessionID, feeType.ID, billing.CarryForwardFeeTypeName, total)
		if err != nil {
			return err
		}
		return repos.StudentFees().Save(ctx, row)
	}

	if err := row.ChangeTotal(total); err != nil {
		return err
	}
	row.Activate()
	return repos.StudentFees().Save(ctx, row)
}
