package billing

import (
	"context"
	"fmt"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService collects fee payments and allocates them across a student's
// obligations. The whole collection runs in one transaction with the
// student's obligation rows locked, so two cashiers collecting for the same
// student serialize instead of double-settling.
type PaymentService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{scope: scope, logger: logger}
}

// Collect records a payment and waterfalls it over the student's outstanding
// obligations: the carry-forward balance first, then the remaining heads in
// fee type name order. The amount must not exceed the principal outstanding;
// advance collection is out of scope and rejected.
//
// The fine amount is recorded as stated by the cashier. It is reported
// against installment accruals by the outstanding calculator but never
// validated here, since schools routinely waive or round fines at the counter.
func (s *PaymentService) Collect(ctx context.Context, tenantID uuid.UUID, req CollectPaymentRequest) (*PaymentResponse, error) {
	var (
		payment *billing.FeePayment
		receipt *billing.FeeReceipt
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.Sessions().FindByIDForTenant(ctx, tenantID, req.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return shared.NewDomainError("NOT_FOUND", "Session not found")
		}

		if req.InstallmentID != nil {
			installment, err := repos.Installments().FindByIDForTenant(ctx, tenantID, *req.InstallmentID)
			if err != nil {
				return err
			}
			if installment == nil {
				return shared.NewDomainError("NOT_FOUND", "Installment not found")
			}
			if installment.SessionID != req.SessionID {
				return shared.ErrScopeMismatch
			}
		}

		// row lock serializes concurrent collections per student
		fees, err := repos.StudentFees().FindActiveByStudentSessionForUpdate(ctx, tenantID, req.StudentID, req.SessionID)
		if err != nil {
			return err
		}

		lines, err := computeFeeLines(ctx, repos.Payments(), repos.CarryForwards(), tenantID, fees)
		if err != nil {
			return err
		}

		outstanding := sumOutstanding(lines)
		if !outstanding.IsPositive() {
			return shared.ErrNothingOutstanding
		}
		if req.Amount.GreaterThan(outstanding) {
			return shared.NewDomainError("AMOUNT_EXCEEDS_OUTSTANDING",
				fmt.Sprintf("Payment of %s exceeds the outstanding balance of %s", req.Amount, outstanding))
		}

		payment, err = billing.NewFeePayment(tenantID, req.StudentID, req.SessionID, req.InstallmentID,
			req.Amount, req.FineAmount, req.Mode, req.Reference, req.PaymentDate, req.ReceivedBy)
		if err != nil {
			return err
		}

		if err := s.allocate(ctx, repos, tenantID, payment, lines); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}

		receipt, err = billing.NewFeeReceipt(tenantID, payment.ID, receiptNumber(session.Code, payment))
		if err != nil {
			return err
		}
		if err := repos.Payments().SaveReceipt(ctx, receipt); err != nil {
			return err
		}

		entry, err := ledger.NewEntry(tenantID, ledger.EntryTypeIncome, ledger.SourceFeePayment, payment.ID,
			payment.TotalCollected(), payment.PaymentDate,
			fmt.Sprintf("Fee collection %s", receipt.ReceiptNumber))
		if err != nil {
			return err
		}
		_, _, err = repos.LedgerEntries().GetOrCreate(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment collected",
		zap.String("payment_id", payment.ID.String()),
		zap.String("student_id", req.StudentID.String()),
		zap.String("amount", payment.AmountPaid.String()),
		zap.String("fine", payment.FineAmount.String()),
		zap.String("receipt", receipt.ReceiptNumber))

	return toPaymentResponse(payment, receipt.ReceiptNumber), nil
}

// allocate waterfalls the payment amount over the outstanding lines, in the
// order the repository returns them: carry-forward first, then by fee type
// name. Slices against the carry-forward line settle the underlying
// carry-forward dues oldest first.
func (s *PaymentService) allocate(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, payment *billing.FeePayment, lines []FeeLineOutstanding) error {
	remaining := payment.AmountPaid

	for i := range lines {
		if !remaining.IsPositive() {
			break
		}
		line := &lines[i]
		if !line.Outstanding.IsPositive() {
			continue
		}

		slice := decimal.Min(remaining, line.Outstanding)

		if line.IsCarryForward {
			settled, err := s.settleCarryForward(ctx, repos, tenantID, payment, slice)
			if err != nil {
				return err
			}
			remaining = remaining.Sub(settled)
			continue
		}

		target, err := billing.NewStudentFeeTarget(line.StudentFeeID)
		if err != nil {
			return err
		}
		if _, err := payment.Allocate(target, slice); err != nil {
			return err
		}
		remaining = remaining.Sub(slice)
	}

	if remaining.IsPositive() {
		// the outstanding check above should make this unreachable
		return shared.NewDomainError("ALLOCATION_FAILED", "Obligations exhausted before the full amount was allocated")
	}
	if !payment.AllocatedTotal().Equal(payment.AmountPaid) {
		return shared.NewDomainError("ALLOCATION_FAILED", "Allocations do not sum to the payment amount")
	}
	return nil
}

// settleCarryForward spreads a slice over the student's carry-forward dues
// and returns the amount actually settled.
func (s *PaymentService) settleCarryForward(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, payment *billing.FeePayment, slice decimal.Decimal) (decimal.Decimal, error) {
	dues, err := repos.CarryForwards().FindActiveByStudentToSession(ctx, tenantID, payment.StudentID, payment.SessionID)
	if err != nil {
		return decimal.Zero, err
	}

	settled := decimal.Zero
	for i := range dues {
		if !slice.IsPositive() {
			break
		}
		due := &dues[i]
		part := decimal.Min(slice, due.Remaining())
		if !part.IsPositive() {
			continue
		}

		if err := due.AddSettlement(part); err != nil {
			return decimal.Zero, err
		}
		if err := repos.CarryForwards().Save(ctx, due); err != nil {
			return decimal.Zero, err
		}

		target, err := billing.NewCarryForwardTarget(due.ID)
		if err != nil {
			return decimal.Zero, err
		}
		if _, err := payment.Allocate(target, part); err != nil {
			return decimal.Zero, err
		}

		slice = slice.Sub(part)
		settled = settled.Add(part)
	}
	return settled, nil
}

// GetPayment returns a payment with its receipt number
func (s *PaymentService) GetPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	var response *PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}
		receiptNum := ""
		receipt, err := repos.Payments().FindReceiptByPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if receipt != nil {
			receiptNum = receipt.ReceiptNumber
		}
		response = toPaymentResponse(payment, receiptNum)
		return nil
	})
	return response, err
}

// ListPayments lists a student's payments in a session, newest first
func (s *PaymentService) ListPayments(ctx context.Context, tenantID, studentID, sessionID uuid.UUID, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	var result shared.Paginated[PaymentResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		page, err := repos.Payments().ListByStudentSession(ctx, tenantID, studentID, sessionID, filter)
		if err != nil {
			return err
		}
		items := make([]PaymentResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, *toPaymentResponse(&page.Items[i], ""))
		}
		result = shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// receiptNumber builds the human-facing receipt identifier. The payment ID
// prefix keeps it unique even when a student pays twice on the same day.
func receiptNumber(sessionCode string, payment *billing.FeePayment) string {
	return fmt.Sprintf("RCP-%s-%s-%s", sessionCode, payment.PaymentDate.Format("20060102"), payment.ID.String()[:8])
}
