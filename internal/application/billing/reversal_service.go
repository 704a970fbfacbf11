package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReversalService undoes money movements without deleting them. A reversal
// keeps the payment and its allocations on record, flips them out of every
// balance computation and posts a compensating ledger entry; a refund returns
// collected money as a separate outflow while the payment stays settled.
type ReversalService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewReversalService creates a new ReversalService
func NewReversalService(scope TransactionScope, logger *zap.Logger) *ReversalService {
	return &ReversalService{scope: scope, logger: logger}
}

// ReversePayment reverses a payment: its allocations stop counting toward the
// student's balance, settled carry-forward amounts are restored, the receipt
// is cancelled and the ledger gets a compensating entry. Fails with
// ALREADY_REVERSED on a second attempt and refuses while non-reversed refunds
// exist against the payment.
func (s *ReversalService) ReversePayment(ctx context.Context, tenantID, paymentID uuid.UUID, req ReverseRequest) (*PaymentResponse, error) {
	var (
		payment       *billing.FeePayment
		receiptNumber string
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.Payments().FindByIDForTenantForUpdate(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		// same lock order as collection, so reversals serialize with payments
		if _, err := repos.StudentFees().FindActiveByStudentSessionForUpdate(ctx, tenantID, payment.StudentID, payment.SessionID); err != nil {
			return err
		}

		refunded, err := repos.Refunds().SumNonReversedByPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if refunded.IsPositive() {
			return shared.NewDomainError("REFUNDS_EXIST", "Reverse or settle the payment's refunds first")
		}

		if err := payment.Reverse(req.ReversedBy, req.Reason); err != nil {
			return err
		}

		for _, alloc := range payment.Allocations {
			if !alloc.Target.IsCarryForward() {
				continue
			}
			due, err := repos.CarryForwards().FindByIDForTenant(ctx, tenantID, alloc.Target.ID())
			if err != nil {
				return err
			}
			if due == nil {
				return shared.NewDomainError("NOT_FOUND", "Carry-forward due referenced by the payment no longer exists")
			}
			if err := due.RemoveSettlement(alloc.Amount); err != nil {
				return err
			}
			if err := repos.CarryForwards().Save(ctx, due); err != nil {
				return err
			}
		}

		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}

		receipt, err := repos.Payments().FindReceiptByPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if receipt != nil {
			receiptNumber = receipt.ReceiptNumber
			receipt.Cancel()
			if err := repos.Payments().SaveReceipt(ctx, receipt); err != nil {
				return err
			}
		}

		return s.postCompensation(ctx, repos, tenantID, ledger.SourceFeePayment, paymentID,
			payment.TotalCollected(), fmt.Sprintf("Reversal of payment %s: %s", paymentID, req.Reason))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment reversed",
		zap.String("payment_id", paymentID.String()),
		zap.String("reversed_by", req.ReversedBy),
		zap.String("reason", req.Reason))

	return toPaymentResponse(payment, receiptNumber), nil
}

// CreateRefund records a refund against a payment. The non-reversed refunds
// of a payment can never exceed what the payment collected.
func (s *ReversalService) CreateRefund(ctx context.Context, tenantID, paymentID uuid.UUID, req CreateRefundRequest) (*RefundResponse, error) {
	var refund *billing.FeeRefund

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// lock the payment row so concurrent refunds serialize on the
		// headroom check below
		payment, err := repos.Payments().FindByIDForTenantForUpdate(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}
		if payment.IsReversed {
			return shared.NewDomainError("PAYMENT_REVERSED", "Cannot refund a reversed payment")
		}

		refunded, err := repos.Refunds().SumNonReversedByPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		headroom := payment.TotalCollected().Sub(refunded)
		if req.Amount.GreaterThan(headroom) {
			return shared.NewDomainError("REFUND_EXCEEDS_PAYMENT",
				fmt.Sprintf("Refund of %s exceeds the refundable balance of %s", req.Amount, headroom))
		}

		refund, err = billing.NewFeeRefund(tenantID, paymentID, req.Amount, req.Reason, req.RefundDate, req.ProcessedBy)
		if err != nil {
			return err
		}
		if err := repos.Refunds().Save(ctx, refund); err != nil {
			return err
		}

		entry, err := ledger.NewEntry(tenantID, ledger.EntryTypeRefund, ledger.SourceFeeRefund, refund.ID,
			refund.Amount, refund.RefundDate, fmt.Sprintf("Refund against payment %s: %s", paymentID, req.Reason))
		if err != nil {
			return err
		}
		_, _, err = repos.LedgerEntries().GetOrCreate(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("refund created",
		zap.String("refund_id", refund.ID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("amount", refund.Amount.String()))

	return toRefundResponse(refund), nil
}

// ReverseRefund reverses a refund, restoring the payment's refundable
// headroom. Fails with ALREADY_REVERSED on a second attempt.
func (s *ReversalService) ReverseRefund(ctx context.Context, tenantID, refundID uuid.UUID, req ReverseRequest) (*RefundResponse, error) {
	var refund *billing.FeeRefund

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		refund, err = repos.Refunds().FindByIDForTenant(ctx, tenantID, refundID)
		if err != nil {
			return err
		}
		if refund == nil {
			return shared.NewDomainError("NOT_FOUND", "Refund not found")
		}

		// same payment lock as CreateRefund, so restoring headroom
		// serializes with refunds consuming it
		if _, err := repos.Payments().FindByIDForTenantForUpdate(ctx, tenantID, refund.PaymentID); err != nil {
			return err
		}

		if err := refund.Reverse(req.ReversedBy, req.Reason); err != nil {
			return err
		}
		if err := repos.Refunds().Save(ctx, refund); err != nil {
			return err
		}

		return s.postCompensation(ctx, repos, tenantID, ledger.SourceFeeRefund, refundID,
			refund.Amount, fmt.Sprintf("Reversal of refund %s: %s", refundID, req.Reason))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("refund reversed",
		zap.String("refund_id", refundID.String()),
		zap.String("reversed_by", req.ReversedBy))

	return toRefundResponse(refund), nil
}

// postCompensation flags the source's original ledger entries as reversed and
// posts one linked reversal entry. Idempotent through the ledger's composite
// key: retrying a reversal cannot post the compensation twice.
func (s *ReversalService) postCompensation(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, sourceKind string, sourceID uuid.UUID, amount decimal.Decimal, description string) error {
	entries, err := repos.LedgerEntries().FindBySource(ctx, tenantID, sourceKind, sourceID)
	if err != nil {
		return err
	}

	var original *ledger.Entry
	for i := range entries {
		if entries[i].EntryType == ledger.EntryTypeReversal {
			continue
		}
		if !entries[i].IsReversed {
			if err := entries[i].MarkReversed(); err != nil {
				return err
			}
			if err := repos.LedgerEntries().Save(ctx, &entries[i]); err != nil {
				return err
			}
		}
		original = &entries[i]
	}

	compensating, err := ledger.NewEntry(tenantID, ledger.EntryTypeReversal, sourceKind, sourceID,
		amount, time.Now(), description)
	if err != nil {
		return err
	}
	if original != nil {
		if err := compensating.LinkTo(original.ID); err != nil {
			return err
		}
	}
	_, _, err = repos.LedgerEntries().GetOrCreate(ctx, compensating)
	return err
}
