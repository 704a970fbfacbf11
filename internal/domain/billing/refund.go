package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeRefund returns money collected by a payment without unwinding the
// payment's allocations: the payment stays settled, the refund is a separate
// outflow. Multiple partial refunds against one payment are allowed as long
// as their non-reversed sum stays within what the payment collected.
type FeeRefund struct {
	shared.TenantAggregateRoot
	PaymentID      uuid.UUID       `json:"payment_id"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	RefundDate     time.Time       `json:"refund_date"`
	ProcessedBy    string          `json:"processed_by"`
	IsReversed     bool            `json:"is_reversed"`
	ReversedAt     *time.Time      `json:"reversed_at"`
	ReversedBy     string          `json:"reversed_by"`
	ReversalReason string          `json:"reversal_reason"`
}

// NewFeeRefund records a refund against a payment
func NewFeeRefund(tenantID, paymentID uuid.UUID, amount decimal.Decimal, reason string, refundDate time.Time, processedBy string) (*FeeRefund, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Refund reason is required")
	}
	if processedBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Refund processor is required")
	}
	if refundDate.IsZero() {
		refundDate = time.Now()
	}

	return &FeeRefund{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentID:           paymentID,
		Amount:              amount,
		Reason:              reason,
		RefundDate:          refundDate,
		ProcessedBy:         processedBy,
	}, nil
}

// Reverse flips the refund into its reversed state, restoring the refunded
// amount to the payment's refundable headroom. One-way, like payment reversal.
func (r *FeeRefund) Reverse(reversedBy, reason string) error {
	if r.IsReversed {
		return shared.ErrAlreadyReversed
	}
	if reversedBy == "" {
		return shared.NewDomainError("INVALID_ACTOR", "Reversal actor is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reversal reason is required")
	}
	now := time.Now()
	r.IsReversed = true
	r.ReversedAt = &now
	r.ReversedBy = reversedBy
	r.ReversalReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}
