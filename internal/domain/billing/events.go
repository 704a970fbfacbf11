package billing

import (
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRecordedEvent is raised when a fee payment is collected
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	StudentID  uuid.UUID       `json:"student_id"`
	SessionID  uuid.UUID       `json:"session_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	FineAmount decimal.Decimal `json:"fine_amount"`
}

// NewPaymentRecordedEvent creates a payment recorded event
func NewPaymentRecordedEvent(paymentID, tenantID, studentID, sessionID uuid.UUID, amountPaid, fineAmount decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("billing.payment.recorded", "FeePayment", paymentID, tenantID),
		StudentID:       studentID,
		SessionID:       sessionID,
		AmountPaid:      amountPaid,
		FineAmount:      fineAmount,
	}
}

// PaymentReversedEvent is raised when a fee payment is reversed
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID       `json:"student_id"`
	SessionID uuid.UUID       `json:"session_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentReversedEvent creates a payment reversed event
func NewPaymentReversedEvent(paymentID, tenantID, studentID, sessionID uuid.UUID, amount decimal.Decimal) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("billing.payment.reversed", "FeePayment", paymentID, tenantID),
		StudentID:       studentID,
		SessionID:       sessionID,
		Amount:          amount,
	}
}
