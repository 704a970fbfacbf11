package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes
const (
	PaymentModeCash   = "cash"
	PaymentModeCheque = "cheque"
	PaymentModeOnline = "online"
)

// Allocation target kinds
const (
	AllocationTargetStudentFee   = "student_fee"
	AllocationTargetCarryForward = "carry_forward"
)

// AllocationTarget identifies what a payment slice settled: a student fee
// obligation or a carry-forward due. Exactly one kind is set.
type AllocationTarget struct {
	kind string
	id   uuid.UUID
}

// NewStudentFeeTarget targets a student fee obligation
func NewStudentFeeTarget(studentFeeID uuid.UUID) (AllocationTarget, error) {
	if studentFeeID == uuid.Nil {
		return AllocationTarget{}, shared.NewDomainError("INVALID_TARGET", "Student fee ID cannot be empty")
	}
	return AllocationTarget{kind: AllocationTargetStudentFee, id: studentFeeID}, nil
}

// NewCarryForwardTarget targets a carry-forward due
func NewCarryForwardTarget(carryForwardID uuid.UUID) (AllocationTarget, error) {
	if carryForwardID == uuid.Nil {
		return AllocationTarget{}, shared.NewDomainError("INVALID_TARGET", "Carry-forward ID cannot be empty")
	}
	return AllocationTarget{kind: AllocationTargetCarryForward, id: carryForwardID}, nil
}

// TargetFromParts reconstructs a target from its stored representation
func TargetFromParts(kind string, id uuid.UUID) (AllocationTarget, error) {
	switch kind {
	case AllocationTargetStudentFee:
		return NewStudentFeeTarget(id)
	case AllocationTargetCarryForward:
		return NewCarryForwardTarget(id)
	}
	return AllocationTarget{}, shared.NewDomainError("INVALID_TARGET", "Unknown allocation target kind: "+kind)
}

// Kind returns the target kind for persistence
func (t AllocationTarget) Kind() string { return t.kind }

// ID returns the targeted record's ID for persistence
func (t AllocationTarget) ID() uuid.UUID { return t.id }

// IsCarryForward reports whether the target is a carry-forward due
func (t AllocationTarget) IsCarryForward() bool { return t.kind == AllocationTargetCarryForward }

// PaymentAllocation is one slice of a payment applied to one target. The
// slices of a payment always sum to its AmountPaid.
type PaymentAllocation struct {
	shared.BaseEntity
	PaymentID uuid.UUID        `json:"payment_id"`
	Target    AllocationTarget `json:"-"`
	Amount    decimal.Decimal  `json:"amount"`
}

// NewPaymentAllocation creates an allocation slice
func NewPaymentAllocation(paymentID uuid.UUID, target AllocationTarget, amount decimal.Decimal) (*PaymentAllocation, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if target.kind == "" {
		return nil, shared.NewDomainError("INVALID_TARGET", "Allocation target is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	return &PaymentAllocation{
		BaseEntity: shared.NewBaseEntity(),
		PaymentID:  paymentID,
		Target:     target,
		Amount:     amount,
	}, nil
}

// FeePayment is a collection event against a student's outstanding balance in
// a session. AmountPaid settles principal through the allocation waterfall;
// FineAmount is the late fine collected alongside, tracked separately so it
// never distorts principal conservation.
//
// A payment is immutable once recorded. The only permitted mutation is the
// one-way reversal flip, which preserves the row and its allocations for
// audit while excluding them from every balance computation.
type FeePayment struct {
	shared.TenantAggregateRoot
	StudentID      uuid.UUID            `json:"student_id"`
	SessionID      uuid.UUID            `json:"session_id"`
	InstallmentID  *uuid.UUID           `json:"installment_id"`
	AmountPaid     decimal.Decimal      `json:"amount_paid"`
	FineAmount     decimal.Decimal      `json:"fine_amount"`
	Mode           string               `json:"mode"`
	Reference      string               `json:"reference"`
	PaymentDate    time.Time            `json:"payment_date"`
	ReceivedBy     string               `json:"received_by"`
	IsReversed     bool                 `json:"is_reversed"`
	ReversedAt     *time.Time           `json:"reversed_at"`
	ReversedBy     string               `json:"reversed_by"`
	ReversalReason string               `json:"reversal_reason"`
	Allocations    []*PaymentAllocation `json:"allocations" gorm:"-"`
}

// NewFeePayment records a fee collection
func NewFeePayment(tenantID, studentID, sessionID uuid.UUID, installmentID *uuid.UUID, amountPaid, fineAmount decimal.Decimal, mode, reference string, paymentDate time.Time, receivedBy string) (*FeePayment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if installmentID != nil && *installmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment ID cannot be the nil UUID")
	}
	if !amountPaid.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if fineAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fine amount cannot be negative")
	}
	if !isValidPaymentMode(mode) {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Payment mode must be cash, cheque or online")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	if receivedBy == "" {
		return nil, shared.NewDomainError("INVALID_RECEIVER", "Payment receiver is required")
	}

	payment := &FeePayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StudentID:           studentID,
		SessionID:           sessionID,
		InstallmentID:       installmentID,
		AmountPaid:          amountPaid,
		FineAmount:          fineAmount,
		Mode:                mode,
		Reference:           reference,
		PaymentDate:         paymentDate,
		ReceivedBy:          receivedBy,
	}
	payment.AddDomainEvent(NewPaymentRecordedEvent(payment.ID, tenantID, studentID, sessionID, amountPaid, fineAmount))
	return payment, nil
}

// Allocate attaches an allocation slice to the payment
func (p *FeePayment) Allocate(target AllocationTarget, amount decimal.Decimal) (*PaymentAllocation, error) {
	alloc, err := NewPaymentAllocation(p.ID, target, amount)
	if err != nil {
		return nil, err
	}
	p.Allocations = append(p.Allocations, alloc)
	return alloc, nil
}

// AllocatedTotal sums the payment's allocation slices
func (p *FeePayment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// TotalCollected is the cash that actually moved: principal plus fine
func (p *FeePayment) TotalCollected() decimal.Decimal {
	return p.AmountPaid.Add(p.FineAmount)
}

// Reverse flips the payment into its reversed state. Reversal is one-way and
// idempotence is enforced: a second call fails with ALREADY_REVERSED.
func (p *FeePayment) Reverse(reversedBy, reason string) error {
	if p.IsReversed {
		return shared.ErrAlreadyReversed
	}
	if reversedBy == "" {
		return shared.NewDomainError("INVALID_ACTOR", "Reversal actor is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reversal reason is required")
	}
	now := time.Now()
	p.IsReversed = true
	p.ReversedAt = &now
	p.ReversedBy = reversedBy
	p.ReversalReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentReversedEvent(p.ID, p.TenantID, p.StudentID, p.SessionID, p.TotalCollected()))
	return nil
}

func isValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeCheque, PaymentModeOnline:
		return true
	}
	return false
}

// FeeReceipt is the numbered proof of a payment. Receipt numbers are unique
// per tenant; cancelling is one-way and happens only through payment reversal.
type FeeReceipt struct {
	shared.TenantAggregateRoot
	PaymentID     uuid.UUID  `json:"payment_id"`
	ReceiptNumber string     `json:"receipt_number"`
	Cancelled     bool       `json:"cancelled"`
	CancelledAt   *time.Time `json:"cancelled_at"`
}

// NewFeeReceipt issues a receipt for a payment
func NewFeeReceipt(tenantID, paymentID uuid.UUID, receiptNumber string) (*FeeReceipt, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	return &FeeReceipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentID:           paymentID,
		ReceiptNumber:       receiptNumber,
	}, nil
}

// Cancel voids the receipt after its payment was reversed
func (r *FeeReceipt) Cancel() {
	if r.Cancelled {
		return
	}
	now := time.Now()
	r.Cancelled = true
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
}
