package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncEnrollmentRequest asks the fee plan resolver to reconcile a student's
// obligations after an enrollment change. ClassID nil means the student no
// longer has a class in the session. PreviousSessionID, when set, triggers
// carry-forward generation from that session before obligations are synced.
type SyncEnrollmentRequest struct {
	StudentID         uuid.UUID  `json:"student_id" binding:"required"`
	SessionID         uuid.UUID  `json:"session_id" binding:"required"`
	ClassID           *uuid.UUID `json:"class_id"`
	ClassName         string     `json:"class_name"`
	PreviousSessionID *uuid.UUID `json:"previous_session_id"`
}

// UpdateClassFeeRequest changes the amount of one class fee structure row
type UpdateClassFeeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// GrantConcessionRequest grants a discount to a student for a session
type GrantConcessionRequest struct {
	StudentID    uuid.UUID       `json:"student_id" binding:"required"`
	SessionID    uuid.UUID       `json:"session_id" binding:"required"`
	FeeTypeID    *uuid.UUID      `json:"fee_type_id"`
	BenefitKind  string          `json:"benefit_kind" binding:"required,oneof=percentage fixed"`
	BenefitValue decimal.Decimal `json:"benefit_value" binding:"required"`
	Reason       string          `json:"reason"`
	ApprovedBy   string          `json:"approved_by" binding:"required"`
}

// CollectPaymentRequest records a fee collection for a student
type CollectPaymentRequest struct {
	StudentID     uuid.UUID       `json:"student_id" binding:"required"`
	SessionID     uuid.UUID       `json:"session_id" binding:"required"`
	InstallmentID *uuid.UUID      `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	FineAmount    decimal.Decimal `json:"fine_amount"`
	Mode          string          `json:"mode" binding:"required,oneof=cash cheque online"`
	Reference     string          `json:"reference"`
	PaymentDate   time.Time       `json:"payment_date"`
	ReceivedBy    string          `json:"-"` // set from JWT context, not from request body
}

// ReverseRequest carries the audit fields of a reversal
type ReverseRequest struct {
	Reason     string `json:"reason" binding:"required"`
	ReversedBy string `json:"-"` // set from JWT context
}

// CreateRefundRequest records a refund against a payment
type CreateRefundRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
	RefundDate  time.Time       `json:"refund_date"`
	ProcessedBy string          `json:"-"` // set from JWT context
}

// GenerateCarryForwardRequest snapshots a student's unpaid balance into the
// next session
type GenerateCarryForwardRequest struct {
	StudentID     uuid.UUID `json:"student_id" binding:"required"`
	FromSessionID uuid.UUID `json:"from_session_id" binding:"required"`
	ToSessionID   uuid.UUID `json:"to_session_id" binding:"required"`
}

// AllocationResponse is one payment slice in API responses
type AllocationResponse struct {
	TargetKind string          `json:"target_kind"`
	TargetID   uuid.UUID       `json:"target_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID            `json:"id"`
	StudentID      uuid.UUID            `json:"student_id"`
	SessionID      uuid.UUID            `json:"session_id"`
	InstallmentID  *uuid.UUID           `json:"installment_id,omitempty"`
	AmountPaid     decimal.Decimal      `json:"amount_paid"`
	FineAmount     decimal.Decimal      `json:"fine_amount"`
	Mode           string               `json:"mode"`
	Reference      string               `json:"reference,omitempty"`
	PaymentDate    time.Time            `json:"payment_date"`
	ReceivedBy     string               `json:"received_by"`
	ReceiptNumber  string               `json:"receipt_number,omitempty"`
	IsReversed     bool                 `json:"is_reversed"`
	ReversedAt     *time.Time           `json:"reversed_at,omitempty"`
	ReversalReason string               `json:"reversal_reason,omitempty"`
	Allocations    []AllocationResponse `json:"allocations"`
	CreatedAt      time.Time            `json:"created_at"`
}

// RefundResponse represents a refund in API responses
type RefundResponse struct {
	ID             uuid.UUID       `json:"id"`
	PaymentID      uuid.UUID       `json:"payment_id"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	RefundDate     time.Time       `json:"refund_date"`
	ProcessedBy    string          `json:"processed_by"`
	IsReversed     bool            `json:"is_reversed"`
	ReversalReason string          `json:"reversal_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FeeLineOutstanding is the per-obligation breakdown of a student's balance
type FeeLineOutstanding struct {
	StudentFeeID   uuid.UUID       `json:"student_fee_id"`
	FeeTypeName    string          `json:"fee_type_name"`
	IsCarryForward bool            `json:"is_carry_forward"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// InstallmentFine is the per-installment fine breakdown
type InstallmentFine struct {
	InstallmentID uuid.UUID       `json:"installment_id"`
	Name          string          `json:"name"`
	DueDate       time.Time       `json:"due_date"`
	FineAccrued   decimal.Decimal `json:"fine_accrued"`
	FineCollected decimal.Decimal `json:"fine_collected"`
	FineDue       decimal.Decimal `json:"fine_due"`
}

// StudentOutstandingSummary is the full picture of what a student owes in a
// session as of a given instant
type StudentOutstandingSummary struct {
	StudentID            uuid.UUID            `json:"student_id"`
	SessionID            uuid.UUID            `json:"session_id"`
	AsOf                 time.Time            `json:"as_of"`
	Lines                []FeeLineOutstanding `json:"lines"`
	Fines                []InstallmentFine    `json:"fines"`
	TotalPayable         decimal.Decimal      `json:"total_payable"`
	TotalPaid            decimal.Decimal      `json:"total_paid"`
	PrincipalOutstanding decimal.Decimal      `json:"principal_outstanding"`
	FineDue              decimal.Decimal      `json:"fine_due"`
	TotalDue             decimal.Decimal      `json:"total_due"`
}

// CarryForwardResponse represents a carry-forward due in API responses
type CarryForwardResponse struct {
	ID            uuid.UUID       `json:"id"`
	StudentID     uuid.UUID       `json:"student_id"`
	FromSessionID uuid.UUID       `json:"from_session_id"`
	ToSessionID   uuid.UUID       `json:"to_session_id"`
	Amount        decimal.Decimal `json:"amount"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StudentFeeResponse represents one materialized obligation in API responses
type StudentFeeResponse struct {
	ID               uuid.UUID       `json:"id"`
	StudentID        uuid.UUID       `json:"student_id"`
	SessionID        uuid.UUID       `json:"session_id"`
	FeeTypeID        uuid.UUID       `json:"fee_type_id"`
	FeeTypeName      string          `json:"fee_type_name"`
	IsCarryForward   bool            `json:"is_carry_forward"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ConcessionAmount decimal.Decimal `json:"concession_amount"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	Active           bool            `json:"active"`
}

// ConcessionResponse represents a concession in API responses
type ConcessionResponse struct {
	ID           uuid.UUID       `json:"id"`
	StudentID    uuid.UUID       `json:"student_id"`
	SessionID    uuid.UUID       `json:"session_id"`
	FeeTypeID    *uuid.UUID      `json:"fee_type_id,omitempty"`
	BenefitKind  string          `json:"benefit_kind"`
	BenefitValue decimal.Decimal `json:"benefit_value"`
	Reason       string          `json:"reason,omitempty"`
	ApprovedBy   string          `json:"approved_by"`
	Active       bool            `json:"active"`
}

func toPaymentResponse(payment *billing.FeePayment, receiptNumber string) *PaymentResponse {
	allocations := make([]AllocationResponse, 0, len(payment.Allocations))
	for _, a := range payment.Allocations {
		allocations = append(allocations, AllocationResponse{
			TargetKind: a.Target.Kind(),
			TargetID:   a.Target.ID(),
			Amount:     a.Amount,
		})
	}
	return &PaymentResponse{
		ID:             payment.ID,
		StudentID:      payment.StudentID,
		SessionID:      payment.SessionID,
		InstallmentID:  payment.InstallmentID,
		AmountPaid:     payment.AmountPaid,
		FineAmount:     payment.FineAmount,
		Mode:           payment.Mode,
		Reference:      payment.Reference,
		PaymentDate:    payment.PaymentDate,
		ReceivedBy:     payment.ReceivedBy,
		ReceiptNumber:  receiptNumber,
		IsReversed:     payment.IsReversed,
		ReversedAt:     payment.ReversedAt,
		ReversalReason: payment.ReversalReason,
		Allocations:    allocations,
		CreatedAt:      payment.CreatedAt,
	}
}

func toRefundResponse(refund *billing.FeeRefund) *RefundResponse {
	return &RefundResponse{
		ID:             refund.ID,
		PaymentID:      refund.PaymentID,
		Amount:         refund.Amount,
		Reason:         refund.Reason,
		RefundDate:     refund.RefundDate,
		ProcessedBy:    refund.ProcessedBy,
		IsReversed:     refund.IsReversed,
		ReversalReason: refund.ReversalReason,
		CreatedAt:      refund.CreatedAt,
	}
}

func toCarryForwardResponse(due *billing.CarryForwardDue) *CarryForwardResponse {
	return &CarryForwardResponse{
		ID:            due.ID,
		StudentID:     due.StudentID,
		FromSessionID: due.FromSessionID,
		ToSessionID:   due.ToSessionID,
		Amount:        due.Amount,
		SettledAmount: due.SettledAmount,
		CreatedAt:     due.CreatedAt,
	}
}

func toStudentFeeResponse(fee *billing.StudentFee) *StudentFeeResponse {
	return &StudentFeeResponse{
		ID:               fee.ID,
		StudentID:        fee.StudentID,
		SessionID:        fee.SessionID,
		FeeTypeID:        fee.FeeTypeID,
		FeeTypeName:      fee.FeeTypeName,
		IsCarryForward:   fee.IsCarryForward,
		TotalAmount:      fee.TotalAmount,
		ConcessionAmount: fee.ConcessionAmount,
		FinalAmount:      fee.FinalAmount,
		Active:           fee.Active,
	}
}

func toConcessionResponse(concession *billing.StudentConcession) *ConcessionResponse {
	return &ConcessionResponse{
		ID:           concession.ID,
		StudentID:    concession.StudentID,
		SessionID:    concession.SessionID,
		FeeTypeID:    concession.FeeTypeID,
		BenefitKind:  concession.Benefit.Kind(),
		BenefitValue: concession.Benefit.Value(),
		Reason:       concession.Reason,
		ApprovedBy:   concession.ApprovedBy,
		Active:       concession.Active,
	}
}
