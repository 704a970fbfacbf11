package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StudentFee is one student's materialized obligation for one fee type in one
// session. TotalAmount mirrors the class fee structure, ConcessionAmount is
// the allocated discount and FinalAmount is the payable that the outstanding
// calculator and payment waterfall operate on.
//
// Rows are never deleted once created; enrollment changes toggle Active so
// that payment history stays attached.
type StudentFee struct {
	shared.TenantAggregateRoot
	StudentID        uuid.UUID       `json:"student_id"`
	SessionID        uuid.UUID       `json:"session_id"`
	FeeTypeID        uuid.UUID       `json:"fee_type_id"`
	FeeTypeName      string          `json:"fee_type_name"` // denormalized for allocation ordering
	IsCarryForward   bool            `json:"is_carry_forward"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ConcessionAmount decimal.Decimal `json:"concession_amount"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	Active           bool            `json:"active"`
}

// NewStudentFee materializes an obligation for a student
func NewStudentFee(tenantID, studentID, sessionID, feeTypeID uuid.UUID, feeTypeName string, totalAmount decimal.Decimal) (*StudentFee, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if feeTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE", "Fee type ID cannot be empty")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}

	return &StudentFee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StudentID:           studentID,
		SessionID:           sessionID,
		FeeTypeID:           feeTypeID,
		FeeTypeName:         feeTypeName,
		IsCarryForward:      feeTypeName == CarryForwardFeeTypeName,
		TotalAmount:         totalAmount,
		ConcessionAmount:    decimal.Zero,
		FinalAmount:         totalAmount,
		Active:              true,
	}, nil
}

// ChangeTotal resets the obligation's gross amount, e.g. when the class fee
// structure changes or the carry-forward total is regenerated. The concession
// is re-clamped against the new total.
func (f *StudentFee) ChangeTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}
	f.TotalAmount = total
	f.applyConcession(f.ConcessionAmount)
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
	return nil
}

// ApplyConcession sets the discount on this obligation, clamping the value
// into [0, TotalAmount]. It reports whether anything actually changed so
// callers can skip persisting untouched rows.
func (f *StudentFee) ApplyConcession(amount decimal.Decimal) bool {
	before := f.ConcessionAmount
	f.applyConcession(amount)
	if f.ConcessionAmount.Equal(before) {
		return false
	}
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
	return true
}

func (f *StudentFee) applyConcession(amount decimal.Decimal) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(f.TotalAmount) {
		amount = f.TotalAmount
	}
	f.ConcessionAmount = amount
	f.FinalAmount = f.TotalAmount.Sub(amount)
}

// Activate re-enables the obligation after an enrollment change
func (f *StudentFee) Activate() {
	if f.Active {
		return
	}
	f.Active = true
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}

// Deactivate disables the obligation without losing payment history
func (f *StudentFee) Deactivate() {
	if !f.Active {
		return
	}
	f.Active = false
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}
