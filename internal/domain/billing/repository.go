package billing

import (
	"context"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeTypeRepository defines the interface for fee type persistence
type FeeTypeRepository interface {
	// FindByIDForTenant finds a fee type by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeeType, error)

	// FindByNameForTenant finds a fee type by exact name
	FindByNameForTenant(ctx context.Context, tenantID uuid.UUID, name string) (*FeeType, error)

	// GetOrCreateByName returns the named fee type, creating it if absent
	GetOrCreateByName(ctx context.Context, tenantID uuid.UUID, name, category string) (*FeeType, error)

	// Save creates or updates a fee type
	Save(ctx context.Context, feeType *FeeType) error
}

// ClassFeeStructureRepository defines the interface for fee structure persistence
type ClassFeeStructureRepository interface {
	// FindByIDForTenant finds a structure row by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ClassFeeStructure, error)

	// FindActiveBySessionClass finds the active structure rows for a class in a session
	FindActiveBySessionClass(ctx context.Context, tenantID, sessionID, classID uuid.UUID) ([]ClassFeeStructure, error)

	// Save creates or updates a structure row
	Save(ctx context.Context, structure *ClassFeeStructure) error
}

// InstallmentRepository defines the interface for installment persistence
type InstallmentRepository interface {
	// FindByIDForTenant finds an installment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Installment, error)

	// FindActiveBySession finds the active installments of a session ordered by due date
	FindActiveBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]Installment, error)

	// Save creates or updates an installment
	Save(ctx context.Context, installment *Installment) error
}

// StudentFeeRepository defines the interface for student fee persistence
type StudentFeeRepository interface {
	// FindByIDForTenant finds an obligation by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StudentFee, error)

	// FindByKey finds the obligation for a (student, session, fee type) triple,
	// active or not
	FindByKey(ctx context.Context, tenantID, studentID, sessionID, feeTypeID uuid.UUID) (*StudentFee, error)

	// FindByStudentSession finds all obligations of a student in a session,
	// active or not
	FindByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]StudentFee, error)

	// FindActiveByStudentSession finds the active obligations of a student in a
	// session, carry-forward first then by fee type name
	FindActiveByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]StudentFee, error)

	// FindActiveByStudentSessionForUpdate is FindActiveByStudentSession with a
	// row-level lock, serializing concurrent money movements per student
	FindActiveByStudentSessionForUpdate(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]StudentFee, error)

	// HasObligations reports whether any obligation has been materialized
	// from the given fee structure row: a student fee row for the structure's
	// fee type belonging to a student enrolled in the class, active or not
	HasObligations(ctx context.Context, tenantID, sessionID, classID, feeTypeID uuid.UUID) (bool, error)

	// Save creates or updates an obligation
	Save(ctx context.Context, fee *StudentFee) error
}

// ConcessionRepository defines the interface for concession persistence
type ConcessionRepository interface {
	// FindByIDForTenant finds a concession by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StudentConcession, error)

	// FindActiveByStudentSession finds the active concessions of a student in a session
	FindActiveByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]StudentConcession, error)

	// Save creates or updates a concession
	Save(ctx context.Context, concession *StudentConcession) error
}

// CarryForwardRepository defines the interface for carry-forward persistence
type CarryForwardRepository interface {
	// FindByIDForTenant finds a carry-forward due by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CarryForwardDue, error)

	// FindByTransition finds the carry-forward due of a student for one
	// session-to-session transition
	FindByTransition(ctx context.Context, tenantID, studentID, fromSessionID, toSessionID uuid.UUID) (*CarryForwardDue, error)

	// FindActiveByStudentToSession finds all active carry-forward dues landing
	// in the given session for a student
	FindActiveByStudentToSession(ctx context.Context, tenantID, studentID, toSessionID uuid.UUID) ([]CarryForwardDue, error)

	// Save creates or updates a carry-forward due
	Save(ctx context.Context, due *CarryForwardDue) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForTenant finds a payment by ID for a specific tenant,
	// allocations included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeePayment, error)

	// FindByIDForTenantForUpdate is FindByIDForTenant with a row-level lock,
	// serializing concurrent refunds and reversals against one payment
	FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*FeePayment, error)

	// ListByStudentSession lists a student's payments in a session, newest first
	ListByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID, filter shared.Filter) (shared.Paginated[FeePayment], error)

	// SumAllocationsForTarget sums non-reversed payment allocations against a target
	SumAllocationsForTarget(ctx context.Context, tenantID uuid.UUID, targetKind string, targetID uuid.UUID) (decimal.Decimal, error)

	// SumFineCollectedForInstallment sums the fine collected by non-reversed
	// payments of a student under an installment
	SumFineCollectedForInstallment(ctx context.Context, tenantID, studentID, installmentID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a payment together with its allocations
	Save(ctx context.Context, payment *FeePayment) error

	// SaveReceipt creates or updates a receipt
	SaveReceipt(ctx context.Context, receipt *FeeReceipt) error

	// FindReceiptByPayment finds the receipt issued for a payment
	FindReceiptByPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*FeeReceipt, error)
}

// RefundRepository defines the interface for refund persistence
type RefundRepository interface {
	// FindByIDForTenant finds a refund by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FeeRefund, error)

	// SumNonReversedByPayment sums the non-reversed refunds against a payment
	SumNonReversedByPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a refund
	Save(ctx context.Context, refund *FeeRefund) error
}
