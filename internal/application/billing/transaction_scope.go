package billing

import (
	"context"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/school"
)

// TransactionScope provides transactional access to the billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
//
// Every money movement (payment, reversal, refund, carry-forward generation)
// runs inside one scope so that obligations, allocations and ledger entries
// can never drift apart.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all billing repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// FeeTypes returns the fee type repository scoped to the current transaction
	FeeTypes() billing.FeeTypeRepository
	// FeeStructures returns the class fee structure repository scoped to the current transaction
	FeeStructures() billing.ClassFeeStructureRepository
	// Installments returns the installment repository scoped to the current transaction
	Installments() billing.InstallmentRepository
	// StudentFees returns the student fee repository scoped to the current transaction
	StudentFees() billing.StudentFeeRepository
	// Concessions returns the concession repository scoped to the current transaction
	Concessions() billing.ConcessionRepository
	// CarryForwards returns the carry-forward repository scoped to the current transaction
	CarryForwards() billing.CarryForwardRepository
	// Payments returns the payment repository scoped to the current transaction
	Payments() billing.PaymentRepository
	// Refunds returns the refund repository scoped to the current transaction
	Refunds() billing.RefundRepository
	// LedgerEntries returns the ledger entry repository scoped to the current transaction
	LedgerEntries() ledger.EntryRepository
	// Sessions returns the academic session repository scoped to the current transaction
	Sessions() school.SessionRepository
	// Enrollments returns the enrollment repository scoped to the current transaction
	Enrollments() school.EnrollmentRepository

	// Transaction runs fn in a nested transaction (a savepoint under the
	// current one). When fn fails only the nested writes roll back; the
	// surrounding transaction stays usable.
	Transaction(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	feeTypes      billing.FeeTypeRepository
	feeStructures billing.ClassFeeStructureRepository
	installments  billing.InstallmentRepository
	studentFees   billing.StudentFeeRepository
	concessions   billing.ConcessionRepository
	carryForwards billing.CarryForwardRepository
	payments      billing.PaymentRepository
	refunds       billing.RefundRepository
	ledgerEntries ledger.EntryRepository
	sessions      school.SessionRepository
	enrollments   school.EnrollmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	feeTypes billing.FeeTypeRepository,
	feeStructures billing.ClassFeeStructureRepository,
	installments billing.InstallmentRepository,
	studentFees billing.StudentFeeRepository,
	concessions billing.ConcessionRepository,
	carryForwards billing.CarryForwardRepository,
	payments billing.PaymentRepository,
	refunds billing.RefundRepository,
	ledgerEntries ledger.EntryRepository,
	sessions school.SessionRepository,
	enrollments school.EnrollmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		feeTypes:      feeTypes,
		feeStructures: feeStructures,
		installments:  installments,
		studentFees:   studentFees,
		concessions:   concessions,
		carryForwards: carryForwards,
		payments:      payments,
		refunds:       refunds,
		ledgerEntries: ledgerEntries,
		sessions:      sessions,
		enrollments:   enrollments,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Transaction runs fn against the same repositories. There is no savepoint
// here; a failing fn leaves its writes in place.
func (s *NoOpTransactionScope) Transaction(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// FeeTypes returns the fee type repository.
func (s *NoOpTransactionScope) FeeTypes() billing.FeeTypeRepository { return s.feeTypes }

// FeeStructures returns the class fee structure repository.
func (s *NoOpTransactionScope) FeeStructures() billing.ClassFeeStructureRepository {
	return s.feeStructures
}

// Installments returns the installment repository.
func (s *NoOpTransactionScope) Installments() billing.InstallmentRepository { return s.installments }

// StudentFees returns the student fee repository.
func (s *NoOpTransactionScope) StudentFees() billing.StudentFeeRepository { return s.studentFees }

// Concessions returns the concession repository.
func (s *NoOpTransactionScope) Concessions() billing.ConcessionRepository { return s.concessions }

// CarryForwards returns the carry-forward repository.
func (s *NoOpTransactionScope) CarryForwards() billing.CarryForwardRepository {
	return s.carryForwards
}

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() billing.PaymentRepository { return s.payments }

// Refunds returns the refund repository.
func (s *NoOpTransactionScope) Refunds() billing.RefundRepository { return s.refunds }

// LedgerEntries returns the ledger entry repository.
func (s *NoOpTransactionScope) LedgerEntries() ledger.EntryRepository { return s.ledgerEntries }

// Sessions returns the academic session repository.
func (s *NoOpTransactionScope) Sessions() school.SessionRepository { return s.sessions }

// Enrollments returns the enrollment repository.
func (s *NoOpTransactionScope) Enrollments() school.EnrollmentRepository { return s.enrollments }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
