package persistence

import (
	"context"

	appbilling "github.com/schoolerp/backend/internal/application/billing"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/school"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// FeeTypes returns the fee type repository scoped to the current transaction.
func (r *gormTransactionalRepositories) FeeTypes() billing.FeeTypeRepository {
	return NewGormFeeTypeRepository(r.tx)
}

// FeeStructures returns the class fee structure repository scoped to the current transaction.
func (r *gormTransactionalRepositories) FeeStructures() billing.ClassFeeStructureRepository {
	return NewGormClassFeeStructureRepository(r.tx)
}

// Installments returns the installment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Installments() billing.InstallmentRepository {
	return NewGormInstallmentRepository(r.tx)
}

// StudentFees returns the student fee repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StudentFees() billing.StudentFeeRepository {
	return NewGormStudentFeeRepository(r.tx)
}

// Concessions returns the concession repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Concessions() billing.ConcessionRepository {
	return NewGormConcessionRepository(r.tx)
}

// CarryForwards returns the carry-forward repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CarryForwards() billing.CarryForwardRepository {
	return NewGormCarryForwardRepository(r.tx)
}

// Payments returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payments() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Refunds returns the refund repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Refunds() billing.RefundRepository {
	return NewGormRefundRepository(r.tx)
}

// LedgerEntries returns the ledger entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LedgerEntries() ledger.EntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// Sessions returns the academic session repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Sessions() school.SessionRepository {
	return NewGormSessionRepository(r.tx)
}

// Enrollments returns the enrollment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Enrollments() school.EnrollmentRepository {
	return NewGormEnrollmentRepository(r.tx)
}

// Transaction runs fn inside a nested transaction. GORM issues a savepoint
// under the running transaction, so a failing fn rolls back only the nested
// writes.
func (r *gormTransactionalRepositories) Transaction(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return r.tx.WithContext(ctx).Transaction(func(nested *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: nested})
	})
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
