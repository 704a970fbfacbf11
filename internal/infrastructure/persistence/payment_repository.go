package persistence

import (
	"context"
	"errors"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForTenant finds a payment by ID within a tenant, allocations included
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.FeePayment, error) {
	return r.findByID(ctx, r.db, tenantID, id)
}

// FindByIDForTenantForUpdate is FindByIDForTenant with a row-level lock.
// Refund headroom checks and reversals take it first, so two of them can
// never read the same refundable balance.
func (r *GormPaymentRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.FeePayment, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormPaymentRepository) findByID(ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID) (*billing.FeePayment, error) {
	var model models.FeePaymentModel
	if err := db.WithContext(ctx).
		Preload("Allocations").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// ListByStudentSession lists a student's payments in a session, newest first
func (r *GormPaymentRepository) ListByStudentSession(ctx context.Context, tenantID, studentID, sessionID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.FeePayment], error) {
	base := r.db.WithContext(ctx).
		Model(&models.FeePaymentModel{}).
		Where("tenant_id = ? AND student_id = ? AND session_id = ?", tenantID, studentID, sessionID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[billing.FeePayment]{}, err
	}

	query := base.Preload("Allocations").Order("payment_date DESC, created_at DESC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	var modelList []models.FeePaymentModel
	if err := query.Find(&modelList).Error; err != nil {
		return shared.Paginated[billing.FeePayment]{}, err
	}

	payments := make([]billing.FeePayment, len(modelList))
	for i := range modelList {
		payment, err := modelList[i].ToDomain()
		if err != nil {
			return shared.Paginated[billing.FeePayment]{}, err
		}
		payments[i] = *payment
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.PageSize), nil
}

// SumAllocationsForTarget sums non-reversed payment allocations against a target
func (r *GormPaymentRepository) SumAllocationsForTarget(ctx context.Context, tenantID uuid.UUID, targetKind string, targetID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocationModel{}).
		Select("COALESCE(SUM(payment_allocations.amount), 0) as total").
		Joins("JOIN fee_payments ON fee_payments.id = payment_allocations.payment_id").
		Where("fee_payments.tenant_id = ? AND fee_payments.is_reversed = ?", tenantID, false).
		Where("payment_allocations.target_kind = ? AND payment_allocations.target_id = ?", targetKind, targetID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumFineCollectedForInstallment sums the fine collected by non-reversed
// payments of a student under an installment
func (r *GormPaymentRepository) SumFineCollectedForInstallment(ctx context.Context, tenantID, studentID, installmentID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.FeePaymentModel{}).
		Select("COALESCE(SUM(fine_amount), 0) as total").
		Where("tenant_id = ? AND student_id = ? AND installment_id = ? AND is_reversed = ?",
			tenantID, studentID, installmentID, false).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a payment together with its allocations
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.FeePayment) error {
	model := models.FeePaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// SaveReceipt creates or updates a receipt
func (r *GormPaymentRepository) SaveReceipt(ctx context.Context, receipt *billing.FeeReceipt) error {
	model := models.FeeReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindReceiptByPayment finds the receipt issued for a payment
func (r *GormPaymentRepository) FindReceiptByPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*billing.FeeReceipt, error) {
	var model models.FeeReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_id = ?", tenantID, paymentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormPaymentRepository implements the interface
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
