package persistence

import (
	"context"
	"errors"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRefundRepository implements billing.RefundRepository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// FindByIDForTenant finds a refund by ID within a tenant
func (r *GormRefundRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.FeeRefund, error) {
	var model models.FeeRefundModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumNonReversedByPayment sums the non-reversed refunds against a payment
func (r *GormRefundRepository) SumNonReversedByPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.FeeRefundModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND payment_id = ? AND is_reversed = ?", tenantID, paymentID, false).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a refund
func (r *GormRefundRepository) Save(ctx context.Context, refund *billing.FeeRefund) error {
	model := models.FeeRefundModelFromDomain(refund)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormRefundRepository implements the interface
var _ billing.RefundRepository = (*GormRefundRepository)(nil)
