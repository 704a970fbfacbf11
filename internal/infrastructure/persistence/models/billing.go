package models

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeTypeModel is the persistence model for the FeeType aggregate root. The
// tenant ID is declared directly so it can join the unique index that scopes
// fee type names per school; that index also backs the ON CONFLICT clause of
// the get-or-create path.
type FeeTypeModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_fee_type_tenant_name,priority:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_fee_type_tenant_name,priority:2"`
	Category  string     `gorm:"type:varchar(20);not null"`
	Active    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FeeTypeModel) TableName() string {
	return "fee_types"
}

// ToDomain converts the persistence model to a domain FeeType.
func (m *FeeTypeModel) ToDomain() *billing.FeeType {
	feeType := &billing.FeeType{
		Name:     m.Name,
		Category: m.Category,
		Active:   m.Active,
	}
	feeType.ID = m.ID
	feeType.CreatedAt = m.CreatedAt
	feeType.UpdatedAt = m.UpdatedAt
	feeType.Version = m.Version
	feeType.TenantID = m.TenantID
	feeType.CreatedBy = m.CreatedBy
	return feeType
}

// FromDomain populates the persistence model from a domain FeeType.
func (m *FeeTypeModel) FromDomain(f *billing.FeeType) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.TenantID = f.TenantID
	m.CreatedBy = f.CreatedBy
	m.Name = f.Name
	m.Category = f.Category
	m.Active = f.Active
}

// FeeTypeModelFromDomain creates a new persistence model from a domain FeeType.
func FeeTypeModelFromDomain(f *billing.FeeType) *FeeTypeModel {
	m := &FeeTypeModel{}
	m.FromDomain(f)
	return m
}

// ClassFeeStructureModel is the persistence model for the ClassFeeStructure aggregate root.
type ClassFeeStructureModel struct {
	TenantAggregateModel
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index:idx_structure_session_class"`
	ClassID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_structure_session_class"`
	FeeTypeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Active    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClassFeeStructureModel) TableName() string {
	return "class_fee_structures"
}

// ToDomain converts the persistence model to a domain ClassFeeStructure.
func (m *ClassFeeStructureModel) ToDomain() *billing.ClassFeeStructure {
	return &billing.ClassFeeStructure{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		SessionID:           m.SessionID,
		ClassID:             m.ClassID,
		FeeTypeID:           m.FeeTypeID,
		Amount:              m.Amount,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain ClassFeeStructure.
func (m *ClassFeeStructureModel) FromDomain(s *billing.ClassFeeStructure) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.SessionID = s.SessionID
	m.ClassID = s.ClassID
	m.FeeTypeID = s.FeeTypeID
	m.Amount = s.Amount
	m.Active = s.Active
}

// ClassFeeStructureModelFromDomain creates a new persistence model from a domain ClassFeeStructure.
func ClassFeeStructureModelFromDomain(s *billing.ClassFeeStructure) *ClassFeeStructureModel {
	m := &ClassFeeStructureModel{}
	m.FromDomain(s)
	return m
}

// InstallmentModel is the persistence model for the Installment aggregate root.
// The optional split is flattened into kind and value columns; both are nil
// when the installment carries no split.
type InstallmentModel struct {
	TenantAggregateModel
	SessionID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name       string           `gorm:"type:varchar(100);not null"`
	DueDate    time.Time        `gorm:"not null;index"`
	FinePerDay decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	SplitKind  *string          `gorm:"type:varchar(20)"`
	SplitValue *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Active     bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() (*billing.Installment, error) {
	var split *billing.InstallmentSplit
	if m.SplitKind != nil && m.SplitValue != nil {
		s, err := billing.SplitFromParts(*m.SplitKind, *m.SplitValue)
		if err != nil {
			return nil, err
		}
		split = &s
	}
	return &billing.Installment{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		SessionID:           m.SessionID,
		Name:                m.Name,
		DueDate:             m.DueDate,
		FinePerDay:          m.FinePerDay,
		Split:               split,
		Active:              m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain Installment.
func (m *InstallmentModel) FromDomain(i *billing.Installment) {
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	m.SessionID = i.SessionID
	m.Name = i.Name
	m.DueDate = i.DueDate
	m.FinePerDay = i.FinePerDay
	m.SplitKind = nil
	m.SplitValue = nil
	if i.Split != nil {
		kind := i.Split.Kind()
		value := i.Split.Value()
		m.SplitKind = &kind
		m.SplitValue = &value
	}
	m.Active = i.Active
}

// InstallmentModelFromDomain creates a new persistence model from a domain Installment.
func InstallmentModelFromDomain(i *billing.Installment) *InstallmentModel {
	m := &InstallmentModel{}
	m.FromDomain(i)
	return m
}

// StudentFeeModel is the persistence model for the StudentFee aggregate root.
type StudentFeeModel struct {
	TenantAggregateModel
	StudentID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_student_fee_key,priority:1"`
	SessionID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_student_fee_key,priority:2;index"`
	FeeTypeID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_student_fee_key,priority:3"`
	FeeTypeName      string          `gorm:"type:varchar(100);not null"`
	IsCarryForward   bool            `gorm:"not null;default:false"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ConcessionAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	FinalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Active           bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (StudentFeeModel) TableName() string {
	return "student_fees"
}

// ToDomain converts the persistence model to a domain StudentFee.
func (m *StudentFeeModel) ToDomain() *billing.StudentFee {
	return &billing.StudentFee{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		StudentID:           m.StudentID,
		SessionID:           m.SessionID,
		FeeTypeID:           m.FeeTypeID,
		FeeTypeName:         m.FeeTypeName,
		IsCarryForward:      m.IsCarryForward,
		TotalAmount:         m.TotalAmount,
		ConcessionAmount:    m.ConcessionAmount,
		FinalAmount:         m.FinalAmount,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain StudentFee.
func (m *StudentFeeModel) FromDomain(f *billing.StudentFee) {
	m.FromDomainTenantAggregateRoot(f.TenantAggregateRoot)
	m.StudentID = f.StudentID
	m.SessionID = f.SessionID
	m.FeeTypeID = f.FeeTypeID
	m.FeeTypeName = f.FeeTypeName
	m.IsCarryForward = f.IsCarryForward
	m.TotalAmount = f.TotalAmount
	m.ConcessionAmount = f.ConcessionAmount
	m.FinalAmount = f.FinalAmount
	m.Active = f.Active
}

// StudentFeeModelFromDomain creates a new persistence model from a domain StudentFee.
func StudentFeeModelFromDomain(f *billing.StudentFee) *StudentFeeModel {
	m := &StudentFeeModel{}
	m.FromDomain(f)
	return m
}

// StudentConcessionModel is the persistence model for the StudentConcession
// aggregate root. The benefit tagged union is flattened into kind and value.
type StudentConcessionModel struct {
	TenantAggregateModel
	StudentID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_concession_student_session"`
	SessionID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_concession_student_session"`
	FeeTypeID    *uuid.UUID      `gorm:"type:uuid;index"`
	BenefitKind  string          `gorm:"type:varchar(20);not null"`
	BenefitValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reason       string          `gorm:"type:varchar(500)"`
	ApprovedBy   string          `gorm:"type:varchar(100);not null"`
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StudentConcessionModel) TableName() string {
	return "student_concessions"
}

// ToDomain converts the persistence model to a domain StudentConcession.
func (m *StudentConcessionModel) ToDomain() (*billing.StudentConcession, error) {
	benefit, err := billing.BenefitFromParts(m.BenefitKind, m.BenefitValue)
	if err != nil {
		return nil, err
	}
	return &billing.StudentConcession{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		StudentID:           m.StudentID,
		SessionID:           m.SessionID,
		FeeTypeID:           m.FeeTypeID,
		Benefit:             benefit,
		Reason:              m.Reason,
		ApprovedBy:          m.ApprovedBy,
		Active:              m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain StudentConcession.
func (m *StudentConcessionModel) FromDomain(c *billing.StudentConcession) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.StudentID = c.StudentID
	m.SessionID = c.SessionID
	m.FeeTypeID = c.FeeTypeID
	m.BenefitKind = c.Benefit.Kind()
	m.BenefitValue = c.Benefit.Value()
	m.Reason = c.Reason
	m.ApprovedBy = c.ApprovedBy
	m.Active = c.Active
}

// StudentConcessionModelFromDomain creates a new persistence model from a domain StudentConcession.
func StudentConcessionModelFromDomain(c *billing.StudentConcession) *StudentConcessionModel {
	m := &StudentConcessionModel{}
	m.FromDomain(c)
	return m
}

// CarryForwardDueModel is the persistence model for the CarryForwardDue aggregate root.
type CarryForwardDueModel struct {
	TenantAggregateModel
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carry_forward_transition,priority:1"`
	FromSessionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carry_forward_transition,priority:2"`
	ToSessionID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carry_forward_transition,priority:3;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SettledAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CarryForwardDueModel) TableName() string {
	return "carry_forward_dues"
}

// ToDomain converts the persistence model to a domain CarryForwardDue.
func (m *CarryForwardDueModel) ToDomain() *billing.CarryForwardDue {
	return &billing.CarryForwardDue{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		StudentID:           m.StudentID,
		FromSessionID:       m.FromSessionID,
		ToSessionID:         m.ToSessionID,
		Amount:              m.Amount,
		SettledAmount:       m.SettledAmount,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain CarryForwardDue.
func (m *CarryForwardDueModel) FromDomain(c *billing.CarryForwardDue) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.StudentID = c.StudentID
	m.FromSessionID = c.FromSessionID
	m.ToSessionID = c.ToSessionID
	m.Amount = c.Amount
	m.SettledAmount = c.SettledAmount
	m.Active = c.Active
}

// CarryForwardDueModelFromDomain creates a new persistence model from a domain CarryForwardDue.
func CarryForwardDueModelFromDomain(c *billing.CarryForwardDue) *CarryForwardDueModel {
	m := &CarryForwardDueModel{}
	m.FromDomain(c)
	return m
}

// FeePaymentModel is the persistence model for the FeePayment aggregate root.
type FeePaymentModel struct {
	TenantAggregateModel
	StudentID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_payment_student_session"`
	SessionID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_payment_student_session"`
	InstallmentID  *uuid.UUID               `gorm:"type:uuid;index"`
	AmountPaid     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	FineAmount     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Mode           string                   `gorm:"type:varchar(20);not null"`
	Reference      string                   `gorm:"type:varchar(200)"`
	PaymentDate    time.Time                `gorm:"not null;index"`
	ReceivedBy     string                   `gorm:"type:varchar(100);not null"`
	IsReversed     bool                     `gorm:"not null;default:false;index"`
	ReversedAt     *time.Time               ``
	ReversedBy     string                   `gorm:"type:varchar(100)"`
	ReversalReason string                   `gorm:"type:varchar(500)"`
	Allocations    []PaymentAllocationModel `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (FeePaymentModel) TableName() string {
	return "fee_payments"
}

// ToDomain converts the persistence model to a domain FeePayment, allocations included.
func (m *FeePaymentModel) ToDomain() (*billing.FeePayment, error) {
	payment := &billing.FeePayment{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		StudentID:           m.StudentID,
		SessionID:           m.SessionID,
		InstallmentID:       m.InstallmentID,
		AmountPaid:          m.AmountPaid,
		FineAmount:          m.FineAmount,
		Mode:                m.Mode,
		Reference:           m.Reference,
		PaymentDate:         m.PaymentDate,
		ReceivedBy:          m.ReceivedBy,
		IsReversed:          m.IsReversed,
		ReversedAt:          m.ReversedAt,
		ReversedBy:          m.ReversedBy,
		ReversalReason:      m.ReversalReason,
		Allocations:         make([]*billing.PaymentAllocation, len(m.Allocations)),
	}
	for i, a := range m.Allocations {
		alloc, err := a.ToDomain()
		if err != nil {
			return nil, err
		}
		payment.Allocations[i] = alloc
	}
	return payment, nil
}

// FromDomain populates the persistence model from a domain FeePayment.
func (m *FeePaymentModel) FromDomain(p *billing.FeePayment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.StudentID = p.StudentID
	m.SessionID = p.SessionID
	m.InstallmentID = p.InstallmentID
	m.AmountPaid = p.AmountPaid
	m.FineAmount = p.FineAmount
	m.Mode = p.Mode
	m.Reference = p.Reference
	m.PaymentDate = p.PaymentDate
	m.ReceivedBy = p.ReceivedBy
	m.IsReversed = p.IsReversed
	m.ReversedAt = p.ReversedAt
	m.ReversedBy = p.ReversedBy
	m.ReversalReason = p.ReversalReason
	m.Allocations = make([]PaymentAllocationModel, len(p.Allocations))
	for i, alloc := range p.Allocations {
		m.Allocations[i] = *PaymentAllocationModelFromDomain(alloc)
	}
}

// FeePaymentModelFromDomain creates a new persistence model from a domain FeePayment.
func FeePaymentModelFromDomain(p *billing.FeePayment) *FeePaymentModel {
	m := &FeePaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentAllocationModel is the persistence model for PaymentAllocation. The
// allocation target tagged union is flattened into kind and ID columns.
type PaymentAllocationModel struct {
	BaseModel
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetKind string          `gorm:"type:varchar(20);not null;index:idx_allocation_target"`
	TargetID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_allocation_target"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation.
func (m *PaymentAllocationModel) ToDomain() (*billing.PaymentAllocation, error) {
	target, err := billing.TargetFromParts(m.TargetKind, m.TargetID)
	if err != nil {
		return nil, err
	}
	return &billing.PaymentAllocation{
		BaseEntity: m.BaseModel.ToDomain(),
		PaymentID:  m.PaymentID,
		Target:     target,
		Amount:     m.Amount,
	}, nil
}

// PaymentAllocationModelFromDomain creates a new persistence model from a domain PaymentAllocation.
func PaymentAllocationModelFromDomain(a *billing.PaymentAllocation) *PaymentAllocationModel {
	m := &PaymentAllocationModel{}
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PaymentID = a.PaymentID
	m.TargetKind = a.Target.Kind()
	m.TargetID = a.Target.ID()
	m.Amount = a.Amount
	return m
}

// FeeReceiptModel is the persistence model for the FeeReceipt aggregate root.
type FeeReceiptModel struct {
	AggregateModel
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_tenant_number,priority:1"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid;index"`
	PaymentID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ReceiptNumber string     `gorm:"type:varchar(60);not null;uniqueIndex:idx_receipt_tenant_number,priority:2"`
	Cancelled     bool       `gorm:"not null;default:false"`
	CancelledAt   *time.Time ``
}

// TableName returns the table name for GORM
func (FeeReceiptModel) TableName() string {
	return "fee_receipts"
}

// ToDomain converts the persistence model to a domain FeeReceipt.
func (m *FeeReceiptModel) ToDomain() *billing.FeeReceipt {
	receipt := &billing.FeeReceipt{
		PaymentID:     m.PaymentID,
		ReceiptNumber: m.ReceiptNumber,
		Cancelled:     m.Cancelled,
		CancelledAt:   m.CancelledAt,
	}
	receipt.ID = m.ID
	receipt.CreatedAt = m.CreatedAt
	receipt.UpdatedAt = m.UpdatedAt
	receipt.Version = m.Version
	receipt.TenantID = m.TenantID
	receipt.CreatedBy = m.CreatedBy
	return receipt
}

// FromDomain populates the persistence model from a domain FeeReceipt.
func (m *FeeReceiptModel) FromDomain(r *billing.FeeReceipt) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.TenantID = r.TenantID
	m.CreatedBy = r.CreatedBy
	m.PaymentID = r.PaymentID
	m.ReceiptNumber = r.ReceiptNumber
	m.Cancelled = r.Cancelled
	m.CancelledAt = r.CancelledAt
}

// FeeReceiptModelFromDomain creates a new persistence model from a domain FeeReceipt.
func FeeReceiptModelFromDomain(r *billing.FeeReceipt) *FeeReceiptModel {
	m := &FeeReceiptModel{}
	m.FromDomain(r)
	return m
}

// FeeRefundModel is the persistence model for the FeeRefund aggregate root.
type FeeRefundModel struct {
	TenantAggregateModel
	PaymentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reason         string          `gorm:"type:varchar(500);not null"`
	RefundDate     time.Time       `gorm:"not null"`
	ProcessedBy    string          `gorm:"type:varchar(100);not null"`
	IsReversed     bool            `gorm:"not null;default:false"`
	ReversedAt     *time.Time      ``
	ReversedBy     string          `gorm:"type:varchar(100)"`
	ReversalReason string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (FeeRefundModel) TableName() string {
	return "fee_refunds"
}

// ToDomain converts the persistence model to a domain FeeRefund.
func (m *FeeRefundModel) ToDomain() *billing.FeeRefund {
	return &billing.FeeRefund{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		PaymentID:           m.PaymentID,
		Amount:              m.Amount,
		Reason:              m.Reason,
		RefundDate:          m.RefundDate,
		ProcessedBy:         m.ProcessedBy,
		IsReversed:          m.IsReversed,
		ReversedAt:          m.ReversedAt,
		ReversedBy:          m.ReversedBy,
		ReversalReason:      m.ReversalReason,
	}
}

// FromDomain populates the persistence model from a domain FeeRefund.
func (m *FeeRefundModel) FromDomain(r *billing.FeeRefund) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.PaymentID = r.PaymentID
	m.Amount = r.Amount
	m.Reason = r.Reason
	m.RefundDate = r.RefundDate
	m.ProcessedBy = r.ProcessedBy
	m.IsReversed = r.IsReversed
	m.ReversedAt = r.ReversedAt
	m.ReversedBy = r.ReversedBy
	m.ReversalReason = r.ReversalReason
}

// FeeRefundModelFromDomain creates a new persistence model from a domain FeeRefund.
func FeeRefundModelFromDomain(r *billing.FeeRefund) *FeeRefundModel {
	m := &FeeRefundModel{}
	m.FromDomain(r)
	return m
}
