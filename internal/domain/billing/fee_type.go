package billing

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Fee type categories
const (
	FeeCategoryAcademic  = "academic"
	FeeCategoryTransport = "transport"
	FeeCategoryOther     = "other"
)

// CarryForwardFeeTypeName is the reserved fee type under which prior-session
// dues are materialized in the new session. It is created on demand per
// tenant and ordered ahead of every other head during payment allocation.
const CarryForwardFeeTypeName = "Carry Forward Due"

// FeeType is a named fee head a school charges under, e.g. Tuition Fee or
// Exam Fee. Amounts are never stored here; they live on ClassFeeStructure.
type FeeType struct {
	shared.TenantAggregateRoot
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
}

// NewFeeType creates a new fee type
func NewFeeType(tenantID uuid.UUID, name, category string) (*FeeType, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE_NAME", "Fee type name cannot be empty")
	}
	if !isValidFeeCategory(category) {
		return nil, shared.NewDomainError("INVALID_FEE_CATEGORY", "Fee category must be academic, transport or other")
	}

	return &FeeType{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Category:            category,
		Active:              true,
	}, nil
}

// Rename changes the fee type's display name
func (f *FeeType) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FEE_TYPE_NAME", "Fee type name cannot be empty")
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
	return nil
}

// Deactivate retires the fee type. Existing obligations are untouched.
func (f *FeeType) Deactivate() {
	f.Active = false
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}

// IsCarryForward reports whether this is the reserved carry-forward head
func (f *FeeType) IsCarryForward() bool {
	return f.Name == CarryForwardFeeTypeName
}

func isValidFeeCategory(category string) bool {
	switch category {
	case FeeCategoryAcademic, FeeCategoryTransport, FeeCategoryOther:
		return true
	}
	return false
}
