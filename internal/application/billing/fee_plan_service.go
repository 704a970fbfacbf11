package billing

import (
	"context"
	"errors"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeePlanService manages the fee plan (fee types, class fee structures,
// installments) and resolves it into per-student obligations whenever
// enrollment changes.
type FeePlanService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewFeePlanService creates a new FeePlanService
func NewFeePlanService(scope TransactionScope, logger *zap.Logger) *FeePlanService {
	return &FeePlanService{scope: scope, logger: logger}
}

// CreateFeeTypeRequest creates a named fee head
type CreateFeeTypeRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required,oneof=academic transport other"`
}

// FeeTypeResponse represents a fee type in API responses
type FeeTypeResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Active   bool      `json:"active"`
}

// CreateClassFeeRequest maps a fee type to a class for a session
type CreateClassFeeRequest struct {
	SessionID uuid.UUID       `json:"session_id" binding:"required"`
	ClassID   uuid.UUID       `json:"class_id" binding:"required"`
	FeeTypeID uuid.UUID       `json:"fee_type_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// ClassFeeResponse represents a class fee structure row in API responses
type ClassFeeResponse struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	ClassID   uuid.UUID       `json:"class_id"`
	FeeTypeID uuid.UUID       `json:"fee_type_id"`
	Amount    decimal.Decimal `json:"amount"`
	Active    bool            `json:"active"`
}

// CreateInstallmentRequest schedules a collection window in a session
type CreateInstallmentRequest struct {
	SessionID  uuid.UUID       `json:"session_id" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	DueDate    time.Time       `json:"due_date" binding:"required"`
	FinePerDay decimal.Decimal `json:"fine_per_day"`
	SplitKind  string          `json:"split_kind" binding:"omitempty,oneof=fixed percentage"`
	SplitValue decimal.Decimal `json:"split_value"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	SessionID  uuid.UUID       `json:"session_id"`
	Name       string          `json:"name"`
	DueDate    time.Time       `json:"due_date"`
	FinePerDay decimal.Decimal `json:"fine_per_day"`
	SplitKind  string          `json:"split_kind,omitempty"`
	SplitValue decimal.Decimal `json:"split_value,omitempty"`
	Active     bool            `json:"active"`
}

// CreateFeeType creates a fee type for the tenant
func (s *FeePlanService) CreateFeeType(ctx context.Context, tenantID uuid.UUID, req CreateFeeTypeRequest) (*FeeTypeResponse, error) {
	var feeType *billing.FeeType
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.FeeTypes().FindByNameForTenant(ctx, tenantID, req.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "A fee type with this name already exists")
		}
		feeType, err = billing.NewFeeType(tenantID, req.Name, req.Category)
		if err != nil {
			return err
		}
		return repos.FeeTypes().Save(ctx, feeType)
	})
	if err != nil {
		return nil, err
	}
	return toFeeTypeResponse(feeType), nil
}

// CreateClassFee maps a fee type to a class and materializes the obligation
// for every student already enrolled in that class.
func (s *FeePlanService) CreateClassFee(ctx context.Context, tenantID uuid.UUID, req CreateClassFeeRequest) (*ClassFeeResponse, error) {
	var structure *billing.ClassFeeStructure
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		feeType, err := repos.FeeTypes().FindByIDForTenant(ctx, tenantID, req.FeeTypeID)
		if err != nil {
			return err
		}
		if feeType == nil {
			return shared.NewDomainError("NOT_FOUND", "Fee type not found")
		}

		existing, err := repos.FeeStructures().FindActiveBySessionClass(ctx, tenantID, req.SessionID, req.ClassID)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].FeeTypeID == req.FeeTypeID {
				return shared.NewDomainError("ALREADY_EXISTS", "This fee type is already mapped to the class")
			}
		}

		structure, err = billing.NewClassFeeStructure(tenantID, req.SessionID, req.ClassID, req.FeeTypeID, req.Amount)
		if err != nil {
			return err
		}
		if err := repos.FeeStructures().Save(ctx, structure); err != nil {
			return err
		}

		enrollments, err := repos.Enrollments().FindBySessionClass(ctx, tenantID, req.SessionID, req.ClassID)
		if err != nil {
			return err
		}
		for i := range enrollments {
			studentID := enrollments[i].StudentID
			if err := upsertObligation(ctx, repos, tenantID, studentID, req.SessionID, feeType, req.Amount); err != nil {
				return err
			}
			if err := recalcConcessions(ctx, s.logger, repos.StudentFees(), repos.Concessions(), tenantID, studentID, req.SessionID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toClassFeeResponse(structure), nil
}

// UpdateClassFee changes a structure row's amount. Rejected with
// STRUCTURE_LOCKED once any obligation has been materialized from the row,
// whether or not money moved against it; corrections then go through
// reversals rather than silent amount rewrites.
func (s *FeePlanService) UpdateClassFee(ctx context.Context, tenantID, structureID uuid.UUID, req UpdateClassFeeRequest) (*ClassFeeResponse, error) {
	var structure *billing.ClassFeeStructure
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		structure, err = repos.FeeStructures().FindByIDForTenant(ctx, tenantID, structureID)
		if err != nil {
			return err
		}
		if structure == nil {
			return shared.NewDomainError("NOT_FOUND", "Fee structure not found")
		}

		locked, err := repos.StudentFees().HasObligations(ctx, tenantID, structure.SessionID, structure.ClassID, structure.FeeTypeID)
		if err != nil {
			return err
		}
		if locked {
			return shared.ErrStructureLocked
		}

		if err := structure.ChangeAmount(req.Amount); err != nil {
			return err
		}
		return repos.FeeStructures().Save(ctx, structure)
	})
	if err != nil {
		return nil, err
	}
	return toClassFeeResponse(structure), nil
}

// CreateInstallment schedules an installment in a session
func (s *FeePlanService) CreateInstallment(ctx context.Context, tenantID uuid.UUID, req CreateInstallmentRequest) (*InstallmentResponse, error) {
	var split *billing.InstallmentSplit
	if req.SplitKind != "" {
		parsed, err := billing.SplitFromParts(req.SplitKind, req.SplitValue)
		if err != nil {
			return nil, err
		}
		split = &parsed
	}

	installment, err := billing.NewInstallment(tenantID, req.SessionID, req.Name, req.DueDate, req.FinePerDay, split)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Installments().Save(ctx, installment)
	})
	if err != nil {
		return nil, err
	}
	return toInstallmentResponse(installment), nil
}

// SyncStudentFees reconciles a student's obligations with the current fee
// plan after an enrollment change. Obligations whose fee type is mapped to
// the student's class are created or reactivated at the structure amount;
// active obligations no longer covered by the class mapping are deactivated.
// Carry-forward rows are never touched here.
//
// When PreviousSessionID is set, carry-forward generation from that session
// runs first in a nested transaction. Its failure rolls back only the
// carry-forward writes and is logged and swallowed so that a dirty prior
// session never blocks the new enrollment; the carry-forward endpoint can be
// retried on its own.
func (s *FeePlanService) SyncStudentFees(ctx context.Context, tenantID uuid.UUID, req SyncEnrollmentRequest) ([]StudentFeeResponse, error) {
	var responses []StudentFeeResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.PreviousSessionID != nil {
			err := repos.Transaction(ctx, func(nested TransactionalRepositories) error {
				_, err := generateCarryForwardInTx(ctx, nested, tenantID, req.StudentID, *req.PreviousSessionID, req.SessionID)
				return err
			})
			if err != nil && !errors.Is(err, shared.ErrNothingOutstanding) {
				s.logger.Warn("carry-forward generation failed during enrollment sync",
					zap.String("student_id", req.StudentID.String()),
					zap.String("from_session_id", req.PreviousSessionID.String()),
					zap.Error(err))
			}
		}

		if err := upsertEnrollment(ctx, repos, tenantID, req); err != nil {
			return err
		}

		mapped := make(map[uuid.UUID]decimal.Decimal)
		if req.ClassID != nil {
			structures, err := repos.FeeStructures().FindActiveBySessionClass(ctx, tenantID, req.SessionID, *req.ClassID)
			if err != nil {
				return err
			}
			for i := range structures {
				mapped[structures[i].FeeTypeID] = structures[i].Amount
			}
		}

		existing, err := repos.StudentFees().FindByStudentSession(ctx, tenantID, req.StudentID, req.SessionID)
		if err != nil {
			return err
		}
		byFeeType := make(map[uuid.UUID]*billing.StudentFee, len(existing))
		for i := range existing {
			byFeeType[existing[i].FeeTypeID] = &existing[i]
		}

		for feeTypeID, amount := range mapped {
			row := byFeeType[feeTypeID]
			if row == nil {
				feeType, err := repos.FeeTypes().FindByIDForTenant(ctx, tenantID, feeTypeID)
				if err != nil {
					return err
				}
				if feeType == nil {
					return shared.NewDomainError("NOT_FOUND", "Fee type not found")
				}
				if err := upsertObligation(ctx, repos, tenantID, req.StudentID, req.SessionID, feeType, amount); err != nil {
					return err
				}
				continue
			}

			changed := false
			if !row.TotalAmount.Equal(amount) {
				if err := row.ChangeTotal(amount); err != nil {
					return err
				}
				changed = true
			}
			if !row.Active {
				row.Activate()
				changed = true
			}
			if changed {
				if err := repos.StudentFees().Save(ctx, row); err != nil {
					return err
				}
			}
		}

		for i := range existing {
			row := &existing[i]
			if !row.Active || row.IsCarryForward {
				continue
			}
			if _, ok := mapped[row.FeeTypeID]; ok {
				continue
			}
			row.Deactivate()
			if err := repos.StudentFees().Save(ctx, row); err != nil {
				return err
			}
		}

		if err := recalcConcessions(ctx, s.logger, repos.StudentFees(), repos.Concessions(), tenantID, req.StudentID, req.SessionID); err != nil {
			return err
		}

		fees, err := repos.StudentFees().FindActiveByStudentSession(ctx, tenantID, req.StudentID, req.SessionID)
		if err != nil {
			return err
		}
		responses = make([]StudentFeeResponse, 0, len(fees))
		for i := range fees {
			responses = append(responses, *toStudentFeeResponse(&fees[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func upsertEnrollment(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req SyncEnrollmentRequest) error {
	enrollment, err := repos.Enrollments().FindByStudentSession(ctx, tenantID, req.StudentID, req.SessionID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		enrollment, err = school.NewStudentEnrollment(tenantID, req.StudentID, req.SessionID, req.ClassID, req.ClassName)
		if err != nil {
			return err
		}
		return repos.Enrollments().Save(ctx, enrollment)
	}

	if req.ClassID == nil {
		enrollment.RemoveClass()
	} else if err := enrollment.AssignClass(*req.ClassID, req.ClassName); err != nil {
		return err
	}
	return repos.Enrollments().Save(ctx, enrollment)
}

// upsertObligation creates or refreshes the obligation of one student for one
// fee type at the given amount.
func upsertObligation(ctx context.Context, repos TransactionalRepositories, tenantID, studentID, sessionID uuid.UUID, feeType *billing.FeeType, amount decimal.Decimal) error {
	row, err := repos.StudentFees().FindByKey(ctx, tenantID, studentID, sessionID, feeType.ID)
	if err != nil {
		return err
	}
	if row == nil {
		row, err = billing.NewStudentFee(tenantID, studentID, sessionID, feeType.ID, feeType.Name, amount)
		if err != nil {
			return err
		}
		return repos.StudentFees().Save(ctx, row)
	}
	if err := row.ChangeTotal(amount); err != nil {
		return err
	}
	row.Activate()
	return repos.StudentFees().Save(ctx, row)
}

func toFeeTypeResponse(feeType *billing.FeeType) *FeeTypeResponse {
	return &FeeTypeResponse{
		ID:       feeType.ID,
		Name:     feeType.Name,
		Category: feeType.Category,
		Active:   feeType.Active,
	}
}

func toClassFeeResponse(structure *billing.ClassFeeStructure) *ClassFeeResponse {
	return &ClassFeeResponse{
		ID:        structure.ID,
		SessionID: structure.SessionID,
		ClassID:   structure.ClassID,
		FeeTypeID: structure.FeeTypeID,
		Amount:    structure.Amount,
		Active:    structure.Active,
	}
}

func toInstallmentResponse(installment *billing.Installment) *InstallmentResponse {
	resp := &InstallmentResponse{
		ID:         installment.ID,
		SessionID:  installment.SessionID,
		Name:       installment.Name,
		DueDate:    installment.DueDate,
		FinePerDay: installment.FinePerDay,
		Active:     installment.Active,
	}
	if installment.Split != nil {
		resp.SplitKind = installment.Split.Kind()
		resp.SplitValue = installment.Split.Value()
	}
	return resp
}
