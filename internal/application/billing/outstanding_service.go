package billing

import (
	"context"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutstandingService computes what a student owes. It is a pure read: every
// number is derived from obligations, non-reversed allocations and installment
// due dates at call time, nothing is cached or stored.
type OutstandingService struct {
	studentFees   billing.StudentFeeRepository
	installments  billing.InstallmentRepository
	payments      billing.PaymentRepository
	carryForwards billing.CarryForwardRepository
}

// NewOutstandingService creates a new OutstandingService
func NewOutstandingService(
	studentFees billing.StudentFeeRepository,
	installments billing.InstallmentRepository,
	payments billing.PaymentRepository,
	carryForwards billing.CarryForwardRepository,
) *OutstandingService {
	return &OutstandingService{
		studentFees:   studentFees,
		installments:  installments,
		payments:      payments,
		carryForwards: carryForwards,
	}
}

// GetOutstanding returns the full outstanding picture of a student in a
// session as of the given instant. A zero asOf means now.
func (s *OutstandingService) GetOutstanding(ctx context.Context, tenantID, studentID, sessionID uuid.UUID, asOf time.Time) (*StudentOutstandingSummary, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	fees, err := s.studentFees.FindActiveByStudentSession(ctx, tenantID, studentID, sessionID)
	if err != nil {
		return nil, err
	}

	lines, err := computeFeeLines(ctx, s.payments, s.carryForwards, tenantID, fees)
	if err != nil {
		return nil, err
	}

	fines, err := computeFineLines(ctx, s.installments, s.payments, tenantID, studentID, sessionID, asOf)
	if err != nil {
		return nil, err
	}

	return buildOutstandingSummary(studentID, sessionID, asOf, lines, fines), nil
}

// ListStudentFees returns a student's obligations in a session, active or not
func (s *OutstandingService) ListStudentFees(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]StudentFeeResponse, error) {
	fees, err := s.studentFees.FindByStudentSession(ctx, tenantID, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	responses := make([]StudentFeeResponse, 0, len(fees))
	for i := range fees {
		responses = append(responses, *toStudentFeeResponse(&fees[i]))
	}
	return responses, nil
}

// computeFeeLines derives the per-obligation outstanding for the given rows.
// Regular rows subtract the non-reversed allocations targeting them; the
// carry-forward row subtracts the settled portion of the student's
// carry-forward dues landing in the session.
//
// The payment processor calls this inside its transaction with rows it has
// already locked, so the helper never re-reads obligations itself.
func computeFeeLines(ctx context.Context, payments billing.PaymentRepository, carryForwards billing.CarryForwardRepository, tenantID uuid.UUID, fees []billing.StudentFee) ([]FeeLineOutstanding, error) {
	lines := make([]FeeLineOutstanding, 0, len(fees))
	for i := range fees {
		fee := &fees[i]

		var paid decimal.Decimal
		if fee.IsCarryForward {
			dues, err := carryForwards.FindActiveByStudentToSession(ctx, tenantID, fee.StudentID, fee.SessionID)
			if err != nil {
				return nil, err
			}
			paid = decimal.Zero
			for j := range dues {
				paid = paid.Add(dues[j].SettledAmount)
			}
		} else {
			var err error
			paid, err = payments.SumAllocationsForTarget(ctx, tenantID, billing.AllocationTargetStudentFee, fee.ID)
			if err != nil {
				return nil, err
			}
		}

		outstanding := fee.FinalAmount.Sub(paid)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}

		lines = append(lines, FeeLineOutstanding{
			StudentFeeID:   fee.ID,
			FeeTypeName:    fee.FeeTypeName,
			IsCarryForward: fee.IsCarryForward,
			FinalAmount:    fee.FinalAmount,
			PaidAmount:     paid,
			Outstanding:    outstanding,
		})
	}
	return lines, nil
}

// computeFineLines derives the per-installment fine still due as of the given
// instant. Fines already collected by non-reversed payments reduce the accrual
// but never below zero.
func computeFineLines(ctx context.Context, installments billing.InstallmentRepository, payments billing.PaymentRepository, tenantID, studentID, sessionID uuid.UUID, asOf time.Time) ([]InstallmentFine, error) {
	active, err := installments.FindActiveBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	fines := make([]InstallmentFine, 0, len(active))
	for i := range active {
		inst := &active[i]
		accrued := inst.FineAccruedAsOf(asOf)
		if accrued.IsZero() {
			continue
		}

		collected, err := payments.SumFineCollectedForInstallment(ctx, tenantID, studentID, inst.ID)
		if err != nil {
			return nil, err
		}

		due := accrued.Sub(collected)
		if due.IsNegative() {
			due = decimal.Zero
		}

		fines = append(fines, InstallmentFine{
			InstallmentID: inst.ID,
			Name:          inst.Name,
			DueDate:       inst.DueDate,
			FineAccrued:   accrued,
			FineCollected: collected,
			FineDue:       due,
		})
	}
	return fines, nil
}

func buildOutstandingSummary(studentID, sessionID uuid.UUID, asOf time.Time, lines []FeeLineOutstanding, fines []InstallmentFine) *StudentOutstandingSummary {
	summary := &StudentOutstandingSummary{
		StudentID:            studentID,
		SessionID:            sessionID,
		AsOf:                 asOf,
		Lines:                lines,
		Fines:                fines,
		TotalPayable:         decimal.Zero,
		TotalPaid:            decimal.Zero,
		PrincipalOutstanding: decimal.Zero,
		FineDue:              decimal.Zero,
	}
	for i := range lines {
		summary.TotalPayable = summary.TotalPayable.Add(lines[i].FinalAmount)
		summary.TotalPaid = summary.TotalPaid.Add(lines[i].PaidAmount)
		summary.PrincipalOutstanding = summary.PrincipalOutstanding.Add(lines[i].Outstanding)
	}
	for i := range fines {
		summary.FineDue = summary.FineDue.Add(fines[i].FineDue)
	}
	summary.TotalDue = summary.PrincipalOutstanding.Add(summary.FineDue)
	return summary
}

func sumOutstanding(lines []FeeLineOutstanding) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Outstanding)
	}
	return total
}
