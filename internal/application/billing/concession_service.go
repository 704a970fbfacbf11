package billing

import (
	"context"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConcessionService grants and withdraws student concessions and keeps the
// discount amounts on the student's obligations in sync with the active
// concession set.
type ConcessionService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewConcessionService creates a new ConcessionService
func NewConcessionService(scope TransactionScope, logger *zap.Logger) *ConcessionService {
	return &ConcessionService{scope: scope, logger: logger}
}

// Grant creates a concession and recalculates the student's obligations
func (s *ConcessionService) Grant(ctx context.Context, tenantID uuid.UUID, req GrantConcessionRequest) (*ConcessionResponse, error) {
	benefit, err := billing.BenefitFromParts(req.BenefitKind, req.BenefitValue)
	if err != nil {
		return nil, err
	}

	concession, err := billing.NewStudentConcession(tenantID, req.StudentID, req.SessionID, req.FeeTypeID, benefit, req.Reason, req.ApprovedBy)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Concessions().Save(ctx, concession); err != nil {
			return err
		}
		return recalcConcessions(ctx, s.logger, repos.StudentFees(), repos.Concessions(), tenantID, req.StudentID, req.SessionID)
	})
	if err != nil {
		return nil, err
	}

	return toConcessionResponse(concession), nil
}

// Withdraw revokes a concession and recalculates the student's obligations
func (s *ConcessionService) Withdraw(ctx context.Context, tenantID, concessionID uuid.UUID) (*ConcessionResponse, error) {
	var concession *billing.StudentConcession

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		concession, err = repos.Concessions().FindByIDForTenant(ctx, tenantID, concessionID)
		if err != nil {
			return err
		}
		if concession == nil {
			return shared.NewDomainError("NOT_FOUND", "Concession not found")
		}

		concession.Withdraw()
		if err := repos.Concessions().Save(ctx, concession); err != nil {
			return err
		}
		return recalcConcessions(ctx, s.logger, repos.StudentFees(), repos.Concessions(), tenantID, concession.StudentID, concession.SessionID)
	})
	if err != nil {
		return nil, err
	}

	return toConcessionResponse(concession), nil
}

// Recalculate re-derives the concession amounts on a student's obligations
// from the active concession set. Safe to call repeatedly; the result depends
// only on current state.
func (s *ConcessionService) Recalculate(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return recalcConcessions(ctx, s.logger, repos.StudentFees(), repos.Concessions(), tenantID, studentID, sessionID)
	})
}

// ListForStudent returns a student's active concessions in a session
func (s *ConcessionService) ListForStudent(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]ConcessionResponse, error) {
	var responses []ConcessionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		concessions, err := repos.Concessions().FindActiveByStudentSession(ctx, tenantID, studentID, sessionID)
		if err != nil {
			return err
		}
		responses = make([]ConcessionResponse, 0, len(concessions))
		for i := range concessions {
			responses = append(responses, *toConcessionResponse(&concessions[i]))
		}
		return nil
	})
	return responses, err
}

// recalcConcessions rebuilds the discount on every active non-carry-forward
// obligation of the student from the active concession set.
//
// Percentage benefits apply to each targeted row's gross amount. Fixed
// benefits scoped to a fee type land on that row whole; unscoped fixed
// benefits spread across the rows in proportion to their gross amounts, with
// the rounding remainder settling on the last rows so the shares sum to
// exactly the benefit, never more.
// Per-row discounts clamp into [0, gross]; a clamp is logged but not an error,
// matching how over-granted concessions are tolerated at data entry.
func recalcConcessions(ctx context.Context, logger *zap.Logger, studentFees billing.StudentFeeRepository, concessions billing.ConcessionRepository, tenantID, studentID, sessionID uuid.UUID) error {
	fees, err := studentFees.FindActiveByStudentSession(ctx, tenantID, studentID, sessionID)
	if err != nil {
		return err
	}

	// carry-forward rows never take concessions
	rows := make([]*billing.StudentFee, 0, len(fees))
	for i := range fees {
		if !fees[i].IsCarryForward {
			rows = append(rows, &fees[i])
		}
	}

	active, err := concessions.FindActiveByStudentSession(ctx, tenantID, studentID, sessionID)
	if err != nil {
		return err
	}

	desired := make(map[uuid.UUID]decimal.Decimal, len(rows))
	sumTotals := decimal.Zero
	for _, row := range rows {
		desired[row.ID] = decimal.Zero
		sumTotals = sumTotals.Add(row.TotalAmount)
	}

	for i := range active {
		concession := &active[i]
		switch {
		case concession.FeeTypeID != nil:
			for _, row := range rows {
				if row.FeeTypeID != *concession.FeeTypeID {
					continue
				}
				if concession.Benefit.IsPercentage() {
					desired[row.ID] = desired[row.ID].Add(concession.Benefit.PercentageOf(row.TotalAmount))
				} else {
					desired[row.ID] = desired[row.ID].Add(concession.Benefit.Value())
				}
			}

		case concession.Benefit.IsPercentage():
			for _, row := range rows {
				desired[row.ID] = desired[row.ID].Add(concession.Benefit.PercentageOf(row.TotalAmount))
			}

		default:
			// unscoped fixed amount, spread proportionally to gross amounts
			if sumTotals.IsZero() {
				continue
			}
			shares := make([]decimal.Decimal, len(rows))
			remaining := concession.Benefit.Value()
			for j := 0; j < len(rows)-1; j++ {
				shares[j] = concession.Benefit.Value().Mul(rows[j].TotalAmount).Div(sumTotals).Round(2)
				remaining = remaining.Sub(shares[j])
			}
			last := len(rows) - 1
			shares[last] = remaining
			// rounding up can push the earlier shares past the benefit;
			// shave the excess off them instead of leaving a negative
			// remainder that the per-row clamp would inflate to zero
			if shares[last].IsNegative() {
				excess := shares[last].Neg()
				shares[last] = decimal.Zero
				for j := last - 1; j >= 0 && excess.IsPositive(); j-- {
					take := decimal.Min(excess, shares[j])
					shares[j] = shares[j].Sub(take)
					excess = excess.Sub(take)
				}
			}
			for j, row := range rows {
				desired[row.ID] = desired[row.ID].Add(shares[j])
			}
		}
	}

	for _, row := range rows {
		want := desired[row.ID]
		if want.GreaterThan(row.TotalAmount) {
			logger.Warn("concession exceeds fee amount, clamping",
				zap.String("student_fee_id", row.ID.String()),
				zap.String("fee_type", row.FeeTypeName),
				zap.String("granted", want.String()),
				zap.String("fee_amount", row.TotalAmount.String()))
		}
		if row.ApplyConcession(want) {
			if err := studentFees.Save(ctx, row); err != nil {
				return err
			}
		}
	}
	return nil
}
