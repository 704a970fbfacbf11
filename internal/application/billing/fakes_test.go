package billing

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/ledger"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// In-memory repository fakes. They implement the ordering and aggregation
// contracts of the real gorm repositories closely enough for service tests
// running under a NoOpTransactionScope.

type fakeFeeTypeRepo struct {
	items map[uuid.UUID]*billing.FeeType
}

func newFakeFeeTypeRepo() *fakeFeeTypeRepo {
	return &fakeFeeTypeRepo{items: make(map[uuid.UUID]*billing.FeeType)}
}

func (r *fakeFeeTypeRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.FeeType, error) {
	ft := r.items[id]
	if ft == nil || ft.TenantID != tenantID {
		return nil, nil
	}
	return ft, nil
}

func (r *fakeFeeTypeRepo) FindByNameForTenant(_ context.Context, tenantID uuid.UUID, name string) (*billing.FeeType, error) {
	for _, ft := range r.items {
		if ft.TenantID == tenantID && ft.Name == name {
			return ft, nil
		}
	}
	return nil, nil
}

func (r *fakeFeeTypeRepo) GetOrCreateByName(ctx context.Context, tenantID uuid.UUID, name, category string) (*billing.FeeType, error) {
	existing, _ := r.FindByNameForTenant(ctx, tenantID, name)
	if existing != nil {
		return existing, nil
	}
	ft, err := billing.NewFeeType(tenantID, name, category)
	if err != nil {
		return nil, err
	}
	r.items[ft.ID] = ft
	return ft, nil
}

func (r *fakeFeeTypeRepo) Save(_ context.Context, feeType *billing.FeeType) error {
	r.items[feeType.ID] = feeType
	return nil
}

type fakeFeeStructureRepo struct {
	items map[uuid.UUID]*billing.ClassFeeStructure
}

func newFakeFeeStructureRepo() *fakeFeeStructureRepo {
	return &fakeFeeStructureRepo{items: make(map[uuid.UUID]*billing.ClassFeeStructure)}
}

func (r *fakeFeeStructureRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.ClassFeeStructure, error) {
	s := r.items[id]
	if s == nil || s.TenantID != tenantID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeFeeStructureRepo) FindActiveBySessionClass(_ context.Context, tenantID, sessionID, classID uuid.UUID) ([]billing.ClassFeeStructure, error) {
	var out []billing.ClassFeeStructure
	for _, s := range r.items {
		if s.TenantID == tenantID && s.SessionID == sessionID && s.ClassID == classID && s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeFeeStructureRepo) Save(_ context.Context, structure *billing.ClassFeeStructure) error {
	r.items[structure.ID] = structure
	return nil
}

type fakeInstallmentRepo struct {
	items map[uuid.UUID]*billing.Installment
}

func newFakeInstallmentRepo() *fakeInstallmentRepo {
	return &fakeInstallmentRepo{items: make(map[uuid.UUID]*billing.Installment)}
}

func (r *fakeInstallmentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.Installment, error) {
	i := r.items[id]
	if i == nil || i.TenantID != tenantID {
		return nil, nil
	}
	return i, nil
}

func (r *fakeInstallmentRepo) FindActiveBySession(_ context.Context, tenantID, sessionID uuid.UUID) ([]billing.Installment, error) {
	var out []billing.Installment
	for _, i := range r.items {
		if i.TenantID == tenantID && i.SessionID == sessionID && i.Active {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DueDate.Before(out[b].DueDate) })
	return out, nil
}

func (r *fakeInstallmentRepo) Save(_ context.Context, installment *billing.Installment) error {
	r.items[installment.ID] = installment
	return nil
}

type fakeStudentFeeRepo struct {
	items       map[uuid.UUID]*billing.StudentFee
	enrollments *fakeEnrollmentRepo
}

func newFakeStudentFeeRepo() *fakeStudentFeeRepo {
	return &fakeStudentFeeRepo{items: make(map[uuid.UUID]*billing.StudentFee)}
}

func (r *fakeStudentFeeRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.StudentFee, error) {
	f := r.items[id]
	if f == nil || f.TenantID != tenantID {
		return nil, nil
	}
	return f, nil
}

func (r *fakeStudentFeeRepo) FindByKey(_ context.Context, tenantID, studentID, sessionID, feeTypeID uuid.UUID) (*billing.StudentFee, error) {
	for _, f := range r.items {
		if f.TenantID == tenantID && f.StudentID == studentID && f.SessionID == sessionID && f.FeeTypeID == feeTypeID {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentFeeRepo) FindByStudentSession(_ context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	return r.find(tenantID, studentID, sessionID, false), nil
}

func (r *fakeStudentFeeRepo) FindActiveByStudentSession(_ context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	return r.find(tenantID, studentID, sessionID, true), nil
}

func (r *fakeStudentFeeRepo) FindActiveByStudentSessionForUpdate(ctx context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentFee, error) {
	return r.FindActiveByStudentSession(ctx, tenantID, studentID, sessionID)
}

func (r *fakeStudentFeeRepo) find(tenantID, studentID, sessionID uuid.UUID, activeOnly bool) []billing.StudentFee {
	var out []billing.StudentFee
	for _, f := range r.items {
		if f.TenantID != tenantID || f.StudentID != studentID || f.SessionID != sessionID {
			continue
		}
		if activeOnly && !f.Active {
			continue
		}
		out = append(out, *f)
	}
	// carry-forward first, then fee type name, then ID for stability
	sort.Slice(out, func(a, b int) bool {
		if out[a].IsCarryForward != out[b].IsCarryForward {
			return out[a].IsCarryForward
		}
		if out[a].FeeTypeName != out[b].FeeTypeName {
			return out[a].FeeTypeName < out[b].FeeTypeName
		}
		return out[a].ID.String() < out[b].ID.String()
	})
	return out
}

func (r *fakeStudentFeeRepo) HasObligations(ctx context.Context, tenantID, sessionID, classID, feeTypeID uuid.UUID) (bool, error) {
	for _, f := range r.items {
		if f.TenantID != tenantID || f.SessionID != sessionID || f.FeeTypeID != feeTypeID {
			continue
		}
		enrollment, err := r.enrollments.FindByStudentSession(ctx, tenantID, f.StudentID, sessionID)
		if err != nil {
			return false, err
		}
		if enrollment != nil && enrollment.ClassID != nil && *enrollment.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentFeeRepo) Save(_ context.Context, fee *billing.StudentFee) error {
	r.items[fee.ID] = fee
	return nil
}

type fakeConcessionRepo struct {
	items map[uuid.UUID]*billing.StudentConcession
}

func newFakeConcessionRepo() *fakeConcessionRepo {
	return &fakeConcessionRepo{items: make(map[uuid.UUID]*billing.StudentConcession)}
}

func (r *fakeConcessionRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.StudentConcession, error) {
	c := r.items[id]
	if c == nil || c.TenantID != tenantID {
		return nil, nil
	}
	return c, nil
}

func (r *fakeConcessionRepo) FindActiveByStudentSession(_ context.Context, tenantID, studentID, sessionID uuid.UUID) ([]billing.StudentConcession, error) {
	var out []billing.StudentConcession
	for _, c := range r.items {
		if c.TenantID == tenantID && c.StudentID == studentID && c.SessionID == sessionID && c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConcessionRepo) Save(_ context.Context, concession *billing.StudentConcession) error {
	r.items[concession.ID] = concession
	return nil
}

type fakeCarryForwardRepo struct {
	items map[uuid.UUID]*billing.CarryForwardDue
}

func newFakeCarryForwardRepo() *fakeCarryForwardRepo {
	return &fakeCarryForwardRepo{items: make(map[uuid.UUID]*billing.CarryForwardDue)}
}

func (r *fakeCarryForwardRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.CarryForwardDue, error) {
	d := r.items[id]
	if d == nil || d.TenantID != tenantID {
		return nil, nil
	}
	return d, nil
}

func (r *fakeCarryForwardRepo) FindByTransition(_ context.Context, tenantID, studentID, fromSessionID, toSessionID uuid.UUID) (*billing.CarryForwardDue, error) {
	for _, d := range r.items {
		if d.TenantID == tenantID && d.StudentID == studentID && d.FromSessionID == fromSessionID && d.ToSessionID == toSessionID {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeCarryForwardRepo) FindActiveByStudentToSession(_ context.Context, tenantID, studentID, toSessionID uuid.UUID) ([]billing.CarryForwardDue, error) {
	var out []billing.CarryForwardDue
	for _, d := range r.items {
		if d.TenantID == tenantID && d.StudentID == studentID && d.ToSessionID == toSessionID && d.Active {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *fakeCarryForwardRepo) Save(_ context.Context, due *billing.CarryForwardDue) error {
	r.items[due.ID] = due
	return nil
}

type fakePaymentRepo struct {
	items    map[uuid.UUID]*billing.FeePayment
	receipts map[uuid.UUID]*billing.FeeReceipt // keyed by payment ID
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		items:    make(map[uuid.UUID]*billing.FeePayment),
		receipts: make(map[uuid.UUID]*billing.FeeReceipt),
	}
}

func (r *fakePaymentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.FeePayment, error) {
	p := r.items[id]
	if p == nil || p.TenantID != tenantID {
		return nil, nil
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.FeePayment, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *fakePaymentRepo) ListByStudentSession(_ context.Context, tenantID, studentID, sessionID uuid.UUID, filter shared.Filter) (shared.Paginated[billing.FeePayment], error) {
	var out []billing.FeePayment
	for _, p := range r.items {
		if p.TenantID == tenantID && p.StudentID == studentID && p.SessionID == sessionID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (r *fakePaymentRepo) SumAllocationsForTarget(_ context.Context, tenantID uuid.UUID, targetKind string, targetID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.items {
		if p.TenantID != tenantID || p.IsReversed {
			continue
		}
		for _, a := range p.Allocations {
			if a.Target.Kind() == targetKind && a.Target.ID() == targetID {
				total = total.Add(a.Amount)
			}
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) SumFineCollectedForInstallment(_ context.Context, tenantID, studentID, installmentID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.items {
		if p.TenantID != tenantID || p.StudentID != studentID || p.IsReversed {
			continue
		}
		if p.InstallmentID != nil && *p.InstallmentID == installmentID {
			total = total.Add(p.FineAmount)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) Save(_ context.Context, payment *billing.FeePayment) error {
	r.items[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) SaveReceipt(_ context.Context, receipt *billing.FeeReceipt) error {
	r.receipts[receipt.PaymentID] = receipt
	return nil
}

func (r *fakePaymentRepo) FindReceiptByPayment(_ context.Context, tenantID, paymentID uuid.UUID) (*billing.FeeReceipt, error) {
	receipt := r.receipts[paymentID]
	if receipt == nil || receipt.TenantID != tenantID {
		return nil, nil
	}
	return receipt, nil
}

type fakeRefundRepo struct {
	items map[uuid.UUID]*billing.FeeRefund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{items: make(map[uuid.UUID]*billing.FeeRefund)}
}

func (r *fakeRefundRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*billing.FeeRefund, error) {
	f := r.items[id]
	if f == nil || f.TenantID != tenantID {
		return nil, nil
	}
	return f, nil
}

func (r *fakeRefundRepo) SumNonReversedByPayment(_ context.Context, tenantID, paymentID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, f := range r.items {
		if f.TenantID == tenantID && f.PaymentID == paymentID && !f.IsReversed {
			total = total.Add(f.Amount)
		}
	}
	return total, nil
}

func (r *fakeRefundRepo) Save(_ context.Context, refund *billing.FeeRefund) error {
	r.items[refund.ID] = refund
	return nil
}

type fakeLedgerRepo struct {
	items map[uuid.UUID]*ledger.Entry
	byKey map[string]uuid.UUID
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		items: make(map[uuid.UUID]*ledger.Entry),
		byKey: make(map[string]uuid.UUID),
	}
}

func ledgerKey(e *ledger.Entry) string {
	return e.TenantID.String() + "|" + e.EntryType + "|" + e.SourceKind + "|" + e.SourceID.String()
}

func (r *fakeLedgerRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	e := r.items[id]
	if e == nil || e.TenantID != tenantID {
		return nil, nil
	}
	return e, nil
}

func (r *fakeLedgerRepo) GetOrCreate(_ context.Context, entry *ledger.Entry) (*ledger.Entry, bool, error) {
	if existingID, ok := r.byKey[ledgerKey(entry)]; ok {
		return r.items[existingID], false, nil
	}
	r.items[entry.ID] = entry
	r.byKey[ledgerKey(entry)] = entry.ID
	return entry, true, nil
}

func (r *fakeLedgerRepo) FindBySource(_ context.Context, tenantID uuid.UUID, sourceKind string, sourceID uuid.UUID) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range r.items {
		if e.TenantID == tenantID && e.SourceKind == sourceKind && e.SourceID == sourceID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *fakeLedgerRepo) ListForTenant(_ context.Context, tenantID uuid.UUID, entryType string, filter shared.Filter) (shared.Paginated[ledger.Entry], error) {
	var out []ledger.Entry
	for _, e := range r.items {
		if e.TenantID != tenantID {
			continue
		}
		if entryType != "" && e.EntryType != entryType {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (r *fakeLedgerRepo) Save(_ context.Context, entry *ledger.Entry) error {
	r.items[entry.ID] = entry
	return nil
}

type fakeSessionRepo struct {
	items map[uuid.UUID]*school.AcademicSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{items: make(map[uuid.UUID]*school.AcademicSession)}
}

func (r *fakeSessionRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*school.AcademicSession, error) {
	s := r.items[id]
	if s == nil || s.TenantID != tenantID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) FindActiveForTenant(_ context.Context, tenantID uuid.UUID) ([]school.AcademicSession, error) {
	var out []school.AcademicSession
	for _, s := range r.items {
		if s.TenantID == tenantID && s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *school.AcademicSession) error {
	r.items[session.ID] = session
	return nil
}

type fakeEnrollmentRepo struct {
	items map[uuid.UUID]*school.StudentEnrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{items: make(map[uuid.UUID]*school.StudentEnrollment)}
}

func (r *fakeEnrollmentRepo) FindByStudentSession(_ context.Context, tenantID, studentID, sessionID uuid.UUID) (*school.StudentEnrollment, error) {
	for _, e := range r.items {
		if e.TenantID == tenantID && e.StudentID == studentID && e.SessionID == sessionID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEnrollmentRepo) FindBySessionClass(_ context.Context, tenantID, sessionID, classID uuid.UUID) ([]school.StudentEnrollment, error) {
	var out []school.StudentEnrollment
	for _, e := range r.items {
		if e.TenantID == tenantID && e.SessionID == sessionID && e.Active && e.ClassID != nil && *e.ClassID == classID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) Save(_ context.Context, enrollment *school.StudentEnrollment) error {
	r.items[enrollment.ID] = enrollment
	return nil
}

// Interface compliance
var _ billing.FeeTypeRepository = (*fakeFeeTypeRepo)(nil)
var _ billing.ClassFeeStructureRepository = (*fakeFeeStructureRepo)(nil)
var _ billing.InstallmentRepository = (*fakeInstallmentRepo)(nil)
var _ billing.StudentFeeRepository = (*fakeStudentFeeRepo)(nil)
var _ billing.ConcessionRepository = (*fakeConcessionRepo)(nil)
var _ billing.CarryForwardRepository = (*fakeCarryForwardRepo)(nil)
var _ billing.PaymentRepository = (*fakePaymentRepo)(nil)
var _ billing.RefundRepository = (*fakeRefundRepo)(nil)
var _ ledger.EntryRepository = (*fakeLedgerRepo)(nil)
var _ school.SessionRepository = (*fakeSessionRepo)(nil)
var _ school.EnrollmentRepository = (*fakeEnrollmentRepo)(nil)

// fixture wires every fake repo into a NoOpTransactionScope together with the
// services under test.
type fixture struct {
	tenantID uuid.UUID

	feeTypes      *fakeFeeTypeRepo
	feeStructures *fakeFeeStructureRepo
	installments  *fakeInstallmentRepo
	studentFees   *fakeStudentFeeRepo
	concessions   *fakeConcessionRepo
	carryForwards *fakeCarryForwardRepo
	payments      *fakePaymentRepo
	refunds       *fakeRefundRepo
	ledgerEntries *fakeLedgerRepo
	sessions      *fakeSessionRepo
	enrollments   *fakeEnrollmentRepo

	scope *NoOpTransactionScope

	feePlan      *FeePlanService
	concession   *ConcessionService
	outstanding  *OutstandingService
	payment      *PaymentService
	reversal     *ReversalService
	carryForward *CarryForwardService
}

func newFixture() *fixture {
	f := &fixture{
		tenantID:      uuid.New(),
		feeTypes:      newFakeFeeTypeRepo(),
		feeStructures: newFakeFeeStructureRepo(),
		installments:  newFakeInstallmentRepo(),
		studentFees:   newFakeStudentFeeRepo(),
		concessions:   newFakeConcessionRepo(),
		carryForwards: newFakeCarryForwardRepo(),
		payments:      newFakePaymentRepo(),
		refunds:       newFakeRefundRepo(),
		ledgerEntries: newFakeLedgerRepo(),
		sessions:      newFakeSessionRepo(),
		enrollments:   newFakeEnrollmentRepo(),
	}
	f.studentFees.enrollments = f.enrollments

	f.scope = NewNoOpTransactionScope(
		f.feeTypes, f.feeStructures, f.installments, f.studentFees, f.concessions,
		f.carryForwards, f.payments, f.refunds, f.ledgerEntries, f.sessions, f.enrollments,
	)

	logger := zap.NewNop()
	f.feePlan = NewFeePlanService(f.scope, logger)
	f.concession = NewConcessionService(f.scope, logger)
	f.outstanding = NewOutstandingService(f.studentFees, f.installments, f.payments, f.carryForwards)
	f.payment = NewPaymentService(f.scope, logger)
	f.reversal = NewReversalService(f.scope, logger)
	f.carryForward = NewCarryForwardService(f.scope, logger)
	return f
}

func (f *fixture) addSession(t *testing.T, code string, start, end time.Time) *school.AcademicSession {
	t.Helper()
	session, err := school.NewAcademicSession(f.tenantID, "Session "+code, code, start, end)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), session))
	return session
}

func (f *fixture) addFeeType(t *testing.T, name, category string) *billing.FeeType {
	t.Helper()
	feeType, err := billing.NewFeeType(f.tenantID, name, category)
	require.NoError(t, err)
	require.NoError(t, f.feeTypes.Save(context.Background(), feeType))
	return feeType
}

func (f *fixture) addClassFee(t *testing.T, sessionID, classID, feeTypeID uuid.UUID, amount int64) *billing.ClassFeeStructure {
	t.Helper()
	structure, err := billing.NewClassFeeStructure(f.tenantID, sessionID, classID, feeTypeID, decimal.NewFromInt(amount))
	require.NoError(t, err)
	require.NoError(t, f.feeStructures.Save(context.Background(), structure))
	return structure
}

func (f *fixture) addInstallment(t *testing.T, sessionID uuid.UUID, name string, dueDate time.Time, finePerDay int64) *billing.Installment {
	t.Helper()
	installment, err := billing.NewInstallment(f.tenantID, sessionID, name, dueDate, decimal.NewFromInt(finePerDay), nil)
	require.NoError(t, err)
	require.NoError(t, f.installments.Save(context.Background(), installment))
	return installment
}

func (f *fixture) enroll(t *testing.T, studentID, sessionID uuid.UUID, classID *uuid.UUID) *school.StudentEnrollment {
	t.Helper()
	enrollment, err := school.NewStudentEnrollment(f.tenantID, studentID, sessionID, classID, "")
	require.NoError(t, err)
	require.NoError(t, f.enrollments.Save(context.Background(), enrollment))
	return enrollment
}

// sync enrolls the student, materializes obligations from the class fee plan
// and returns the active obligations.
func (f *fixture) sync(t *testing.T, studentID, sessionID uuid.UUID, classID *uuid.UUID) []StudentFeeResponse {
	t.Helper()
	fees, err := f.feePlan.SyncStudentFees(context.Background(), f.tenantID, SyncEnrollmentRequest{
		StudentID: studentID,
		SessionID: sessionID,
		ClassID:   classID,
	})
	require.NoError(t, err)
	return fees
}
