package handler

import (
	"time"

	billingapp "github.com/schoolerp/backend/internal/application/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client-supplied duplicate-submission guard
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles fee collection, reversal and refund API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService   *billingapp.PaymentService
	reversalService  *billingapp.ReversalService
	idempotencyStore shared.IdempotencyStore
	idempotencyTTL   time.Duration
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentService *billingapp.PaymentService,
	reversalService *billingapp.ReversalService,
	idempotencyStore shared.IdempotencyStore,
	idempotencyTTL time.Duration,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:   paymentService,
		reversalService:  reversalService,
		idempotencyStore: idempotencyStore,
		idempotencyTTL:   idempotencyTTL,
	}
}

// RegisterRoutes registers payment and refund routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Collect)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
		payments.POST("/:id/reverse", h.ReversePayment)
		payments.POST("/:id/refunds", h.CreateRefund)
	}

	refunds := rg.Group("/refunds")
	{
		refunds.POST("/:id/reverse", h.ReverseRefund)
	}
}

// Collect records a fee collection for a student. An Idempotency-Key header
// guards against duplicate submissions; a repeated key is rejected with a
// conflict instead of collecting twice.
func (h *PaymentHandler) Collect(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CollectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.ReceivedBy = getActor(c)

	if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
		fresh, err := h.idempotencyStore.MarkProcessed(c.Request.Context(), tenantID.String()+":"+key, h.idempotencyTTL)
		if err != nil {
			h.InternalError(c, "Failed to check idempotency key")
			return
		}
		if !fresh {
			h.Conflict(c, dto.ErrCodeDuplicateRequest, "A payment with this idempotency key was already submitted")
			return
		}
	}

	payment, err := h.paymentService.Collect(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// Get retrieves a payment with its allocations and receipt number
func (h *PaymentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// List lists a student's payments in a session, newest first
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing student_id")
		return
	}
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing session_id")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindingError(c, err)
		return
	}
	listReq = listReq.WithDefaults()

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), tenantID, studentID, sessionID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ReversePayment voids a payment and posts the compensating ledger entry
func (h *PaymentHandler) ReversePayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req billingapp.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.ReversedBy = getActor(c)

	payment, err := h.reversalService.ReversePayment(c.Request.Context(), tenantID, paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// CreateRefund records a refund against a payment
func (h *PaymentHandler) CreateRefund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req billingapp.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.ProcessedBy = getActor(c)

	refund, err := h.reversalService.CreateRefund(c.Request.Context(), tenantID, paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, refund)
}

// ReverseRefund voids a refund and posts the compensating ledger entry
func (h *PaymentHandler) ReverseRefund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	var req billingapp.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.ReversedBy = getActor(c)

	refund, err := h.reversalService.ReverseRefund(c.Request.Context(), tenantID, refundID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, refund)
}
