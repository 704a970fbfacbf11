package handler

import (
	billingapp "github.com/schoolerp/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FeePlanHandler handles fee plan API endpoints: fee types, class fee
// structures, installments and obligation sync
type FeePlanHandler struct {
	BaseHandler
	feePlanService     *billingapp.FeePlanService
	outstandingService *billingapp.OutstandingService
}

// NewFeePlanHandler creates a new FeePlanHandler
func NewFeePlanHandler(feePlanService *billingapp.FeePlanService, outstandingService *billingapp.OutstandingService) *FeePlanHandler {
	return &FeePlanHandler{
		feePlanService:     feePlanService,
		outstandingService: outstandingService,
	}
}

// RegisterRoutes registers fee plan routes
func (h *FeePlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fees := rg.Group("/fees")
	{
		fees.POST("/types", h.CreateFeeType)
		fees.POST("/class-fees", h.CreateClassFee)
		fees.PUT("/class-fees/:id", h.UpdateClassFee)
		fees.POST("/installments", h.CreateInstallment)
		fees.POST("/sync", h.SyncStudentFees)
		fees.GET("/students/:studentID/sessions/:sessionID", h.ListStudentFees)
		fees.GET("/students/:studentID/sessions/:sessionID/outstanding", h.GetOutstanding)
	}
}

// CreateFeeType creates a named fee head for the tenant
func (h *FeePlanHandler) CreateFeeType(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreateFeeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	feeType, err := h.feePlanService.CreateFeeType(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, feeType)
}

// CreateClassFee maps a fee type to a class for a session
func (h *FeePlanHandler) CreateClassFee(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreateClassFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	classFee, err := h.feePlanService.CreateClassFee(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, classFee)
}

// UpdateClassFee changes the amount of a class fee structure row. Returns a
// conflict once any student obligation has been materialized from the
// structure.
func (h *FeePlanHandler) UpdateClassFee(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	structureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid structure ID format")
		return
	}

	var req billingapp.UpdateClassFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	classFee, err := h.feePlanService.UpdateClassFee(c.Request.Context(), tenantID, structureID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, classFee)
}

// CreateInstallment schedules a collection window in a session
func (h *FeePlanHandler) CreateInstallment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	installment, err := h.feePlanService.CreateInstallment(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, installment)
}

// SyncStudentFees reconciles a student's obligations after an enrollment change
func (h *FeePlanHandler) SyncStudentFees(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.SyncEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	fees, err := h.feePlanService.SyncStudentFees(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fees)
}

// ListStudentFees lists a student's materialized obligations in a session
func (h *FeePlanHandler) ListStudentFees(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	studentID, sessionID, ok := h.parseStudentSession(c)
	if !ok {
		return
	}

	fees, err := h.outstandingService.ListStudentFees(c.Request.Context(), tenantID, studentID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fees)
}

// GetOutstanding computes what a student owes in a session as of a given
// instant. Accepts an optional as_of query parameter in RFC 3339 format.
func (h *FeePlanHandler) GetOutstanding(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	studentID, sessionID, ok := h.parseStudentSession(c)
	if !ok {
		return
	}

	asOf, ok := parseAsOf(c)
	if !ok {
		h.BadRequest(c, "Invalid as_of timestamp, expected RFC 3339")
		return
	}

	summary, err := h.outstandingService.GetOutstanding(c.Request.Context(), tenantID, studentID, sessionID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *FeePlanHandler) parseStudentSession(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	studentID, err := uuid.Parse(c.Param("studentID"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID format")
		return uuid.Nil, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return studentID, sessionID, true
}
