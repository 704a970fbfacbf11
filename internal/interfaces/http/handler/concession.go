package handler

import (
	billingapp "github.com/schoolerp/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConcessionHandler handles concession API endpoints
type ConcessionHandler struct {
	BaseHandler
	concessionService *billingapp.ConcessionService
}

// NewConcessionHandler creates a new ConcessionHandler
func NewConcessionHandler(concessionService *billingapp.ConcessionService) *ConcessionHandler {
	return &ConcessionHandler{concessionService: concessionService}
}

// RegisterRoutes registers concession routes
func (h *ConcessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	concessions := rg.Group("/concessions")
	{
		concessions.POST("", h.Grant)
		concessions.POST("/:id/withdraw", h.Withdraw)
		concessions.GET("", h.List)
	}
}

// Grant grants a discount to a student for a session and recalculates the
// affected obligations
func (h *ConcessionHandler) Grant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.GrantConcessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.ApprovedBy == "" {
		req.ApprovedBy = getActor(c)
	}

	concession, err := h.concessionService.Grant(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, concession)
}

// Withdraw deactivates a concession and recalculates the affected obligations
func (h *ConcessionHandler) Withdraw(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	concessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid concession ID format")
		return
	}

	concession, err := h.concessionService.Withdraw(c.Request.Context(), tenantID, concessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, concession)
}

// List lists a student's concessions in a session
func (h *ConcessionHandler) List(c *gin.Context) {
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

	concessions, err := h.concessionService.ListForStudent(c.Request.Context(), tenantID, studentID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, concessions)
}
