package handler

import (
	billingapp "github.com/schoolerp/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CarryForwardHandler handles carry-forward API endpoints
type CarryForwardHandler struct {
	BaseHandler
	carryForwardService *billingapp.CarryForwardService
}

// NewCarryForwardHandler creates a new CarryForwardHandler
func NewCarryForwardHandler(carryForwardService *billingapp.CarryForwardService) *CarryForwardHandler {
	return &CarryForwardHandler{carryForwardService: carryForwardService}
}

// RegisterRoutes registers carry-forward routes
func (h *CarryForwardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carryForwards := rg.Group("/carry-forwards")
	{
		carryForwards.POST("", h.Generate)
		carryForwards.GET("", h.List)
	}
}

// Generate snapshots a student's unpaid balance from one session into the
// next. Running it again for the same transition refreshes the single
// existing row.
func (h *CarryForwardHandler) Generate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.GenerateCarryForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	due, err := h.carryForwardService.Generate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, due)
}

// List lists the carry-forward dues landing in a session for a student
func (h *CarryForwardHandler) List(c *gin.Context) {
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
	toSessionID, err := uuid.Parse(c.Query("to_session_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing to_session_id")
		return
	}

	dues, err := h.carryForwardService.ListForStudent(c.Request.Context(), tenantID, studentID, toSessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dues)
}
