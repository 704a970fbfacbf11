package handler

import (
	ledgerapp "github.com/schoolerp/backend/internal/application/ledger"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles income/expense ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	postingService *ledgerapp.PostingService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(postingService *ledgerapp.PostingService) *LedgerHandler {
	return &LedgerHandler{postingService: postingService}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/ledger/entries")
	{
		entries.GET("", h.List)
		entries.GET("/source/:kind/:id", h.GetBySource)
	}
}

// List lists the tenant's ledger entries, newest first. Accepts an optional
// entry_type query filter.
func (h *LedgerHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
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

	result, err := h.postingService.List(c.Request.Context(), tenantID, c.Query("entry_type"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetBySource lists the entries posted for one source record, oldest first
func (h *LedgerHandler) GetBySource(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sourceKind := c.Param("kind")
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid source ID format")
		return
	}

	entries, err := h.postingService.GetBySource(c.Request.Context(), tenantID, sourceKind, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
