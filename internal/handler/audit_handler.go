package handler

import (
	"net/http"

	"bookingdesk/internal/service"
	"bookingdesk/pkg/pagination"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	session      gin.HandlerFunc
}

func NewAuditHandler(auditService service.AuditService, session gin.HandlerFunc) *AuditHandler {
	return &AuditHandler{auditService: auditService, session: session}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.session)
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs retrieves the paginated transition trail with actors pre-loaded
// @Summary      Get audit logs
// @Description  Lists every recorded transition newest first. Public submissions are attributed to "Public".
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action     query     string  false  "Only entries with this action, e.g. CONFIRM_BOOKING"
// @Param        entity_id  query     string  false  "Only entries for this booking or profile"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Paged}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), actor, service.AuditQuery{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		Offset:   p.Offset(),
		Limit:    p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: logs,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}))
}
