package handler

import (
	"net/http"

	"bookingdesk/internal/service"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	session           gin.HandlerFunc
}

func NewStatisticsHandler(statisticsService service.StatisticsService, session gin.HandlerFunc) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, session: session}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("/overview", h.session, h.GetOverview)
	}
}

// @Summary      Get dashboard overview
// @Description  Booking counts per status, event-type breakdown, conversion rate, admin counts and the receipts total
// @Tags         Statistics
// @Produce      json
// @Success      200 {object} response.Response{data=service.OverviewResponse}
// @Failure      401 {object} response.Response "Unauthorized"
// @Failure      403 {object} response.Response "Forbidden"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /api/statistics/overview [get]
func (h *StatisticsHandler) GetOverview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	overview, err := h.statisticsService.Overview(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, overview))
}
