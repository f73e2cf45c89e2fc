package handler

import (
	"net/http"

	"bookingdesk/internal/service"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receiptService service.ReceiptService
	session        gin.HandlerFunc
}

func NewReceiptHandler(receiptService service.ReceiptService, session gin.HandlerFunc) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, session: session}
}

func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/api/bookings/:id/receipts")
	receipts.Use(h.session)
	{
		receipts.POST("", h.UploadReceipt)
		receipts.GET("", h.ListReceipts)
	}
}

// UploadReceipt records receipt metadata for a confirmed or cleared booking
// @Summary      Upload a receipt
// @Tags         receipts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Booking ID"
// @Param        payload  body      service.UploadReceiptRequest  true  "Receipt"
// @Success      201      {object}  response.Response{data=service.ReceiptResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/bookings/{id}/receipts [post]
func (h *ReceiptHandler) UploadReceipt(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.UploadReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	receipt, err := h.receiptService.Upload(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, receipt))
}

// ListReceipts godoc
// @Summary      List receipts of a booking
// @Tags         receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=[]service.ReceiptResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id}/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	receipts, err := h.receiptService.ListForBooking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipts))
}
