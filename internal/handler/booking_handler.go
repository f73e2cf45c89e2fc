package handler

import (
	"net/http"

	"bookingdesk/internal/service"
	"bookingdesk/pkg/pagination"
	"bookingdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
	session        gin.HandlerFunc
}

func NewBookingHandler(bookingService service.BookingService, session gin.HandlerFunc) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, session: session}
}

func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/api/bookings")
	{
		// Public inquiry form
		bookings.POST("", h.SubmitBooking)

		bookings.GET("", h.session, h.ListBookings)
		bookings.GET("/calendar", h.session, h.Calendar)
		bookings.GET("/:id", h.session, h.GetBooking)
		bookings.PUT("/:id/assign", h.session, h.AssignBooking)
		bookings.PUT("/:id/confirm", h.session, h.ConfirmBooking)
		bookings.PUT("/:id/clear", h.session, h.ClearBooking)
	}
}

// SubmitBooking handles the public inquiry form
// @Summary      Submit a booking inquiry
// @Description  Public endpoint. Creates a booking in status inquiry with no assigned admin.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitBookingRequest  true  "Inquiry form"
// @Success      201      {object}  response.Response{data=service.BookingResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/bookings [post]
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var req service.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	booking, err := h.bookingService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// ListBookings returns bookings newest first. Admins only see their assignments.
// @Summary      List bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        status             query     string  false  "inquiry, confirmed or cleared"
// @Param        assigned_admin_id  query     string  false  "Filter by assignee"
// @Param        unassigned         query     bool    false  "Only bookings without an assignee"
// @Param        page               query     int     false  "Page number (default 1)"
// @Param        limit              query     int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=response.Paged}
// @Failure      403  {object}  response.Response
// @Router       /api/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	filter := service.BookingFilter{
		Status:          c.Query("status"),
		AssignedAdminID: c.Query("assigned_admin_id"),
		Unassigned:      c.Query("unassigned") == "true",
		Offset:          p.Offset(),
		Limit:           p.Limit,
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: bookings,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}))
}

// Calendar lists bookings as calendar events between two dates
// @Summary      Booking calendar
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "First event date, YYYY-MM-DD"
// @Param        to    query     string  false  "Last event date, YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=[]service.CalendarEvent}
// @Router       /api/bookings/calendar [get]
func (h *BookingHandler) Calendar(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	events, err := h.bookingService.Calendar(c.Request.Context(), actor, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

// GetBooking godoc
// @Summary      Get a booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// AssignBooking sets or replaces the booking's admin
// @Summary      Assign a booking
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Booking ID"
// @Param        payload  body      service.AssignBookingRequest  true  "Assignee"
// @Success      200      {object}  response.Response{data=service.BookingResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/bookings/{id}/assign [put]
func (h *BookingHandler) AssignBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.AssignBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	booking, err := h.bookingService.Assign(c.Request.Context(), actor, c.Param("id"), req.AdminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// ConfirmBooking moves an assigned inquiry to confirmed
// @Summary      Confirm a booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/bookings/{id}/confirm [put]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Confirm(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// ClearBooking moves a confirmed booking to cleared
// @Summary      Clear a booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/bookings/{id}/clear [put]
func (h *BookingHandler) ClearBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Clear(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}
