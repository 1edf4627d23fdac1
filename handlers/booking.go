package handlers

import (
	"net/http"

	"roamly/middleware"
	"roamly/models"
	"roamly/services/booking"
	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler opens a pending reservation for the authenticated
// tourist.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.TouristID = c.GetString("userID")

	bk, err := hb.BookingSvc.CreateBooking(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": bk})
}

// GetBookingHandler returns a single booking to one of its parties.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	bk, err := hb.BookingSvc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	actor := middleware.CurrentPrincipal(c)
	if actor.ID != bk.TouristID && actor.ID != bk.HostID && !actor.IsAdmin() {
		utils.RespondError(c, utils.ForbiddenErr("only the booking's parties may view it"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bk})
}

// ListMyBookingsHandler returns the authenticated tourist's bookings.
func (hb *HandlerBundle) ListMyBookingsHandler(c *gin.Context) {
	bookings, err := hb.BookingSvc.ListTouristBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListHostBookingsHandler returns the bookings against the authenticated
// host's services.
func (hb *HandlerBundle) ListHostBookingsHandler(c *gin.Context) {
	bookings, err := hb.BookingSvc.ListHostBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateBookingStatusHandler drives a host-side forward transition.
func (hb *HandlerBundle) UpdateBookingStatusHandler(c *gin.Context) {
	var input struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	bk, err := hb.BookingSvc.UpdateStatus(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bk})
}

// CancelBookingHandler is the tourist-side cancellation.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	bk, err := hb.BookingSvc.Cancel(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bk})
}
