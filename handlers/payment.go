package handlers

import (
	"net/http"

	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// CreatePaymentIntentHandler opens (or resumes) the escrow payment for a
// booking and hands the gateway client secret back to the payer.
func (hb *HandlerBundle) CreatePaymentIntentHandler(c *gin.Context) {
	var input struct {
		BookingID string `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := hb.EscrowSvc.CreateOrReuseIntent(c.Request.Context(), input.BookingID, c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment":       resp.Payment,
		"client_secret": resp.ClientSecret,
	})
}

// ReleasePaymentHandler makes the held funds payable to the host.
func (hb *HandlerBundle) ReleasePaymentHandler(c *gin.Context) {
	pmt, err := hb.EscrowSvc.Release(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": pmt})
}

// RefundPaymentHandler returns the held funds to the payer and cancels the
// booking.
func (hb *HandlerBundle) RefundPaymentHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	pmt, err := hb.EscrowSvc.Refund(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": pmt})
}
