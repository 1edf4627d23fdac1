package handlers

import (
	"net/http"

	"roamly/services/payment"
	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler ingests asynchronous gateway outcomes. Delivery is
// at-least-once, so the reconcile path treats replays as no-ops.
func (hb *HandlerBundle) PaymentWebhookHandler(c *gin.Context) {
	var event struct {
		TransactionID string `json:"transaction_id" binding:"required"`
		Outcome       string `json:"outcome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}
	if event.Outcome != payment.OutcomeSucceeded && event.Outcome != payment.OutcomeFailed {
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook payload", "unknown outcome "+event.Outcome)
		return
	}

	if err := hb.EscrowSvc.Reconcile(c.Request.Context(), event.TransactionID, event.Outcome); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
