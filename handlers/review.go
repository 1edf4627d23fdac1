package handlers

import (
	"net/http"

	"roamly/middleware"
	"roamly/services/review"
	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// CreateReviewHandler files a review for a completed booking.
func (hb *HandlerBundle) CreateReviewHandler(c *gin.Context) {
	var input review.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.ReviewerID = c.GetString("userID")

	rv, err := hb.ReviewSvc.CreateReview(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": rv})
}

// UpdateReviewHandler amends a review within its edit window.
func (hb *HandlerBundle) UpdateReviewHandler(c *gin.Context) {
	var patch review.UpdateReviewInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rv, err := hb.ReviewSvc.UpdateReview(c.Request.Context(), c.Param("id"), c.GetString("userID"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": rv})
}

// DeleteReviewHandler removes a review (author or administrator).
func (hb *HandlerBundle) DeleteReviewHandler(c *gin.Context) {
	if err := hb.ReviewSvc.DeleteReview(c.Request.Context(), c.Param("id"), middleware.CurrentPrincipal(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// RespondToReviewHandler records the host's single reply to a tourist review.
func (hb *HandlerBundle) RespondToReviewHandler(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rv, err := hb.ReviewSvc.RespondToReview(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Text)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": rv})
}

// ListServiceReviewsHandler returns a service's reviews, newest first.
func (hb *HandlerBundle) ListServiceReviewsHandler(c *gin.Context) {
	reviews, err := hb.ReviewSvc.ListServiceReviews(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// GetServiceRatingHandler returns a service's rating aggregate. Public.
func (hb *HandlerBundle) GetServiceRatingHandler(c *gin.Context) {
	rating, err := hb.ReviewSvc.GetServiceRating(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}
