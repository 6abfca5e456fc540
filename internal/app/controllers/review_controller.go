package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursereview/internal/app/models/dto"
	"github.com/yigit/coursereview/internal/app/services"
	"github.com/yigit/coursereview/internal/middleware"
	"github.com/yigit/coursereview/internal/pkg/validation"
)

// ReviewController handles review-related operations
type ReviewController struct {
	reviewService services.ReviewService
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// SubmitReview handles review submission
// @Summary Submit a review
// @Description Validates and stores a review. The course is created when no course matches the exact code and name.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Review form"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitReviewResponse} "Review submitted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid review data"
// @Failure 502 {object} dto.ErrorResponse "Submission failed in the data store"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	var req dto.SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid review data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.reviewService.Submit(ctx.Request.Context(), req.ToDraft())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SubmitReviewResponse{
		ReviewID: result.ReviewID,
		CourseID: result.CourseID,
	}, "Review submitted successfully"))
}

// GetReviewTags lists the tags a review may carry
// @Summary Review tags
// @Description Retrieves the fixed tag vocabulary in display order
// @Tags reviews
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TagsResponse} "Tags retrieved successfully"
// @Router /reviews/tags [get]
func (c *ReviewController) GetReviewTags(ctx *gin.Context) {
	tags := make([]string, len(validation.ReviewTags))
	copy(tags, validation.ReviewTags)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TagsResponse{Tags: tags}, "Tags retrieved successfully"))
}
