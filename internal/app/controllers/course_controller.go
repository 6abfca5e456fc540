package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/coursereview/internal/app/models/dto"
	"github.com/yigit/coursereview/internal/app/services"
	"github.com/yigit/coursereview/internal/middleware"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService   services.CourseService
	suggestionLimit int
	trendingLimit   int
	now             func() time.Time
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, suggestionLimit, trendingLimit int) *CourseController {
	return &CourseController{
		courseService:   courseService,
		suggestionLimit: suggestionLimit,
		trendingLimit:   trendingLimit,
		now:             time.Now,
	}
}

// WithClock overrides the clock used for recency labels
func (c *CourseController) WithClock(now func() time.Time) *CourseController {
	c.now = now
	return c
}

// GetAllCourses lists every course with its rating statistics
// @Summary List courses
// @Description Retrieves all courses with their average rating and review count
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseSummaryResponse} "Courses retrieved successfully"
// @Failure 502 {object} dto.ErrorResponse "Data store failure"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	summaries, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseSummaryResponses(summaries), "Courses retrieved successfully"))
}

// GetTrendingCourses lists the most reviewed courses
// @Summary Trending courses
// @Description Retrieves the courses with the most reviews, most reviewed first
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseSummaryResponse} "Trending courses retrieved successfully"
// @Failure 502 {object} dto.ErrorResponse "Data store failure"
// @Router /courses/trending [get]
func (c *CourseController) GetTrendingCourses(ctx *gin.Context) {
	summaries, err := c.courseService.TrendingCourses(ctx.Request.Context(), c.trendingLimit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseSummaryResponses(summaries), "Trending courses retrieved successfully"))
}

// SearchSuggestions returns type-ahead suggestions by partial course code
// @Summary Course code suggestions
// @Description Case-insensitive substring match on course code. Fewer than two characters return an empty list.
// @Tags courses
// @Produce json
// @Param code query string true "Partial course code" example(CS)
// @Param limit query int false "Maximum number of suggestions" minimum(1) maximum(50)
// @Success 200 {object} dto.APIResponse{data=[]dto.SuggestionResponse} "Suggestions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 502 {object} dto.ErrorResponse "Data store failure"
// @Router /courses/suggestions [get]
func (c *CourseController) SearchSuggestions(ctx *gin.Context) {
	var query dto.SuggestionQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid query parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	limit := query.Limit
	if limit == 0 {
		limit = c.suggestionLimit
	}

	courses, err := c.courseService.SearchSuggestions(ctx.Request.Context(), query.Code, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSuggestionResponses(courses), "Suggestions retrieved successfully"))
}

// GetCourseByID returns the course detail page
// @Summary Get course details
// @Description Retrieves a course, its statistics and its reviews newest first
// @Tags courses
// @Produce json
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.CoursePageResponse} "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 502 {object} dto.ErrorResponse "Data store failure"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid course id: must be a valid UUID"))
		return
	}

	page, err := c.courseService.GetCoursePage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCoursePageResponse(page, c.now()), "Course retrieved successfully"))
}
