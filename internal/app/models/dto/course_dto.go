package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/helpers"
)

// Display placeholders for absent course fields
const (
	NotSpecified     = "Not specified"
	NoPreview        = "No preview available for this course."
	NoReviewsMessage = "No reviews yet"
)

// CourseResponse represents a course with display defaults applied
type CourseResponse struct {
	ID             uuid.UUID `json:"id" example:"3f1c7e0a-6a52-4a8e-9d6c-1e2a3b4c5d6e"`
	CourseCode     string    `json:"courseCode" example:"CS101"`
	CourseName     string    `json:"courseName" example:"Introduction to Computing"`
	UniversityName string    `json:"universityName" example:"Not specified"`
	Faculty        string    `json:"faculty" example:"Engineering"`
	Instructor     string    `json:"instructor" example:"Dr. Lee"`
	Credits        int       `json:"credits" example:"3"`
	Preview        string    `json:"preview" example:"No preview available for this course."`
}

// NewCourseResponse converts a course into its display form
func NewCourseResponse(c *models.Course) CourseResponse {
	credits := 0
	if c.Credits != nil {
		credits = *c.Credits
	}
	return CourseResponse{
		ID:             c.ID,
		CourseCode:     c.CourseCode,
		CourseName:     c.CourseName,
		UniversityName: helpers.StringOr(c.UniversityName, NotSpecified),
		Faculty:        helpers.StringOr(c.Faculty, NotSpecified),
		Instructor:     helpers.StringOr(c.Instructor, NotSpecified),
		Credits:        credits,
		Preview:        helpers.StringOr(c.Preview, NoPreview),
	}
}

// CourseStatsResponse represents the aggregated ratings of a course
type CourseStatsResponse struct {
	AverageRating      float64  `json:"averageRating" example:"4.5"`
	ReviewCount        int      `json:"reviewCount" example:"2"`
	AverageDisplay     string   `json:"averageDisplay" example:"4.5/5.0"`
	ReviewCountDisplay string   `json:"reviewCountDisplay" example:"2 reviews"`
	AverageDifficulty  *float64 `json:"averageDifficulty,omitempty" example:"3.0"`
	AverageTeaching    *float64 `json:"averageTeaching,omitempty" example:"4.0"`
	AverageHomework    *float64 `json:"averageHomework,omitempty" example:"2.5"`
}

// NewCourseStatsResponse converts course statistics into their display form
func NewCourseStatsResponse(s models.CourseStats) CourseStatsResponse {
	return CourseStatsResponse{
		AverageRating:      s.AverageRating,
		ReviewCount:        s.ReviewCount,
		AverageDisplay:     fmt.Sprintf("%.1f/5.0", s.AverageRating),
		ReviewCountDisplay: ReviewCountLabel(s.ReviewCount),
		AverageDifficulty:  s.AverageDifficulty,
		AverageTeaching:    s.AverageTeaching,
		AverageHomework:    s.AverageHomework,
	}
}

// ReviewCountLabel renders a review count such as "1 review" or "0 reviews"
func ReviewCountLabel(n int) string {
	if n == 1 {
		return "1 review"
	}
	return fmt.Sprintf("%d reviews", n)
}

// CourseSummaryResponse represents one entry of the course listing
type CourseSummaryResponse struct {
	Course     CourseResponse      `json:"course"`
	Statistics CourseStatsResponse `json:"statistics"`
}

// NewCourseSummaryResponses converts course summaries for listing and trending views
func NewCourseSummaryResponses(summaries []*models.CourseSummary) []CourseSummaryResponse {
	out := make([]CourseSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, CourseSummaryResponse{
			Course:     NewCourseResponse(s.Course),
			Statistics: NewCourseStatsResponse(s.Stats),
		})
	}
	return out
}

// SuggestionQuery holds the query parameters of the suggestion endpoint
type SuggestionQuery struct {
	Code  string `form:"code"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// SuggestionResponse represents one type-ahead suggestion
type SuggestionResponse struct {
	ID         uuid.UUID `json:"id" example:"3f1c7e0a-6a52-4a8e-9d6c-1e2a3b4c5d6e"`
	CourseCode string    `json:"courseCode" example:"CS101"`
	CourseName string    `json:"courseName" example:"Introduction to Computing"`
	Instructor string    `json:"instructor" example:"Dr. Lee"`
	Faculty    string    `json:"faculty" example:"Engineering"`
	Credits    int       `json:"credits" example:"3"`
}

// NewSuggestionResponses converts suggestion results
func NewSuggestionResponses(courses []*models.Course) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(courses))
	for _, c := range courses {
		cr := NewCourseResponse(c)
		out = append(out, SuggestionResponse{
			ID:         cr.ID,
			CourseCode: cr.CourseCode,
			CourseName: cr.CourseName,
			Instructor: cr.Instructor,
			Faculty:    cr.Faculty,
			Credits:    cr.Credits,
		})
	}
	return out
}

// CoursePageResponse represents the course detail view
type CoursePageResponse struct {
	Course     CourseResponse      `json:"course"`
	Statistics CourseStatsResponse `json:"statistics"`
	Reviews    []ReviewResponse    `json:"reviews"`
	EmptyState string              `json:"emptyState,omitempty" example:"No reviews yet"`
}

// NewCoursePageResponse converts a course page; recency labels are computed against now
func NewCoursePageResponse(p *models.CoursePage, now time.Time) CoursePageResponse {
	resp := CoursePageResponse{
		Course:     NewCourseResponse(p.Course),
		Statistics: NewCourseStatsResponse(p.Stats),
		Reviews:    make([]ReviewResponse, 0, len(p.Reviews)),
	}
	for _, r := range p.Reviews {
		resp.Reviews = append(resp.Reviews, NewReviewResponse(r, now))
	}
	if len(resp.Reviews) == 0 {
		resp.EmptyState = NoReviewsMessage
	}
	return resp
}
