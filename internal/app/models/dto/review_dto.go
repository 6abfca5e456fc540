package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/app/models/dto/enums"
	"github.com/yigit/coursereview/internal/pkg/helpers"
)

// Author labels
const (
	AuthorAnonymous = "Anonymous Student"
	AuthorStudent   = "Student"
)

// SubmitReviewRequest represents the review form payload.
// Optional ratings may be sent as 0 to mean "not provided".
type SubmitReviewRequest struct {
	CourseCode       string   `json:"courseCode" example:"CS101"`
	CourseName       string   `json:"courseName" example:"Introduction to Computing"`
	Term             string   `json:"term" example:"Fall 2024"`
	Instructor       string   `json:"instructor" example:"Dr. Lee"`
	Section          string   `json:"section,omitempty" example:"02"`
	RatingOverall    int      `json:"ratingOverall" example:"4"`
	RatingDifficulty int      `json:"ratingDifficulty,omitempty" example:"3"`
	RatingTeaching   int      `json:"ratingTeaching,omitempty" example:"5"`
	RatingHomework   int      `json:"ratingHomework,omitempty" example:"0"`
	Tags             []string `json:"tags,omitempty"`
	MainReview       string   `json:"mainReview" example:"Clear lectures and fair exams."`
	TipsReview       string   `json:"tipsReview,omitempty" example:"Start the projects early."`
	IsAnonymous      bool     `json:"isAnonymous" example:"false"`
}

// ToDraft converts the request into a review draft
func (r *SubmitReviewRequest) ToDraft() *models.ReviewDraft {
	return &models.ReviewDraft{
		CourseCode:       r.CourseCode,
		CourseName:       r.CourseName,
		Term:             r.Term,
		Instructor:       r.Instructor,
		Section:          r.Section,
		RatingOverall:    r.RatingOverall,
		RatingDifficulty: r.RatingDifficulty,
		RatingTeaching:   r.RatingTeaching,
		RatingHomework:   r.RatingHomework,
		Tags:             r.Tags,
		MainReviewText:   r.MainReview,
		TipsText:         r.TipsReview,
		IsAnonymous:      r.IsAnonymous,
	}
}

// SubmitReviewResponse identifies the stored review and its course
type SubmitReviewResponse struct {
	ReviewID uuid.UUID `json:"reviewId" example:"9b2d4c1e-0f3a-4e5b-8c7d-6a5b4c3d2e1f"`
	CourseID uuid.UUID `json:"courseId" example:"3f1c7e0a-6a52-4a8e-9d6c-1e2a3b4c5d6e"`
}

// RatingResponse is a single rating value with its label
type RatingResponse struct {
	Value *int   `json:"value" example:"4"`
	Label string `json:"label" example:"Good"`
}

func newRatingResponse(axis enums.RatingAxis, v *int) RatingResponse {
	return RatingResponse{Value: v, Label: axis.Label(v)}
}

// ReviewRatingsResponse groups the four rating axes of a review
type ReviewRatingsResponse struct {
	Overall    RatingResponse `json:"overall"`
	Difficulty RatingResponse `json:"difficulty"`
	Teaching   RatingResponse `json:"teaching"`
	Homework   RatingResponse `json:"homework"`
}

// ReviewResponse represents a review as shown on the course page
type ReviewResponse struct {
	ID          uuid.UUID             `json:"id"`
	Term        string                `json:"term" example:"Fall 2024"`
	Section     *string               `json:"section,omitempty" example:"02"`
	Ratings     ReviewRatingsResponse `json:"ratings"`
	Tags        []string              `json:"tags"`
	Content     string                `json:"content"`
	Tips        *string               `json:"tips,omitempty"`
	Author      string                `json:"author" example:"Student"`
	IsAnonymous bool                  `json:"isAnonymous"`
	CreatedAt   time.Time             `json:"createdAt"`
	Recency     string                `json:"recency" example:"3 days ago"`
}

// NewReviewResponse converts a review; the recency label is computed against now
func NewReviewResponse(r *models.Review, now time.Time) ReviewResponse {
	overall := r.RatingOverall
	author := AuthorStudent
	if r.IsAnonymous {
		author = AuthorAnonymous
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return ReviewResponse{
		ID:      r.ID,
		Term:    r.Term,
		Section: r.SectionNumber,
		Ratings: ReviewRatingsResponse{
			Overall:    newRatingResponse(enums.RatingAxisOverall, &overall),
			Difficulty: newRatingResponse(enums.RatingAxisDifficulty, r.RatingDifficulty),
			Teaching:   newRatingResponse(enums.RatingAxisTeaching, r.RatingTeaching),
			Homework:   newRatingResponse(enums.RatingAxisHomework, r.RatingHomework),
		},
		Tags:        tags,
		Content:     r.Content,
		Tips:        r.TipsReviewContent,
		Author:      author,
		IsAnonymous: r.IsAnonymous,
		CreatedAt:   r.CreatedAt,
		Recency:     helpers.FormatRecency(r.CreatedAt, now),
	}
}

// TagsResponse lists the review tag vocabulary
type TagsResponse struct {
	Tags []string `json:"tags"`
}
