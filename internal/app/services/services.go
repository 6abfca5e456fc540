package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/coursereview/internal/app/models"
)

// Services defined in this package:
// - CourseService: course resolution, suggestions, listing, trending and the course page
// - ReviewService: validation and persistence of new reviews
// ComputeCourseStats is the pure aggregation both of them use.

// CourseStore is the course half of the data store gateway.
// Lookups by identity return apperrors.ErrCourseNotFound when no row matches;
// CreateCourse returns apperrors.ErrCourseAlreadyExists on a (code, name) conflict.
// Every other failure is an *apperrors.StoreError.
type CourseStore interface {
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	FindCourseByCodeAndName(ctx context.Context, code, name string) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	SearchCoursesByCode(ctx context.Context, partial string, limit int) ([]*models.Course, error)
	ListCoursesWithRatings(ctx context.Context) ([]*models.CourseRatings, error)
}

// ReviewStore is the review half of the data store gateway.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) (uuid.UUID, error)
	ListReviewsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Review, error)
}
