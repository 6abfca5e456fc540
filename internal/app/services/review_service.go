package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/cache"
	"github.com/yigit/coursereview/internal/pkg/helpers"
	"github.com/yigit/coursereview/internal/pkg/validation"
)

// ReviewService defines the interface for review submission
type ReviewService interface {
	Submit(ctx context.Context, draft *models.ReviewDraft) (*models.SubmissionResult, error)
}

// reviewServiceImpl implements the ReviewService interface
type reviewServiceImpl struct {
	courses      CourseService
	reviews      ReviewStore
	validator    *validation.Validator
	cache        cache.Cache
	queryTimeout time.Duration
	logger       zerolog.Logger
}

// NewReviewService creates a new review service instance. A nil cache disables invalidation.
func NewReviewService(courses CourseService, reviews ReviewStore, v *validation.Validator, c cache.Cache, queryTimeout time.Duration, lgr zerolog.Logger) ReviewService {
	if c == nil {
		c = cache.Noop{}
	}
	if v == nil {
		v = validation.New()
	}
	return &reviewServiceImpl{
		courses:      courses,
		reviews:      reviews,
		validator:    v,
		cache:        c,
		queryTimeout: queryTimeout,
		logger:       lgr,
	}
}

// normalizeDraft trims free-text fields so whitespace-only input counts as empty.
func normalizeDraft(d models.ReviewDraft) models.ReviewDraft {
	d.CourseCode = strings.TrimSpace(d.CourseCode)
	d.CourseName = strings.TrimSpace(d.CourseName)
	d.Term = strings.TrimSpace(d.Term)
	d.Instructor = strings.TrimSpace(d.Instructor)
	d.Section = strings.TrimSpace(d.Section)
	d.MainReviewText = strings.TrimSpace(d.MainReviewText)
	d.TipsText = strings.TrimSpace(d.TipsText)
	return d
}

// reviewFromDraft maps a validated draft to the stored record: empty optionals become nil.
func reviewFromDraft(d models.ReviewDraft) *models.Review {
	return &models.Review{
		Term:              d.Term,
		SectionNumber:     helpers.StringOrNil(d.Section),
		RatingOverall:     d.RatingOverall,
		RatingDifficulty:  helpers.IntOrNil(d.RatingDifficulty),
		RatingTeaching:    helpers.IntOrNil(d.RatingTeaching),
		RatingHomework:    helpers.IntOrNil(d.RatingHomework),
		Tags:              helpers.SliceOrNil(d.Tags),
		Content:           d.MainReviewText,
		TipsReviewContent: helpers.StringOrNil(d.TipsText),
		IsAnonymous:       d.IsAnonymous,
	}
}

// Submit validates the draft, resolves its course and stores the review.
// Validation failures return *apperrors.ValidationError before any store call.
// Store failures return *apperrors.SubmissionError; a course created by the resolution step
// is kept even when the review insert fails.
func (s *reviewServiceImpl) Submit(ctx context.Context, draft *models.ReviewDraft) (*models.SubmissionResult, error) {
	if draft == nil {
		return nil, apperrors.NewValidationError("draft", "required", "review draft is required")
	}

	d := normalizeDraft(*draft)
	if err := s.validator.Struct(d); err != nil {
		return nil, err
	}

	courseID, err := s.courses.ResolveOrCreate(ctx, d.CourseCode, d.CourseName, helpers.StringOrNil(d.Instructor))
	if err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		return nil, &apperrors.SubmissionError{Cause: "could not find or create the course", Err: err}
	}

	review := reviewFromDraft(d)
	review.CourseID = courseID

	callCtx, cancel := helpers.WithCallTimeout(ctx, s.queryTimeout)
	reviewID, err := s.reviews.CreateReview(callCtx, review)
	cancel()
	if err != nil {
		s.logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Review insert failed after course resolution")
		// The resolved course may be new even though the review was not stored
		s.invalidateSummaries(ctx)
		return nil, &apperrors.SubmissionError{Cause: "could not save the review", Err: err}
	}

	s.invalidateSummaries(ctx)

	s.logger.Info().
		Str("reviewID", reviewID.String()).
		Str("courseID", courseID.String()).
		Int("ratingOverall", review.RatingOverall).
		Bool("anonymous", review.IsAnonymous).
		Msg("Review submitted")

	return &models.SubmissionResult{ReviewID: reviewID, CourseID: courseID}, nil
}

func (s *reviewServiceImpl) invalidateSummaries(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyCourseSummaries); err != nil {
		s.logger.Warn().Err(err).Msg("Course summary cache invalidation failed")
	}
}
