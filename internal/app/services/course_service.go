package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/cache"
	"github.com/yigit/coursereview/internal/pkg/helpers"
	"github.com/yigit/coursereview/internal/pkg/validation"
)

// Default limits for listing operations
const (
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 50
	DefaultTrendingLimit   = 5
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	ResolveOrCreate(ctx context.Context, code, name string, instructor *string) (uuid.UUID, error)
	SearchSuggestions(ctx context.Context, partialCode string, limit int) ([]*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.CourseSummary, error)
	TrendingCourses(ctx context.Context, limit int) ([]*models.CourseSummary, error)
	GetCoursePage(ctx context.Context, id uuid.UUID) (*models.CoursePage, error)
}

// CourseServiceConfig carries the tunables of the course service.
type CourseServiceConfig struct {
	// QueryTimeout bounds every individual store call; zero disables it.
	QueryTimeout time.Duration
	// CacheTTL is how long course summaries stay cached.
	CacheTTL time.Duration
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courses CourseStore
	reviews ReviewStore
	cache   cache.Cache
	cfg     CourseServiceConfig
	logger  zerolog.Logger
}

// NewCourseService creates a new course service instance. A nil cache disables caching.
func NewCourseService(courses CourseStore, reviews ReviewStore, c cache.Cache, cfg CourseServiceConfig, lgr zerolog.Logger) CourseService {
	if c == nil {
		c = cache.Noop{}
	}
	return &courseServiceImpl{
		courses: courses,
		reviews: reviews,
		cache:   c,
		cfg:     cfg,
		logger:  lgr,
	}
}

// ResolveOrCreate returns the ID of the course with exactly this (code, name), creating it when absent.
// A concurrent creation of the same pair surfaces as a unique violation and is answered with the
// existing row. Store failures are returned as *apperrors.ResolutionError.
func (s *courseServiceImpl) ResolveOrCreate(ctx context.Context, code, name string, instructor *string) (uuid.UUID, error) {
	course, err := models.NewCourse(code, name, instructor)
	if err != nil {
		return uuid.Nil, err
	}
	resolutionErr := func(err error) error {
		return &apperrors.ResolutionError{CourseCode: course.CourseCode, CourseName: course.CourseName, Err: err}
	}

	existing, err := s.find(ctx, course.CourseCode, course.CourseName)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		return uuid.Nil, resolutionErr(err)
	}

	callCtx, cancel := helpers.WithCallTimeout(ctx, s.cfg.QueryTimeout)
	id, err := s.courses.CreateCourse(callCtx, course)
	cancel()
	if err == nil {
		s.logger.Info().
			Str("courseID", id.String()).
			Str("courseCode", course.CourseCode).
			Str("courseName", course.CourseName).
			Msg("Course created during resolution")
		return id, nil
	}
	if !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
		return uuid.Nil, resolutionErr(err)
	}

	// Lost the race against another submission for the same pair
	existing, err = s.find(ctx, course.CourseCode, course.CourseName)
	if err != nil {
		return uuid.Nil, resolutionErr(err)
	}
	s.logger.Debug().Str("courseID", existing.ID.String()).Msg("Course created concurrently, using existing row")
	return existing.ID, nil
}

func (s *courseServiceImpl) find(ctx context.Context, code, name string) (*models.Course, error) {
	callCtx, cancel := helpers.WithCallTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()
	return s.courses.FindCourseByCodeAndName(callCtx, code, name)
}

// SearchSuggestions returns courses whose code contains partialCode, case-insensitively.
// Input shorter than two characters yields an empty result without querying the store.
func (s *courseServiceImpl) SearchSuggestions(ctx context.Context, partialCode string, limit int) ([]*models.Course, error) {
	partialCode = strings.TrimSpace(partialCode)
	if utf8.RuneCountInString(partialCode) < validation.SuggestionMinLength {
		return []*models.Course{}, nil
	}

	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		limit = MaxSuggestionLimit
	}

	callCtx, cancel := helpers.WithCallTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	courses, err := s.courses.SearchCoursesByCode(callCtx, partialCode, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching course suggestions: %w", err)
	}
	return courses, nil
}

// ListCourses returns every course with its rating statistics.
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.CourseSummary, error) {
	var cached []*models.CourseSummary
	err := s.cache.GetJSON(ctx, cache.KeyCourseSummaries, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn().Err(err).Msg("Course summary cache read failed")
	}

	callCtx, cancel := helpers.WithCallTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	rows, err := s.courses.ListCoursesWithRatings(callCtx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	summaries := make([]*models.CourseSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &models.CourseSummary{
			Course: row.Course,
			Stats:  AggregateRatings(row.Ratings),
		})
	}

	if err := s.cache.SetJSON(ctx, cache.KeyCourseSummaries, summaries, s.cfg.CacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Course summary cache write failed")
	}

	return summaries, nil
}

// TrendingCourses returns the courses with the most reviews, most reviewed first.
func (s *courseServiceImpl) TrendingCourses(ctx context.Context, limit int) ([]*models.CourseSummary, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	all, err := s.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	trending := make([]*models.CourseSummary, len(all))
	copy(trending, all)
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Stats.ReviewCount > trending[j].Stats.ReviewCount
	})

	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}

// GetCoursePage loads a course, its reviews newest first, and their statistics.
func (s *courseServiceImpl) GetCoursePage(ctx context.Context, id uuid.UUID) (*models.CoursePage, error) {
	if id == uuid.Nil {
		return nil, apperrors.NewValidationError("id", "required", "course id is required")
	}

	callCtx, cancel := helpers.WithCallTimeout(ctx, s.cfg.QueryTimeout)
	course, err := s.courses.GetCourseByID(callCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	callCtx, cancel = helpers.WithCallTimeout(ctx, s.cfg.QueryTimeout)
	reviews, err := s.reviews.ListReviewsByCourse(callCtx, id)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("error retrieving reviews: %w", err)
	}

	return &models.CoursePage{
		Course:  course,
		Stats:   ComputeCourseStats(reviews),
		Reviews: reviews,
	}, nil
}
