package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/app/services"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/cache"
	"github.com/yigit/coursereview/internal/pkg/validation"
)

func newReviewService(store *fakeStore, c cache.Cache) services.ReviewService {
	courses := newCourseService(store, c)
	return services.NewReviewService(courses, store, validation.New(), c, time.Second, zerolog.Nop())
}

func validDraft() *models.ReviewDraft {
	return &models.ReviewDraft{
		CourseCode:     "CS101",
		CourseName:     "Intro to Computing",
		Term:           "Fall 2024",
		Instructor:     "Dr. Lee",
		RatingOverall:  4,
		MainReviewText: "Clear lectures and fair exams.",
	}
}

func TestSubmitRejectsInvalidDraftWithoutStoreCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *models.ReviewDraft)
		field  string
	}{
		{"overall rating zero", func(d *models.ReviewDraft) { d.RatingOverall = 0 }, "ratingOverall"},
		{"overall rating six", func(d *models.ReviewDraft) { d.RatingOverall = 6 }, "ratingOverall"},
		{"difficulty out of range", func(d *models.ReviewDraft) { d.RatingDifficulty = 7 }, "ratingDifficulty"},
		{"text too long", func(d *models.ReviewDraft) { d.MainReviewText = strings.Repeat("a", 1001) }, "mainReview"},
		{"text blank", func(d *models.ReviewDraft) { d.MainReviewText = "   " }, "mainReview"},
		{"tips too long", func(d *models.ReviewDraft) { d.TipsText = strings.Repeat("b", 501) }, "tipsReview"},
		{"missing course code", func(d *models.ReviewDraft) { d.CourseCode = "" }, "courseCode"},
		{"missing term", func(d *models.ReviewDraft) { d.Term = "" }, "term"},
		{"missing instructor", func(d *models.ReviewDraft) { d.Instructor = " " }, "instructor"},
		{"unknown tag", func(d *models.ReviewDraft) { d.Tags = []string{"group-work", "nope"} }, "tags[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newReviewService(store, nil)

			d := validDraft()
			tt.mutate(d)
			res, err := svc.Submit(context.Background(), d)

			require.Error(t, err)
			assert.Nil(t, res)

			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.True(t, vErr.HasField(tt.field), "expected failure on %s, got %v", tt.field, vErr.Fields)
			assert.Equal(t, 0, store.totalCalls())
		})
	}
}

func TestSubmitCreatesCourseAndReview(t *testing.T) {
	store := newFakeStore()
	svc := newReviewService(store, nil)

	d := validDraft()
	d.CourseCode = "CS999"
	d.CourseName = "Unknown Systems"
	d.RatingOverall = 5

	res, err := svc.Submit(context.Background(), d)
	require.NoError(t, err)

	require.Equal(t, 1, store.courseCount())
	require.Equal(t, 1, store.reviewCount())

	course, err := store.GetCourseByID(context.Background(), res.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "CS999", course.CourseCode)
	assert.Equal(t, models.UnspecifiedFaculty, *course.Faculty)
	assert.Equal(t, 0, *course.Credits)

	review := store.lastReview()
	assert.Equal(t, res.ReviewID, review.ID)
	assert.Equal(t, res.CourseID, review.CourseID)
	assert.Equal(t, 5, review.RatingOverall)
}

func TestSubmitReusesExistingCourse(t *testing.T) {
	store := newFakeStore()
	existing := store.addCourse("CS101", "Intro to Computing")
	svc := newReviewService(store, nil)

	res, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.CourseID)
	assert.Equal(t, 1, store.courseCount())
	assert.Equal(t, 0, store.count("CreateCourse"))
}

func TestSubmitNormalizesOptionalFields(t *testing.T) {
	store := newFakeStore()
	svc := newReviewService(store, nil)

	d := validDraft()
	d.CourseCode = "  CS101 "
	d.Section = "   "
	d.TipsText = "  "
	d.Tags = []string{}
	d.RatingTeaching = 5
	d.IsAnonymous = true

	_, err := svc.Submit(context.Background(), d)
	require.NoError(t, err)

	review := store.lastReview()
	assert.Nil(t, review.SectionNumber)
	assert.Nil(t, review.TipsReviewContent)
	assert.Nil(t, review.Tags)
	assert.Nil(t, review.RatingDifficulty)
	assert.Nil(t, review.RatingHomework)
	require.NotNil(t, review.RatingTeaching)
	assert.Equal(t, 5, *review.RatingTeaching)
	assert.True(t, review.IsAnonymous)
	assert.Equal(t, "Clear lectures and fair exams.", review.Content)

	course, err := store.GetCourseByID(context.Background(), review.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.CourseCode)
}

func TestSubmitKeepsProvidedOptionalFields(t *testing.T) {
	store := newFakeStore()
	svc := newReviewService(store, nil)

	d := validDraft()
	d.Section = "02"
	d.TipsText = "Start the projects early."
	d.Tags = []string{"hands-on", "challenging"}

	_, err := svc.Submit(context.Background(), d)
	require.NoError(t, err)

	review := store.lastReview()
	require.NotNil(t, review.SectionNumber)
	assert.Equal(t, "02", *review.SectionNumber)
	require.NotNil(t, review.TipsReviewContent)
	assert.Equal(t, "Start the projects early.", *review.TipsReviewContent)
	assert.Equal(t, []string{"hands-on", "challenging"}, review.Tags)
	assert.Equal(t, "Dr. Lee", *mustCourse(t, store, review).Instructor)
}

func mustCourse(t *testing.T, store *fakeStore, review *models.Review) *models.Course {
	t.Helper()
	c, err := store.GetCourseByID(context.Background(), review.CourseID)
	require.NoError(t, err)
	return c
}

func TestSubmitReviewInsertFailureKeepsCourse(t *testing.T) {
	store := newFakeStore()
	store.errs["CreateReview"] = apperrors.NewStoreError("create review", errors.New("connection reset"))
	svc := newReviewService(store, nil)

	res, err := svc.Submit(context.Background(), validDraft())
	require.Error(t, err)
	assert.Nil(t, res)

	var subErr *apperrors.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.NotEmpty(t, subErr.Cause)
	assert.ErrorIs(t, err, apperrors.ErrStore)

	assert.Equal(t, 1, store.courseCount())
	assert.Equal(t, 0, store.reviewCount())
}

func TestSubmitResolutionFailure(t *testing.T) {
	store := newFakeStore()
	store.errs["FindCourseByCodeAndName"] = apperrors.NewStoreError("find course", errors.New("unreachable"))
	svc := newReviewService(store, nil)

	_, err := svc.Submit(context.Background(), validDraft())

	var subErr *apperrors.SubmissionError
	require.ErrorAs(t, err, &subErr)
	var resErr *apperrors.ResolutionError
	assert.ErrorAs(t, err, &resErr)
	assert.Equal(t, 0, store.count("CreateReview"))
}

func TestSubmitInvalidatesCourseSummaries(t *testing.T) {
	store := newFakeStore()
	mc := newMemCache()
	svc := newReviewService(store, mc)
	courses := newCourseService(store, mc)

	_, err := courses.ListCourses(context.Background())
	require.NoError(t, err)
	require.True(t, mc.has(cache.KeyCourseSummaries))

	_, err = svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.False(t, mc.has(cache.KeyCourseSummaries))

	summaries, err := courses.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Stats.ReviewCount)
	assert.Equal(t, 4.0, summaries[0].Stats.AverageRating)
}

func TestSubmitInsertFailureStillInvalidatesSummaries(t *testing.T) {
	store := newFakeStore()
	mc := newMemCache()
	svc := newReviewService(store, mc)
	courses := newCourseService(store, mc)

	_, err := courses.ListCourses(context.Background())
	require.NoError(t, err)
	require.True(t, mc.has(cache.KeyCourseSummaries))

	store.errs["CreateReview"] = apperrors.NewStoreError("create review", errors.New("connection reset"))
	_, err = svc.Submit(context.Background(), validDraft())
	require.Error(t, err)
	assert.False(t, mc.has(cache.KeyCourseSummaries))

	// The course created during resolution is listed with no reviews
	summaries, err := courses.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "CS101", summaries[0].Course.CourseCode)
	assert.Equal(t, 0, summaries[0].Stats.ReviewCount)
}

func TestSubmitNilDraft(t *testing.T) {
	store := newFakeStore()
	svc := newReviewService(store, nil)

	_, err := svc.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, 0, store.totalCalls())
}
