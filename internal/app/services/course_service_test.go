package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/app/services"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/cache"
)

func newCourseService(store *fakeStore, c cache.Cache) services.CourseService {
	return services.NewCourseService(store, store, c, services.CourseServiceConfig{QueryTimeout: time.Second}, zerolog.Nop())
}

func TestResolveOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing course with defaults", func(t *testing.T) {
		store := newFakeStore()
		svc := newCourseService(store, nil)
		instructor := "Dr. Smith"

		id, err := svc.ResolveOrCreate(ctx, "CS999", "Unknown Systems", &instructor)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)
		require.Equal(t, 1, store.courseCount())

		course, err := store.GetCourseByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "CS999", course.CourseCode)
		assert.Equal(t, "Unknown Systems", course.CourseName)
		require.NotNil(t, course.Faculty)
		assert.Equal(t, models.UnspecifiedFaculty, *course.Faculty)
		require.NotNil(t, course.Credits)
		assert.Equal(t, 0, *course.Credits)
		require.NotNil(t, course.Instructor)
		assert.Equal(t, "Dr. Smith", *course.Instructor)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newFakeStore()
		svc := newCourseService(store, nil)

		first, err := svc.ResolveOrCreate(ctx, "CS101", "Intro", nil)
		require.NoError(t, err)
		second, err := svc.ResolveOrCreate(ctx, "CS101", "Intro", nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.courseCount())
		assert.Equal(t, 1, store.count("CreateCourse"))
	})

	t.Run("matches existing course exactly", func(t *testing.T) {
		store := newFakeStore()
		existing := store.addCourse("CS101", "Intro")
		svc := newCourseService(store, nil)

		id, err := svc.ResolveOrCreate(ctx, "CS101", "Intro", nil)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, id)
		assert.Equal(t, 0, store.count("CreateCourse"))

		// Different name is a different course
		other, err := svc.ResolveOrCreate(ctx, "CS101", "Intro to CS", nil)
		require.NoError(t, err)
		assert.NotEqual(t, existing.ID, other)
		assert.Equal(t, 2, store.courseCount())
	})

	t.Run("lost creation race returns existing row", func(t *testing.T) {
		store := newFakeStore()
		store.raceOnCreate = true
		svc := newCourseService(store, nil)

		id, err := svc.ResolveOrCreate(ctx, "CS202", "Data Structures", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, store.courseCount())
		assert.Equal(t, 2, store.count("FindCourseByCodeAndName"))

		course, err := store.GetCourseByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "CS202", course.CourseCode)
	})

	t.Run("concurrent resolutions yield one course", func(t *testing.T) {
		store := newFakeStore()
		svc := newCourseService(store, nil)

		const workers = 10
		ids := make([]uuid.UUID, workers)
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = svc.ResolveOrCreate(ctx, "CS303", "Algorithms", nil)
			}(i)
		}
		wg.Wait()

		for i := range ids {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		assert.Equal(t, 1, store.courseCount())
	})

	t.Run("store failure is a resolution error", func(t *testing.T) {
		store := newFakeStore()
		store.errs["FindCourseByCodeAndName"] = apperrors.NewStoreError("find course", errors.New("connection refused"))
		svc := newCourseService(store, nil)

		_, err := svc.ResolveOrCreate(ctx, "CS101", "Intro", nil)
		require.Error(t, err)

		var resErr *apperrors.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "CS101", resErr.CourseCode)
		assert.ErrorIs(t, err, apperrors.ErrStore)
		assert.Equal(t, 0, store.courseCount())
	})

	t.Run("blank identity is rejected without store calls", func(t *testing.T) {
		store := newFakeStore()
		svc := newCourseService(store, nil)

		_, err := svc.ResolveOrCreate(ctx, "  ", "Intro", nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, 0, store.totalCalls())
	})
}

func TestSearchSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("short input issues no query", func(t *testing.T) {
		store := newFakeStore()
		store.addCourse("CS101", "Intro")
		svc := newCourseService(store, nil)

		for _, in := range []string{"", "C", "  C  "} {
			got, err := svc.SearchSuggestions(ctx, in, 0)
			require.NoError(t, err)
			assert.Empty(t, got)
		}
		assert.Equal(t, 0, store.count("SearchCoursesByCode"))
	})

	t.Run("matches substring case-insensitively", func(t *testing.T) {
		store := newFakeStore()
		store.addCourse("CS101", "Intro")
		store.addCourse("ECS200", "Embedded")
		store.addCourse("MATH101", "Calculus")
		svc := newCourseService(store, nil)

		got, err := svc.SearchSuggestions(ctx, "cs", 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "CS101", got[0].CourseCode)
		assert.Equal(t, "ECS200", got[1].CourseCode)
	})

	t.Run("caps results at default limit", func(t *testing.T) {
		store := newFakeStore()
		for i := 0; i < 25; i++ {
			store.addCourse(fmt.Sprintf("CS%03d", i), "Course")
		}
		svc := newCourseService(store, nil)

		got, err := svc.SearchSuggestions(ctx, "CS", 0)
		require.NoError(t, err)
		assert.Len(t, got, services.DefaultSuggestionLimit)

		got, err = svc.SearchSuggestions(ctx, "CS", 1000)
		require.NoError(t, err)
		assert.Len(t, got, 25)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := newFakeStore()
		store.errs["SearchCoursesByCode"] = apperrors.NewStoreError("search courses", errors.New("timeout"))
		svc := newCourseService(store, nil)

		_, err := svc.SearchSuggestions(ctx, "CS", 0)
		assert.ErrorIs(t, err, apperrors.ErrStore)
	})
}

func TestListCourses(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates ratings per course", func(t *testing.T) {
		store := newFakeStore()
		a := store.addCourse("CS101", "Intro")
		b := store.addCourse("CS102", "Systems")
		store.addReview(a.ID, 4, time.Hour)
		store.addReview(a.ID, 5, 2*time.Hour)
		svc := newCourseService(store, nil)

		got, err := svc.ListCourses(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, a.ID, got[0].Course.ID)
		assert.Equal(t, 4.5, got[0].Stats.AverageRating)
		assert.Equal(t, 2, got[0].Stats.ReviewCount)

		assert.Equal(t, b.ID, got[1].Course.ID)
		assert.Equal(t, 0.0, got[1].Stats.AverageRating)
		assert.Equal(t, 0, got[1].Stats.ReviewCount)
	})

	t.Run("empty store gives empty list", func(t *testing.T) {
		svc := newCourseService(newFakeStore(), nil)
		got, err := svc.ListCourses(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		store := newFakeStore()
		a := store.addCourse("CS101", "Intro")
		store.addReview(a.ID, 3, time.Hour)
		mc := newMemCache()
		svc := newCourseService(store, mc)

		first, err := svc.ListCourses(ctx)
		require.NoError(t, err)
		second, err := svc.ListCourses(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, store.count("ListCoursesWithRatings"))
		require.Len(t, second, 1)
		assert.Equal(t, first[0].Course.ID, second[0].Course.ID)
		assert.Equal(t, first[0].Stats, second[0].Stats)
	})
}

func TestTrendingCourses(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	counts := map[string]int{"A100": 1, "B200": 4, "C300": 0, "D400": 4, "E500": 2, "F600": 3, "G700": 1}
	for _, code := range []string{"A100", "B200", "C300", "D400", "E500", "F600", "G700"} {
		c := store.addCourse(code, "Course "+code)
		for i := 0; i < counts[code]; i++ {
			store.addReview(c.ID, 4, time.Duration(i)*time.Hour)
		}
	}
	svc := newCourseService(store, nil)

	got, err := svc.TrendingCourses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, services.DefaultTrendingLimit)

	codes := make([]string, len(got))
	for i, s := range got {
		codes[i] = s.Course.CourseCode
	}
	// Ties keep catalogue order
	assert.Equal(t, []string{"B200", "D400", "F600", "E500", "A100"}, codes)

	got, err = svc.TrendingCourses(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetCoursePage(t *testing.T) {
	ctx := context.Background()

	t.Run("course without reviews", func(t *testing.T) {
		store := newFakeStore()
		c := store.addCourse("CS101", "Intro")
		svc := newCourseService(store, nil)

		page, err := svc.GetCoursePage(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, page.Course.ID)
		assert.Empty(t, page.Reviews)
		assert.Equal(t, 0, page.Stats.ReviewCount)
		assert.Equal(t, 0.0, page.Stats.AverageRating)
		assert.Nil(t, page.Stats.AverageDifficulty)
	})

	t.Run("reviews newest first with stats", func(t *testing.T) {
		store := newFakeStore()
		c := store.addCourse("CS101", "Intro")
		old := store.addReview(c.ID, 3, 48*time.Hour)
		mid := store.addReview(c.ID, 4, 24*time.Hour)
		recent := store.addReview(c.ID, 4, time.Hour)
		difficulty := 2
		recent.RatingDifficulty = &difficulty
		svc := newCourseService(store, nil)

		page, err := svc.GetCoursePage(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, page.Reviews, 3)
		assert.Equal(t, recent.ID, page.Reviews[0].ID)
		assert.Equal(t, mid.ID, page.Reviews[1].ID)
		assert.Equal(t, old.ID, page.Reviews[2].ID)
		assert.Equal(t, 3.7, page.Stats.AverageRating)
		assert.Equal(t, 3, page.Stats.ReviewCount)
		require.NotNil(t, page.Stats.AverageDifficulty)
		assert.Equal(t, 2.0, *page.Stats.AverageDifficulty)
	})

	t.Run("unknown course", func(t *testing.T) {
		svc := newCourseService(newFakeStore(), nil)
		_, err := svc.GetCoursePage(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("nil id", func(t *testing.T) {
		store := newFakeStore()
		svc := newCourseService(store, nil)
		_, err := svc.GetCoursePage(ctx, uuid.Nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, 0, store.totalCalls())
	})
}
