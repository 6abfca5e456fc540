package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/cache"
)

// fakeStore is an in-memory CourseStore and ReviewStore that counts calls.
type fakeStore struct {
	mu      sync.Mutex
	courses []*models.Course
	reviews []*models.Review
	calls   map[string]int
	now     time.Time

	// errs forces the named operation to fail.
	errs map[string]error
	// raceOnCreate makes CreateCourse insert the row as a concurrent writer would and report a conflict.
	raceOnCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls: map[string]int{},
		errs:  map[string]error{},
		now:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) record(op string) error {
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) addCourse(code, name string) *models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &models.Course{ID: uuid.New(), CourseCode: code, CourseName: name}
	f.courses = append(f.courses, c)
	return c
}

func (f *fakeStore) addReview(courseID uuid.UUID, overall int, age time.Duration) *models.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &models.Review{
		ID:            uuid.New(),
		CourseID:      courseID,
		Term:          "Fall 2023",
		RatingOverall: overall,
		Content:       "seeded",
		CreatedAt:     f.now.Add(-age),
	}
	f.reviews = append(f.reviews, r)
	return r
}

func (f *fakeStore) courseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.courses)
}

func (f *fakeStore) reviewCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reviews)
}

func (f *fakeStore) lastReview() *models.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reviews) == 0 {
		return nil
	}
	return f.reviews[len(f.reviews)-1]
}

func (f *fakeStore) findLocked(code, name string) *models.Course {
	for _, c := range f.courses {
		if c.CourseCode == code && c.CourseName == name {
			return c
		}
	}
	return nil
}

func (f *fakeStore) GetCourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetCourseByID"); err != nil {
		return nil, err
	}
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeStore) FindCourseByCodeAndName(_ context.Context, code, name string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FindCourseByCodeAndName"); err != nil {
		return nil, err
	}
	if c := f.findLocked(code, name); c != nil {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeStore) CreateCourse(_ context.Context, course *models.Course) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateCourse"); err != nil {
		return uuid.Nil, err
	}
	if f.raceOnCreate {
		f.raceOnCreate = false
		winner := *course
		winner.ID = uuid.New()
		f.courses = append(f.courses, &winner)
		return uuid.Nil, apperrors.ErrCourseAlreadyExists
	}
	if f.findLocked(course.CourseCode, course.CourseName) != nil {
		return uuid.Nil, apperrors.ErrCourseAlreadyExists
	}
	stored := *course
	stored.ID = uuid.New()
	f.courses = append(f.courses, &stored)
	return stored.ID, nil
}

func (f *fakeStore) SearchCoursesByCode(_ context.Context, partial string, limit int) ([]*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SearchCoursesByCode"); err != nil {
		return nil, err
	}
	out := []*models.Course{}
	for _, c := range f.courses {
		if strings.Contains(strings.ToLower(c.CourseCode), strings.ToLower(partial)) {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ListCoursesWithRatings(_ context.Context) ([]*models.CourseRatings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListCoursesWithRatings"); err != nil {
		return nil, err
	}
	out := make([]*models.CourseRatings, 0, len(f.courses))
	for _, c := range f.courses {
		cr := &models.CourseRatings{Course: c, Ratings: []int{}}
		for _, r := range f.reviews {
			if r.CourseID == c.ID {
				cr.Ratings = append(cr.Ratings, r.RatingOverall)
			}
		}
		out = append(out, cr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Course.CourseCode != out[j].Course.CourseCode {
			return out[i].Course.CourseCode < out[j].Course.CourseCode
		}
		return out[i].Course.CourseName < out[j].Course.CourseName
	})
	return out, nil
}

func (f *fakeStore) CreateReview(_ context.Context, review *models.Review) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateReview"); err != nil {
		return uuid.Nil, err
	}
	found := false
	for _, c := range f.courses {
		if c.ID == review.CourseID {
			found = true
			break
		}
	}
	if !found {
		return uuid.Nil, apperrors.NewStoreError("create review", errors.New("foreign key violation"))
	}
	review.ID = uuid.New()
	review.CreatedAt = f.now
	stored := *review
	f.reviews = append(f.reviews, &stored)
	return review.ID, nil
}

func (f *fakeStore) ListReviewsByCourse(_ context.Context, courseID uuid.UUID) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListReviewsByCourse"); err != nil {
		return nil, err
	}
	out := []*models.Review{}
	for _, r := range f.reviews {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// memCache is a map-backed cache.Cache.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Close() error { return nil }

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
