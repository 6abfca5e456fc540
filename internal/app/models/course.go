package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
)

// UnspecifiedFaculty is stored for courses created implicitly by a review submission.
const UnspecifiedFaculty = "Not specified"

// Course represents a catalogued subject that reviews attach to.
type Course struct {
	ID             uuid.UUID `json:"id" db:"id"`
	CourseCode     string    `json:"courseCode" db:"course_code"`
	CourseName     string    `json:"courseName" db:"course_name"`
	UniversityName *string   `json:"universityName,omitempty" db:"university_name"`
	Faculty        *string   `json:"faculty,omitempty" db:"faculty"`
	Instructor     *string   `json:"instructor,omitempty" db:"instructor"`
	Credits        *int      `json:"credits,omitempty" db:"credits"`
	Preview        *string   `json:"preview,omitempty" db:"preview"`
}

// NewCourse builds a course for implicit creation during review submission:
// faculty defaults to UnspecifiedFaculty and credits to 0.
func NewCourse(code, name string, instructor *string) (*Course, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, apperrors.NewValidationError("courseCode", "required", "courseCode is required")
	}
	if name == "" {
		return nil, apperrors.NewValidationError("courseName", "required", "courseName is required")
	}

	faculty := UnspecifiedFaculty
	credits := 0
	return &Course{
		CourseCode: code,
		CourseName: name,
		Instructor: instructor,
		Faculty:    &faculty,
		Credits:    &credits,
	}, nil
}

// CourseRatings is a course together with the overall ratings of all its reviews.
type CourseRatings struct {
	Course  *Course
	Ratings []int
}

// CourseSummary is a course with its display statistics, used by listing and trending views.
type CourseSummary struct {
	Course *Course     `json:"course"`
	Stats  CourseStats `json:"stats"`
}

// CourseStats holds statistics derived from a course's reviews.
type CourseStats struct {
	AverageRating     float64  `json:"averageRating"`
	ReviewCount       int      `json:"reviewCount"`
	AverageDifficulty *float64 `json:"averageDifficulty,omitempty"`
	AverageTeaching   *float64 `json:"averageTeaching,omitempty"`
	AverageHomework   *float64 `json:"averageHomework,omitempty"`
}

// CoursePage is everything the course detail view shows.
type CoursePage struct {
	Course  *Course
	Stats   CourseStats
	Reviews []*Review
}
