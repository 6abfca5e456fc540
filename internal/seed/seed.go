package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
)

// CourseSeeder is the part of the course repository the seed needs.
type CourseSeeder interface {
	CountCourses(ctx context.Context) (int64, error)
	CreateCourse(ctx context.Context, course *appModels.Course) (uuid.UUID, error)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

// DefaultCourses is the starter catalogue inserted into an empty database.
func DefaultCourses() []*appModels.Course {
	university := strPtr("State University")
	return []*appModels.Course{
		{
			CourseCode: "CS101", CourseName: "Introduction to Computing",
			UniversityName: university, Faculty: strPtr("Engineering"), Instructor: strPtr("Dr. Lee"), Credits: intPtr(3),
			Preview: strPtr("Programming fundamentals, problem solving and basic data structures."),
		},
		{
			CourseCode: "CS201", CourseName: "Data Structures",
			UniversityName: university, Faculty: strPtr("Engineering"), Instructor: strPtr("Dr. Patel"), Credits: intPtr(4),
			Preview: strPtr("Lists, trees, hash tables and graphs with complexity analysis."),
		},
		{
			CourseCode: "CS305", CourseName: "Operating Systems",
			UniversityName: university, Faculty: strPtr("Engineering"), Credits: intPtr(4),
		},
		{
			CourseCode: "MATH110", CourseName: "Calculus I",
			UniversityName: university, Faculty: strPtr("Science"), Instructor: strPtr("Prof. Garcia"), Credits: intPtr(4),
			Preview: strPtr("Limits, derivatives and an introduction to integrals."),
		},
		{
			CourseCode: "PHYS101", CourseName: "General Physics",
			UniversityName: university, Faculty: strPtr("Science"), Credits: intPtr(3),
		},
	}
}

// CreateDefaultData inserts DefaultCourses when the course table is empty.
// Courses that already exist are skipped; other failures are collected and returned together.
func CreateDefaultData(ctx context.Context, courses CourseSeeder, lgr zerolog.Logger) error {
	n, err := courses.CountCourses(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting courses before seeding")
		return err
	}
	if n > 0 {
		lgr.Info().Int64("courses", n).Msg("Course catalogue not empty, skipping seed")
		return nil
	}

	lgr.Info().Msg("Creating default course catalogue...")
	var finalErr error // collect errors without stopping the process
	created := 0
	for _, c := range DefaultCourses() {
		_, err := courses.CreateCourse(ctx, c)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrCourseAlreadyExists):
			lgr.Debug().Str("courseCode", c.CourseCode).Msg("Default course already exists")
		default:
			lgr.Error().Err(err).Str("courseCode", c.CourseCode).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("created", created).Msg("Default course catalogue created")
	return finalErr
}
