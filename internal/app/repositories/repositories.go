package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository *CourseRepository
	ReviewRepository *ReviewRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository: NewCourseRepository(db),
		ReviewRepository: NewReviewRepository(db),
	}
}
