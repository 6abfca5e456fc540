package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/dberrors"
	"github.com/yigit/coursereview/internal/pkg/logger"
)

// courseCodeNameConstraint is the unique constraint on (course_code, course_name).
const courseCodeNameConstraint = "courses_code_name_key"

var courseColumns = []string{
	"id", "course_code", "course_name", "university_name", "faculty", "instructor", "credits", "preview",
}

var suggestionColumns = []string{
	"id", "course_code", "course_name", "instructor", "faculty", "credits",
}

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.UniversityName, &c.Faculty, &c.Instructor, &c.Credits, &c.Preview)
	return c, err
}

// GetCourseByID retrieves a course by ID. A missing row returns apperrors.ErrCourseNotFound.
func (r *CourseRepository) GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, apperrors.NewStoreError("build get course query", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error scanning course row")
		return nil, apperrors.NewStoreError("get course by id", err)
	}

	return course, nil
}

// FindCourseByCodeAndName looks up a course by exact, case-sensitive (code, name) match.
func (r *CourseRepository) FindCourseByCodeAndName(ctx context.Context, code, name string) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"course_code": code, "course_name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find course SQL")
		return nil, apperrors.NewStoreError("build find course query", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseCode", code).Str("courseName", name).Msg("Error finding course")
		return nil, apperrors.NewStoreError("find course", err)
	}

	return course, nil
}

// CreateCourse inserts a course and returns its store-assigned ID.
// A duplicate (code, name) pair returns apperrors.ErrCourseAlreadyExists.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("course_code", "course_name", "university_name", "faculty", "instructor", "credits", "preview").
		Values(course.CourseCode, course.CourseName, course.UniversityName, course.Faculty, course.Instructor, course.Credits, course.Preview).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return uuid.Nil, apperrors.NewStoreError("build create course query", err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, courseCodeNameConstraint) {
			return uuid.Nil, apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error executing create course query")
		return uuid.Nil, apperrors.NewStoreError("create course", err)
	}

	return id, nil
}

// SearchCoursesByCode returns at most limit courses whose code contains partial, case-insensitively.
func (r *CourseRepository) SearchCoursesByCode(ctx context.Context, partial string, limit int) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(suggestionColumns...).
		From("courses").
		Where(squirrel.ILike{"course_code": "%" + likeEscaper.Replace(partial) + "%"}).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building course suggestion SQL")
		return nil, apperrors.NewStoreError("build course suggestion query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("partial", partial).Msg("Error executing course suggestion query")
		return nil, apperrors.NewStoreError("search courses", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Instructor, &c.Faculty, &c.Credits); err != nil {
			logger.Error().Err(err).Msg("Error scanning course suggestion row")
			return nil, apperrors.NewStoreError("scan course suggestion", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course suggestion rows")
		return nil, apperrors.NewStoreError("iterate course suggestions", err)
	}

	return courses, nil
}

// ListCoursesWithRatings returns every course with the overall ratings of its reviews,
// ordered by course code then name.
func (r *CourseRepository) ListCoursesWithRatings(ctx context.Context) ([]*models.CourseRatings, error) {
	cols := make([]string, 0, len(courseColumns)+1)
	for _, c := range courseColumns {
		cols = append(cols, "c."+c)
	}
	cols = append(cols, "COALESCE(array_agg(r.rating_overall) FILTER (WHERE r.id IS NOT NULL), '{}') AS ratings")

	sql, args, err := r.sb.Select(cols...).
		From("courses c").
		LeftJoin("reviews r ON r.course_id = c.id").
		GroupBy("c.id").
		OrderBy("c.course_code ASC", "c.course_name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, apperrors.NewStoreError("build list courses query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, apperrors.NewStoreError("list courses", err)
	}
	defer rows.Close()

	out := []*models.CourseRatings{}
	for rows.Next() {
		c := &models.Course{}
		var ratings []int32
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.UniversityName, &c.Faculty, &c.Instructor, &c.Credits, &c.Preview, &ratings); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row during list")
			return nil, apperrors.NewStoreError("scan course", err)
		}

		cr := &models.CourseRatings{Course: c, Ratings: make([]int, len(ratings))}
		for i, v := range ratings {
			cr.Ratings[i] = int(v)
		}
		out = append(out, cr)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, apperrors.NewStoreError("iterate courses", err)
	}

	return out, nil
}

// ListOrphanCourses returns courses that have no reviews.
func (r *CourseRepository) ListOrphanCourses(ctx context.Context) ([]*models.Course, error) {
	cols := make([]string, 0, len(courseColumns))
	for _, c := range courseColumns {
		cols = append(cols, "c."+c)
	}

	sql, args, err := r.sb.Select(cols...).
		From("courses c").
		LeftJoin("reviews r ON r.course_id = c.id").
		Where(squirrel.Expr("r.id IS NULL")).
		OrderBy("c.course_code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building orphan courses SQL")
		return nil, apperrors.NewStoreError("build orphan courses query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing orphan courses query")
		return nil, apperrors.NewStoreError("list orphan courses", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan orphan course", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate orphan courses", err)
	}

	return courses, nil
}

// CountCourses returns the number of catalogued courses.
func (r *CourseRepository) CountCourses(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("courses").ToSql()
	if err != nil {
		return 0, apperrors.NewStoreError("build count courses query", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return 0, apperrors.NewStoreError("count courses", err)
	}
	return n, nil
}
