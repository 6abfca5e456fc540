package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursereview/internal/app/models"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/dberrors"
	"github.com/yigit/coursereview/internal/pkg/logger"
)

var reviewColumns = []string{
	"id", "course_id", "term", "section_number",
	"rating_overall", "rating_difficulty", "rating_teaching", "rating_homework",
	"tags", "content", "tips_review_content", "is_anonymous", "created_at",
}

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateReview inserts a review and returns its store-assigned ID.
// CreatedAt is filled from the row the store returns.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) (uuid.UUID, error) {
	sql, args, err := r.sb.Insert("reviews").
		Columns(
			"course_id", "term", "section_number",
			"rating_overall", "rating_difficulty", "rating_teaching", "rating_homework",
			"tags", "content", "tips_review_content", "is_anonymous",
		).
		Values(
			review.CourseID, review.Term, review.SectionNumber,
			review.RatingOverall, review.RatingDifficulty, review.RatingTeaching, review.RatingHomework,
			review.Tags, review.Content, review.TipsReviewContent, review.IsAnonymous,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create review SQL")
		return uuid.Nil, apperrors.NewStoreError("build create review query", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&review.ID, &review.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return uuid.Nil, apperrors.NewStoreError("create review", fmt.Errorf("course %s does not exist: %w", review.CourseID, err))
		}
		logger.Error().Err(err).Str("courseID", review.CourseID.String()).Msg("Error executing create review query")
		return uuid.Nil, apperrors.NewStoreError("create review", err)
	}

	return review.ID, nil
}

// ListReviewsByCourse returns a course's reviews, newest first.
func (r *ReviewRepository) ListReviewsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Review, error) {
	sql, args, err := r.sb.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list reviews SQL")
		return nil, apperrors.NewStoreError("build list reviews query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Error executing list reviews query")
		return nil, apperrors.NewStoreError("list reviews", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		rv := &models.Review{}
		if err := rows.Scan(
			&rv.ID, &rv.CourseID, &rv.Term, &rv.SectionNumber,
			&rv.RatingOverall, &rv.RatingDifficulty, &rv.RatingTeaching, &rv.RatingHomework,
			&rv.Tags, &rv.Content, &rv.TipsReviewContent, &rv.IsAnonymous, &rv.CreatedAt,
		); err != nil {
			logger.Error().Err(err).Msg("Error scanning review row")
			return nil, apperrors.NewStoreError("scan review", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating review rows")
		return nil, apperrors.NewStoreError("iterate reviews", err)
	}

	return reviews, nil
}
