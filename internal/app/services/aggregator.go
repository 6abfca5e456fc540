package services

import "github.com/yigit/coursereview/internal/app/models"

// roundedMean returns sum/count rounded half-up to one decimal place.
// Integer arithmetic keeps x.x5 boundaries exact.
func roundedMean(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	tenths := (20*sum + count) / (2 * count)
	return float64(tenths) / 10
}

// AggregateRatings computes the overall statistics for a list of overall ratings.
func AggregateRatings(ratings []int) models.CourseStats {
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return models.CourseStats{
		AverageRating: roundedMean(sum, len(ratings)),
		ReviewCount:   len(ratings),
	}
}

// ComputeCourseStats derives display statistics from a course's reviews.
// Optional axes average only the reviews that rated them and stay nil when none did.
func ComputeCourseStats(reviews []*models.Review) models.CourseStats {
	overall := make([]int, 0, len(reviews))
	var difficulty, teaching, homework axis
	for _, r := range reviews {
		overall = append(overall, r.RatingOverall)
		difficulty.add(r.RatingDifficulty)
		teaching.add(r.RatingTeaching)
		homework.add(r.RatingHomework)
	}

	stats := AggregateRatings(overall)
	stats.AverageDifficulty = difficulty.mean()
	stats.AverageTeaching = teaching.mean()
	stats.AverageHomework = homework.mean()
	return stats
}

type axis struct {
	sum, count int
}

func (a *axis) add(v *int) {
	if v == nil {
		return
	}
	a.sum += *v
	a.count++
}

func (a *axis) mean() *float64 {
	if a.count == 0 {
		return nil
	}
	m := roundedMean(a.sum, a.count)
	return &m
}
