package enums

// RatingAxis identifies one of the rated dimensions of a review
type RatingAxis string

// Rating axes
const (
	RatingAxisOverall    RatingAxis = "overall"
	RatingAxisDifficulty RatingAxis = "difficulty"
	RatingAxisTeaching   RatingAxis = "teaching"
	RatingAxisHomework   RatingAxis = "homework"
)

// RatingNotSpecified is shown for an axis the reviewer left empty
const RatingNotSpecified = "Not specified"

var ratingLabels = map[RatingAxis][5]string{
	RatingAxisOverall:    {"Very poor", "Poor", "Fair", "Good", "Excellent"},
	RatingAxisTeaching:   {"Very poor", "Poor", "Fair", "Good", "Excellent"},
	RatingAxisDifficulty: {"Very easy", "Easy", "Moderate", "Hard", "Very hard"},
	RatingAxisHomework:   {"Very little", "Little", "Moderate", "A lot", "Very much"},
}

// Label returns the display label of value v on this axis.
// A nil or out of range value yields RatingNotSpecified.
func (a RatingAxis) Label(v *int) string {
	labels, ok := ratingLabels[a]
	if !ok || v == nil || *v < 1 || *v > len(labels) {
		return RatingNotSpecified
	}
	return labels[*v-1]
}
