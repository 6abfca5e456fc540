package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
)

// Review field limits
const (
	RatingMin        = 1
	RatingMax        = 5
	ContentMaxLength = 1000
	TipsMaxLength    = 500

	// SuggestionMinLength is the shortest partial code that triggers a suggestion lookup.
	SuggestionMinLength = 2
)

// ReviewTags is the fixed tag vocabulary, in display order.
var ReviewTags = []string{
	"homework-heavy",
	"thought-provoking",
	"requires-memorization",
	"group-work",
	"computer-based",
	"hands-on",
	"easy-pass",
	"challenging",
}

var reviewTagSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ReviewTags))
	for _, t := range ReviewTags {
		set[t] = struct{}{}
	}
	return set
}()

// IsReviewTag reports whether tag belongs to the vocabulary.
func IsReviewTag(tag string) bool {
	_, ok := reviewTagSet[tag]
	return ok
}

// Validator checks struct tags and reports violations as *apperrors.ValidationError.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the review rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("review_tag", func(fl validator.FieldLevel) bool {
		return IsReviewTag(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s. It returns nil or a *apperrors.ValidationError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	out := &apperrors.ValidationError{Fields: make([]apperrors.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, apperrors.FieldError{
			Field:   fieldName(fe),
			Rule:    fe.Tag(),
			Message: formatFieldError(fe),
		})
	}
	return out
}

// fieldName strips the struct prefix but keeps slice indices, e.g. "tags[1]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(fe validator.FieldError) string {
	name := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "unique":
		return name + " must not contain duplicates"
	case "review_tag":
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(ReviewTags, ", "))
	default:
		return name + " validation failed: " + fe.Tag()
	}
}
