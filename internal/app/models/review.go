package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a single student's rated evaluation of a course in a given term.
type Review struct {
	ID                uuid.UUID `json:"id" db:"id"`
	CourseID          uuid.UUID `json:"courseId" db:"course_id"`
	Term              string    `json:"term" db:"term"`
	SectionNumber     *string   `json:"sectionNumber,omitempty" db:"section_number"`
	RatingOverall     int       `json:"ratingOverall" db:"rating_overall"`
	RatingDifficulty  *int      `json:"ratingDifficulty,omitempty" db:"rating_difficulty"`
	RatingTeaching    *int      `json:"ratingTeaching,omitempty" db:"rating_teaching"`
	RatingHomework    *int      `json:"ratingHomework,omitempty" db:"rating_homework"`
	Tags              []string  `json:"tags,omitempty" db:"tags"`
	Content           string    `json:"content" db:"content"`
	TipsReviewContent *string   `json:"tipsReviewContent,omitempty" db:"tips_review_content"`
	IsAnonymous       bool      `json:"isAnonymous" db:"is_anonymous"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// ReviewDraft is a review as entered by a student, before course resolution.
// Optional ratings use 0 for "not provided".
type ReviewDraft struct {
	CourseCode       string   `json:"courseCode" validate:"required,max=50"`
	CourseName       string   `json:"courseName" validate:"required,max=255"`
	Term             string   `json:"term" validate:"required,max=20"`
	Instructor       string   `json:"instructor" validate:"required,max=255"`
	Section          string   `json:"section" validate:"omitempty,max=20"`
	RatingOverall    int      `json:"ratingOverall" validate:"required,min=1,max=5"`
	RatingDifficulty int      `json:"ratingDifficulty" validate:"omitempty,min=1,max=5"`
	RatingTeaching   int      `json:"ratingTeaching" validate:"omitempty,min=1,max=5"`
	RatingHomework   int      `json:"ratingHomework" validate:"omitempty,min=1,max=5"`
	Tags             []string `json:"tags" validate:"omitempty,unique,dive,review_tag"`
	MainReviewText   string   `json:"mainReview" validate:"required,max=1000"`
	TipsText         string   `json:"tipsReview" validate:"omitempty,max=500"`
	IsAnonymous      bool     `json:"isAnonymous"`
}

// SubmissionResult identifies the rows written by a successful submission.
type SubmissionResult struct {
	ReviewID uuid.UUID `json:"reviewId"`
	CourseID uuid.UUID `json:"courseId"`
}
