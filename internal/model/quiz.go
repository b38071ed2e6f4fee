package model

import (
	"time"

	"gorm.io/gorm"
)

// Result release policy for students viewing their own attempts.
const (
	ReleaseImmediate    = "immediate"
	ReleaseAfterAll     = "afterAll"
	ReleaseSpecificDate = "specificDate"
)

// Marking scheme selector, see internal/scoring.
const (
	SchemeSimple          = "simple"
	SchemeNegativeMarking = "negative-marking"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	// QuizID is the public identifier used in URLs and results,
	// distinct from the storage primary key.
	QuizID            string     `gorm:"uniqueIndex;type:varchar(36);not null" json:"quizId"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	TimeLimit         int        `gorm:"default:0" json:"timeLimit"` // Minutes, 0 = untimed
	Published         bool       `gorm:"default:false" json:"published"`
	PublishedAt       *time.Time `json:"publishedAt,omitempty"`
	ResultReleaseMode string     `gorm:"size:20;default:'immediate'" json:"resultReleaseMode"`
	ResultReleaseDate *time.Time `json:"resultReleaseDate,omitempty"`
	MarkingScheme     string     `gorm:"size:20;default:'negative-marking'" json:"markingScheme"`
	CreatedBy         uint       `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) (err error) {
	if q.QuizID == "" {
		q.QuizID = GenerateUUID()
	}
	return
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID       string     `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Order        int        `gorm:"default:0" json:"order"` // Position i pairs with submission answers[i]
	QuestionText string     `gorm:"type:text;not null" json:"questionText"`
	Options      OptionList `gorm:"type:json" json:"options"`
	// CorrectAnswer is an index into Options. Nil marks a review-only
	// question that counts toward the total but can never be earned.
	CorrectAnswer *int   `json:"correctAnswer,omitempty"`
	Points        int    `gorm:"default:1" json:"points"`
	Explanation   string `gorm:"type:text" json:"explanation,omitempty"`
	Hint          string `gorm:"type:text" json:"hint,omitempty"`
	Concept       string `gorm:"size:255" json:"concept,omitempty"`
	ImageURL      string `gorm:"size:255" json:"imageUrl,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
