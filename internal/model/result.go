package model

import (
	"time"

	"gorm.io/gorm"
)

// Result is one graded attempt. Rows are append-only: nothing updates a
// result after creation, re-submissions insert new rows.
//
// Rows imported from the legacy system may lack the derived mark fields
// (TotalMarks/BaseMarks/ObtainedMarks/Accuracy and the attempt counters).
// Those are back-filled at read time by the result view, never rewritten.
//
// swagger:model Result
type Result struct {
	BaseModel
	// ResultID is the public identifier, distinct from the storage primary key.
	ResultID  string `gorm:"uniqueIndex;type:varchar(36);not null" json:"resultId"`
	QuizID    string `gorm:"index;type:varchar(36);not null" json:"quizId"`
	QuizTitle string `gorm:"size:255" json:"quizTitle"` // Denormalized snapshot at submission time
	StudentID uint   `gorm:"index;type:bigint unsigned" json:"studentId"`

	// Answers is the normalized submission truncated to TotalQuestions.
	Answers          AnswerList `gorm:"type:json" json:"answers"`
	TotalQuestions   int        `gorm:"default:0" json:"totalQuestions"` // Quiz length snapshot
	CorrectAnswers   int        `gorm:"default:0" json:"correctAnswers"`
	AttemptedAnswers int        `gorm:"default:0" json:"attemptedAnswers"`
	IncorrectAnswers int        `gorm:"default:0" json:"incorrectAnswers"`

	HintsUsed              int `gorm:"default:0" json:"hintsUsed"`
	PointsDeductedForHints int `gorm:"default:0" json:"pointsDeductedForHints"`

	TotalMarks    int `gorm:"default:0" json:"totalMarks"`
	BaseMarks     int `gorm:"default:0" json:"baseMarks"`
	ObtainedMarks int `gorm:"default:0" json:"obtainedMarks"`

	Score     int `gorm:"default:0" json:"score"`     // Final percentage after hint deduction, 0-100
	BaseScore int `gorm:"default:0" json:"baseScore"` // Percentage before hint deduction, 0-100
	Accuracy  int `gorm:"default:0" json:"accuracy"`

	AutoSubmitted    bool     `gorm:"default:false" json:"autoSubmitted"`
	AutoSubmitReason string   `gorm:"size:255" json:"autoSubmitReason"`
	TabSwitchCount   int      `gorm:"default:0" json:"tabSwitchCount"`
	TimeTaken        *float64 `json:"timeTaken"` // Seconds, nil when the client did not report it

	SubmittedAt time.Time `json:"submittedAt"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ResultID == "" {
		r.ResultID = GenerateUUID()
	}
	return
}
