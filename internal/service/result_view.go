package service

import (
	"time"

	"quizmaster/internal/model"
	"quizmaster/internal/scoring"
)

// UntitledQuiz is the last-resort title when neither the quiz nor the
// result carries one.
const UntitledQuiz = "Untitled Quiz"

// ReviewQuestion is the sanitized post-hoc form of a question, shown to a
// student next to what they answered. It is drawn from the current quiz
// state, not a snapshot: editing a quiz changes the review of past
// attempts.
type ReviewQuestion struct {
	Order         int      `json:"order"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation,omitempty"`
	Hint          string   `json:"hint,omitempty"`
	Concept       string   `json:"concept,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// ResultView is the client-facing projection of a stored result. Field
// names are the wire contract and must stay stable.
//
// swagger:model ResultView
type ResultView struct {
	ResultID  string `json:"resultId"`
	QuizID    string `json:"quizId"`
	QuizTitle string `json:"quizTitle"`
	StudentID uint   `json:"studentId"`

	Answers          []*int `json:"answers"`
	TotalQuestions   int    `json:"totalQuestions"`
	CorrectAnswers   int    `json:"correctAnswers"`
	AttemptedAnswers int    `json:"attemptedAnswers"`
	IncorrectAnswers int    `json:"incorrectAnswers"`

	HintsUsed              int `json:"hintsUsed"`
	PointsDeductedForHints int `json:"pointsDeductedForHints"`

	TotalMarks    int `json:"totalMarks"`
	BaseMarks     int `json:"baseMarks"`
	ObtainedMarks int `json:"obtainedMarks"`

	Score     int `json:"score"`
	BaseScore int `json:"baseScore"`
	Accuracy  int `json:"accuracy"`

	AutoSubmitted    bool     `json:"autoSubmitted"`
	AutoSubmitReason string   `json:"autoSubmitReason"`
	TabSwitchCount   int      `json:"tabSwitchCount"`
	TimeTaken        *float64 `json:"timeTaken"`

	SubmittedAt time.Time `json:"submittedAt"`

	ReviewQuestions []ReviewQuestion `json:"reviewQuestions,omitempty"`
}

// NewResultView projects a stored result (possibly a legacy row lacking
// the derived mark fields) into the stable client shape. It never mutates
// the record and never fails on missing optional data.
func NewResultView(result *model.Result, quiz *model.Quiz, questions []model.Question, includeReview bool) *ResultView {
	view := &ResultView{
		ResultID:  result.ResultID,
		QuizID:    result.QuizID,
		QuizTitle: quizTitle(result, quiz),
		StudentID: result.StudentID,

		Answers:          result.Answers,
		TotalQuestions:   result.TotalQuestions,
		CorrectAnswers:   result.CorrectAnswers,
		AttemptedAnswers: result.AttemptedAnswers,
		IncorrectAnswers: result.IncorrectAnswers,

		HintsUsed:              result.HintsUsed,
		PointsDeductedForHints: result.PointsDeductedForHints,

		TotalMarks:    result.TotalMarks,
		BaseMarks:     result.BaseMarks,
		ObtainedMarks: result.ObtainedMarks,

		Score:     result.Score,
		BaseScore: result.BaseScore,
		Accuracy:  result.Accuracy,

		AutoSubmitted:    result.AutoSubmitted,
		AutoSubmitReason: result.AutoSubmitReason,
		TabSwitchCount:   result.TabSwitchCount,
		TimeTaken:        result.TimeTaken,

		SubmittedAt: result.SubmittedAt,
	}

	if view.Answers == nil {
		view.Answers = []*int{}
	}
	if view.AutoSubmitReason == "" {
		view.AutoSubmitReason = scoring.NormalSubmitReason
	}

	// A populated result always carries TotalMarks > 0 when it has
	// questions, so a zero here marks a legacy row: back-fill the derived
	// fields from what the old schema did store.
	if result.TotalMarks == 0 && result.TotalQuestions > 0 {
		derived := scoring.Rederive(result.Score, result.CorrectAnswers, result.TotalQuestions, result.HintsUsed)
		view.AttemptedAnswers = derived.AttemptedAnswers
		view.IncorrectAnswers = derived.IncorrectAnswers
		view.PointsDeductedForHints = derived.PointsDeductedForHints
		view.TotalMarks = derived.TotalMarks
		view.BaseMarks = derived.BaseMarks
		view.ObtainedMarks = derived.ObtainedMarks
		view.BaseScore = derived.BaseScore
		view.Accuracy = derived.Accuracy
	}

	if includeReview {
		view.ReviewQuestions = make([]ReviewQuestion, len(questions))
		for i, q := range questions {
			view.ReviewQuestions[i] = ReviewQuestion{
				Order:         q.Order,
				QuestionText:  q.QuestionText,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Points:        q.Points,
				Explanation:   q.Explanation,
				Hint:          q.Hint,
				Concept:       q.Concept,
				ImageURL:      q.ImageURL,
			}
		}
	}

	return view
}

func quizTitle(result *model.Result, quiz *model.Quiz) string {
	if quiz != nil && quiz.Title != "" {
		return quiz.Title
	}
	if result.QuizTitle != "" {
		return result.QuizTitle
	}
	return UntitledQuiz
}
