package scoring

import "math"

// Scheme selects how raw correctness converts into a score. Quizzes carry
// the selector so that both grading styles of the legacy system stay
// reproducible; negative marking is the default for new quizzes.
type Scheme string

const (
	// SchemeSimple grades as a percentage of earned question points and
	// deducts hint usage in percentage points.
	SchemeSimple Scheme = "simple"
	// SchemeNegativeMarking grades with the fixed +4/-3 marking scheme
	// and deducts hint usage in marks.
	SchemeNegativeMarking Scheme = "negative-marking"
)

// Fixed marking scheme constants.
const (
	MarksPerCorrect   = 4
	MarksPerIncorrect = -3
	HintPenalty       = 2
)

// ParseScheme maps a stored scheme name to a Scheme, defaulting to
// negative marking for unknown or empty values.
func ParseScheme(s string) Scheme {
	if Scheme(s) == SchemeSimple {
		return SchemeSimple
	}
	return SchemeNegativeMarking
}

// Question is the answer-key view of a quiz question. CorrectAnswer nil
// marks a review-only question: it counts toward the total but no answer
// can ever earn it.
type Question struct {
	CorrectAnswer *int
	Points        int
}

// MarkingResult is the full arithmetic of one graded attempt.
type MarkingResult struct {
	TotalQuestions   int
	CorrectAnswers   int
	AttemptedAnswers int
	IncorrectAnswers int

	HintsUsed              int
	PointsDeductedForHints int

	TotalMarks    int
	BaseMarks     int
	ObtainedMarks int

	Score     int // Final percentage, 0-100
	BaseScore int // Percentage before hint deduction, 0-100
	Accuracy  int // 0-100
}

// Evaluate grades a normalized submission against a quiz's questions.
// Pure and deterministic: the same inputs always produce the same result.
func Evaluate(questions []Question, sub Submission, scheme Scheme) MarkingResult {
	res := MarkingResult{
		TotalQuestions: len(questions),
		HintsUsed:      sub.HintsUsed,
	}

	totalPoints := 0
	earnedPoints := 0

	for i, q := range questions {
		points := q.Points
		if points == 0 {
			points = 1
		}
		totalPoints += points

		var answer *int
		if i < len(sub.Answers) {
			answer = sub.Answers[i]
		}
		if answer == nil {
			continue
		}
		res.AttemptedAnswers++
		if q.CorrectAnswer != nil && *answer == *q.CorrectAnswer {
			res.CorrectAnswers++
			earnedPoints += points
		}
	}

	res.IncorrectAnswers = res.AttemptedAnswers - res.CorrectAnswers
	if res.IncorrectAnswers < 0 {
		res.IncorrectAnswers = 0
	}

	res.PointsDeductedForHints = sub.HintsUsed * HintPenalty

	switch scheme {
	case SchemeSimple:
		// Marks mirror the points arithmetic so that stored results stay
		// fully populated under either scheme.
		res.TotalMarks = totalPoints
		res.BaseMarks = earnedPoints
		res.ObtainedMarks = earnedPoints
		res.BaseScore = percentage(earnedPoints, totalPoints)
		res.Score = clampPercent(res.BaseScore - res.PointsDeductedForHints)
		res.Accuracy = res.Score
	default:
		res.TotalMarks = res.TotalQuestions * MarksPerCorrect
		res.BaseMarks = res.CorrectAnswers*MarksPerCorrect + res.IncorrectAnswers*MarksPerIncorrect
		res.ObtainedMarks = res.BaseMarks - res.PointsDeductedForHints
		res.BaseScore = percentage(res.BaseMarks, res.TotalMarks)
		res.Score = percentage(res.ObtainedMarks, res.TotalMarks)
		res.Accuracy = res.Score
	}

	return res
}

// percentage rounds numerator/denominator to a whole percent clamped to
// [0,100]; a zero denominator yields 0.
func percentage(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return clampPercent(int(math.Round(float64(numerator) / float64(denominator) * 100)))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
