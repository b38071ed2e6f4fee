package scoring

// Rederive back-fills the mark fields for legacy results that predate the
// fixed marking scheme, treating the stored score, correct count, question
// count and hint count as the source of truth. It is a read-time
// compatibility shim: the persisted record is never rewritten.
//
// Incorrect answers were not recorded in the old schema, so the attempted
// count collapses to the correct count.
func Rederive(score, correctAnswers, totalQuestions, hintsUsed int) MarkingResult {
	res := MarkingResult{
		TotalQuestions:         totalQuestions,
		CorrectAnswers:         correctAnswers,
		AttemptedAnswers:       correctAnswers,
		IncorrectAnswers:       0,
		HintsUsed:              hintsUsed,
		PointsDeductedForHints: hintsUsed * HintPenalty,
		Score:                  score,
	}

	res.TotalMarks = totalQuestions * MarksPerCorrect
	res.BaseMarks = correctAnswers * MarksPerCorrect
	res.ObtainedMarks = res.BaseMarks - res.PointsDeductedForHints
	res.BaseScore = percentage(res.BaseMarks, res.TotalMarks)
	res.Accuracy = percentage(res.ObtainedMarks, res.TotalMarks)

	return res
}
