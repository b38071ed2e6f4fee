package scoring

import "testing"

func TestRederiveLegacyRecord(t *testing.T) {
	// The shape of a pre-migration record: only score, correct count,
	// question count and hint count were stored.
	got := Rederive(80, 4, 5, 0)

	want := MarkingResult{
		TotalQuestions:   5,
		CorrectAnswers:   4,
		AttemptedAnswers: 4,
		TotalMarks:       20,
		BaseMarks:        16,
		ObtainedMarks:    16,
		Score:            80,
		BaseScore:        80,
		Accuracy:         80,
	}
	if got != want {
		t.Fatalf("Rederive() = %+v, want %+v", got, want)
	}
}

func TestRederiveWithHints(t *testing.T) {
	got := Rederive(35, 3, 5, 1)

	if got.PointsDeductedForHints != 2 {
		t.Fatalf("deduction = %d, want 2", got.PointsDeductedForHints)
	}
	if got.BaseMarks != 12 || got.ObtainedMarks != 10 {
		t.Fatalf("marks = %d/%d, want 12/10", got.BaseMarks, got.ObtainedMarks)
	}
	// Stored score stays authoritative even where the back-derivation
	// would disagree with it.
	if got.Score != 35 {
		t.Fatalf("score = %d, want stored 35", got.Score)
	}
	if got.Accuracy != 50 { // round(10/20*100)
		t.Fatalf("accuracy = %d, want 50", got.Accuracy)
	}
}

func TestRederiveEmptyQuiz(t *testing.T) {
	got := Rederive(0, 0, 0, 3)
	if got.TotalMarks != 0 || got.BaseScore != 0 || got.Accuracy != 0 {
		t.Fatalf("empty quiz must not divide by zero: %+v", got)
	}
}
