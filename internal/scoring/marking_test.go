package scoring

import (
	"math"
	"testing"
)

func intPtr(n int) *int { return &n }

// fiveQuestions builds a quiz whose correct answer is always option 0.
func fiveQuestions(points int) []Question {
	qs := make([]Question, 5)
	for i := range qs {
		qs[i] = Question{CorrectAnswer: intPtr(0), Points: points}
	}
	return qs
}

func TestEvaluateNegativeMarking(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		answers   []*int
		hints     int
		want      MarkingResult
	}{
		{
			name:      "three correct one wrong one skipped",
			questions: fiveQuestions(0),
			answers:   []*int{intPtr(0), intPtr(0), intPtr(1), nil, intPtr(0)},
			hints:     1,
			want: MarkingResult{
				TotalQuestions: 5, CorrectAnswers: 3, AttemptedAnswers: 4, IncorrectAnswers: 1,
				HintsUsed: 1, PointsDeductedForHints: 2,
				TotalMarks: 20, BaseMarks: 9, ObtainedMarks: 7,
				Score: 35, BaseScore: 45, Accuracy: 35,
			},
		},
		{
			name:      "fully skipped",
			questions: fiveQuestions(0),
			answers:   []*int{nil, nil, nil, nil, nil},
			want: MarkingResult{
				TotalQuestions: 5, TotalMarks: 20,
			},
		},
		{
			name:      "empty quiz",
			questions: nil,
			answers:   []*int{intPtr(0)},
			want:      MarkingResult{},
		},
		{
			name:      "hint flood clamps at zero",
			questions: fiveQuestions(0),
			answers:   []*int{intPtr(0), intPtr(0), intPtr(0), intPtr(0), intPtr(0)},
			hints:     100,
			want: MarkingResult{
				TotalQuestions: 5, CorrectAnswers: 5, AttemptedAnswers: 5,
				HintsUsed: 100, PointsDeductedForHints: 200,
				TotalMarks: 20, BaseMarks: 20, ObtainedMarks: -180,
				Score: 0, BaseScore: 100, Accuracy: 0,
			},
		},
		{
			name:      "out of range index is attempted and wrong",
			questions: fiveQuestions(0),
			answers:   []*int{intPtr(99), intPtr(-1), nil, nil, nil},
			want: MarkingResult{
				TotalQuestions: 5, AttemptedAnswers: 2, IncorrectAnswers: 2,
				TotalMarks: 20, BaseMarks: -6, ObtainedMarks: -6,
				Score: 0, BaseScore: 0, Accuracy: 0,
			},
		},
		{
			name:      "answers shorter than quiz",
			questions: fiveQuestions(0),
			answers:   []*int{intPtr(0)},
			want: MarkingResult{
				TotalQuestions: 5, CorrectAnswers: 1, AttemptedAnswers: 1,
				TotalMarks: 20, BaseMarks: 4, ObtainedMarks: 4,
				Score: 20, BaseScore: 20, Accuracy: 20,
			},
		},
		{
			name: "review-only question never earns",
			questions: []Question{
				{CorrectAnswer: intPtr(0)},
				{CorrectAnswer: nil},
			},
			answers: []*int{intPtr(0), intPtr(0)},
			want: MarkingResult{
				TotalQuestions: 2, CorrectAnswers: 1, AttemptedAnswers: 2, IncorrectAnswers: 1,
				TotalMarks: 8, BaseMarks: 1, ObtainedMarks: 1,
				Score: 13, BaseScore: 13, Accuracy: 13,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.questions, Submission{Answers: tc.answers, HintsUsed: tc.hints}, SchemeNegativeMarking)
			if got != tc.want {
				t.Fatalf("Evaluate() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEvaluateSimpleScheme(t *testing.T) {
	questions := []Question{
		{CorrectAnswer: intPtr(0), Points: 2},
		{CorrectAnswer: intPtr(1), Points: 0}, // falsy points default to 1
		{CorrectAnswer: intPtr(2), Points: 3},
	}

	tests := []struct {
		name          string
		answers       []*int
		hints         int
		wantScore     int
		wantBaseScore int
	}{
		{
			name:          "weighted partial credit",
			answers:       []*int{intPtr(0), intPtr(0), intPtr(2)},
			wantScore:     83, // round(5/6*100)
			wantBaseScore: 83,
		},
		{
			name:          "hint deduction in percentage points",
			answers:       []*int{intPtr(0), intPtr(1), intPtr(2)},
			hints:         3,
			wantScore:     94, // 100 - 3*2
			wantBaseScore: 100,
		},
		{
			name:          "all wrong with hints stays at zero",
			answers:       []*int{intPtr(9), intPtr(9), intPtr(9)},
			hints:         5,
			wantScore:     0,
			wantBaseScore: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(questions, Submission{Answers: tc.answers, HintsUsed: tc.hints}, SchemeSimple)
			if got.Score != tc.wantScore || got.BaseScore != tc.wantBaseScore {
				t.Fatalf("score = %d/%d, want %d/%d", got.Score, got.BaseScore, tc.wantScore, tc.wantBaseScore)
			}
			if got.Accuracy != got.Score {
				t.Fatalf("accuracy = %d, want score %d", got.Accuracy, got.Score)
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	questions := fiveQuestions(2)
	sub := Submission{Answers: []*int{intPtr(0), intPtr(1), nil, intPtr(0), intPtr(3)}, HintsUsed: 2}

	first := Evaluate(questions, sub, SchemeNegativeMarking)
	second := Evaluate(questions, sub, SchemeNegativeMarking)
	if first != second {
		t.Fatalf("Evaluate not deterministic: %+v vs %+v", first, second)
	}
}

func TestEvaluateHintMonotonicity(t *testing.T) {
	questions := fiveQuestions(0)
	answers := []*int{intPtr(0), intPtr(0), intPtr(1), nil, intPtr(0)}

	for _, scheme := range []Scheme{SchemeSimple, SchemeNegativeMarking} {
		prev := 101
		for hints := 0; hints <= 15; hints++ {
			got := Evaluate(questions, Submission{Answers: answers, HintsUsed: hints}, scheme)
			if got.Score > prev {
				t.Fatalf("%s: score rose from %d to %d at hints=%d", scheme, prev, got.Score, hints)
			}
			if got.Score < 0 || got.Score > 100 || got.BaseScore < 0 || got.BaseScore > 100 {
				t.Fatalf("%s: score out of bounds at hints=%d: %+v", scheme, hints, got)
			}
			prev = got.Score
		}
	}
}

func TestEvaluateHugeHintCount(t *testing.T) {
	questions := fiveQuestions(0)
	answers := []*int{intPtr(0), intPtr(0), intPtr(0), intPtr(0), intPtr(0)}

	for _, scheme := range []Scheme{SchemeSimple, SchemeNegativeMarking} {
		got := Evaluate(questions, Submission{Answers: answers, HintsUsed: math.MaxInt32}, scheme)
		if got.PointsDeductedForHints < 0 {
			t.Fatalf("%s: deduction wrapped negative: %d", scheme, got.PointsDeductedForHints)
		}
		if got.Score != 0 {
			t.Fatalf("%s: score = %d, want 0", scheme, got.Score)
		}
		for name, v := range map[string]int{"score": got.Score, "baseScore": got.BaseScore, "accuracy": got.Accuracy} {
			if v < 0 || v > 100 {
				t.Fatalf("%s: %s out of bounds: %d", scheme, name, v)
			}
		}
	}
}

func TestParseScheme(t *testing.T) {
	if ParseScheme("simple") != SchemeSimple {
		t.Fatal("simple not recognized")
	}
	for _, s := range []string{"", "negative-marking", "bogus"} {
		if ParseScheme(s) != SchemeNegativeMarking {
			t.Fatalf("%q should default to negative marking", s)
		}
	}
}
