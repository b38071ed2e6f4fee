package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quizmaster/internal/model"
	"quizmaster/internal/scoring"
	"quizmaster/internal/util"
)

func newResultHarness() (*fakeQuizStore, *fakeResultStore, *ResultService) {
	quizzes := newFakeQuizStore()
	results := &fakeResultStore{}
	return quizzes, results, NewResultService(quizzes, results)
}

func TestScoreSubmission(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)

	// 3 correct, 1 wrong, 1 skipped, 1 hint under negative marking.
	raw := scoring.RawSubmission{
		Answers:        json.RawMessage(`[0, 0, 2, null, 0]`),
		HintsUsed:      json.RawMessage(`1`),
		TabSwitchCount: json.RawMessage(`2`),
		TimeTaken:      json.RawMessage(`93.5`),
	}

	view, err := svc.ScoreSubmission("quiz-1", 7, raw)
	if err != nil {
		t.Fatalf("ScoreSubmission: %v", err)
	}

	if view.TotalQuestions != 5 || view.CorrectAnswers != 3 || view.AttemptedAnswers != 4 || view.IncorrectAnswers != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 5/3/4/1",
			view.TotalQuestions, view.CorrectAnswers, view.AttemptedAnswers, view.IncorrectAnswers)
	}
	if view.TotalMarks != 20 || view.BaseMarks != 9 || view.ObtainedMarks != 7 {
		t.Errorf("marks = %d/%d/%d, want 20/9/7", view.TotalMarks, view.BaseMarks, view.ObtainedMarks)
	}
	if view.Score != 35 || view.BaseScore != 45 || view.Accuracy != 35 {
		t.Errorf("scores = %d/%d/%d, want 35/45/35", view.Score, view.BaseScore, view.Accuracy)
	}
	if view.AutoSubmitted || view.AutoSubmitReason != scoring.NormalSubmitReason {
		t.Errorf("autoSubmit = %v %q", view.AutoSubmitted, view.AutoSubmitReason)
	}
	if view.TimeTaken == nil || *view.TimeTaken != 93.5 {
		t.Errorf("timeTaken = %v, want 93.5", view.TimeTaken)
	}
	if view.StudentID != 7 {
		t.Errorf("studentId = %d, want 7", view.StudentID)
	}
	if view.QuizTitle != "Fractions Basics" {
		t.Errorf("quizTitle = %q", view.QuizTitle)
	}

	if len(results.results) != 1 {
		t.Fatalf("stored %d results, want 1", len(results.results))
	}
	stored := results.results[0]
	if stored.ResultID == "" || stored.ResultID != view.ResultID {
		t.Errorf("stored resultId %q vs view %q", stored.ResultID, view.ResultID)
	}
	if stored.QuizTitle != "Fractions Basics" {
		t.Errorf("stored quizTitle = %q", stored.QuizTitle)
	}
}

func TestScoreSubmissionTruncatesAnswers(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)

	raw := scoring.RawSubmission{
		Answers: json.RawMessage(`[0, 0, 0, 0, 0, 3, 3, 3]`),
	}
	view, err := svc.ScoreSubmission("quiz-1", 7, raw)
	if err != nil {
		t.Fatalf("ScoreSubmission: %v", err)
	}
	if len(view.Answers) != 5 {
		t.Errorf("view answers length = %d, want 5", len(view.Answers))
	}
	if len(results.results[0].Answers) != 5 {
		t.Errorf("stored answers length = %d, want 5", len(results.results[0].Answers))
	}
	if view.CorrectAnswers != 5 || view.Score != 100 {
		t.Errorf("correct/score = %d/%d, want 5/100", view.CorrectAnswers, view.Score)
	}
}

func TestScoreSubmissionRejectsUnpublished(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", false)

	_, err := svc.ScoreSubmission("quiz-1", 7, scoring.RawSubmission{})
	if !errors.Is(err, util.ErrQuizNotPublished) {
		t.Fatalf("err = %v, want ErrQuizNotPublished", err)
	}
	if len(results.results) != 0 {
		t.Errorf("rejected submission stored a result")
	}
}

func TestScoreSubmissionUnknownQuiz(t *testing.T) {
	_, _, svc := newResultHarness()

	_, err := svc.ScoreSubmission("missing", 7, scoring.RawSubmission{})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestGetResultViewAccess(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)
	results.Create(&model.Result{ResultID: "res-1", QuizID: "quiz-1", StudentID: 7, TotalQuestions: 5, TotalMarks: 20})

	cases := []struct {
		name    string
		userID  uint
		role    model.UserRole
		wantErr error
	}{
		{"owner student", 7, model.Student, nil},
		{"other student", 8, model.Student, util.ErrPermissionDenied},
		{"quiz teacher", 1, model.Teacher, nil},
		{"other teacher", 2, model.Teacher, util.ErrPermissionDenied},
		{"admin", 99, model.Admin, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetResultView("res-1", tc.userID, tc.role, false)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if _, err := svc.GetResultView("missing", 7, model.Student, false); !errors.Is(err, util.ErrResultNotFound) {
		t.Errorf("missing result err = %v, want ErrResultNotFound", err)
	}
}

func TestGetResultViewReleaseGating(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	quiz := seedQuiz(quizzes, "quiz-1", true)
	results.Create(&model.Result{ResultID: "res-1", QuizID: "quiz-1", StudentID: 7, TotalQuestions: 5, TotalMarks: 20})

	quiz.ResultReleaseMode = model.ReleaseAfterAll
	quizzes.UpdateQuizWithQuestions(quiz, nil)

	if _, err := svc.GetResultView("res-1", 7, model.Student, false); !errors.Is(err, util.ErrResultsNotReleased) {
		t.Errorf("afterAll while published: err = %v, want ErrResultsNotReleased", err)
	}
	// The quiz teacher is never gated.
	if _, err := svc.GetResultView("res-1", 1, model.Teacher, false); err != nil {
		t.Errorf("teacher gated: %v", err)
	}

	quizzes.SetPublished("quiz-1", false)
	if _, err := svc.GetResultView("res-1", 7, model.Student, false); err != nil {
		t.Errorf("afterAll once closed: %v", err)
	}

	future := time.Now().Add(time.Hour)
	quiz.ResultReleaseMode = model.ReleaseSpecificDate
	quiz.ResultReleaseDate = &future
	quiz.Published = true
	quizzes.UpdateQuizWithQuestions(quiz, nil)
	if _, err := svc.GetResultView("res-1", 7, model.Student, false); !errors.Is(err, util.ErrResultsNotReleased) {
		t.Errorf("before release date: err = %v, want ErrResultsNotReleased", err)
	}

	past := time.Now().Add(-time.Hour)
	quiz.ResultReleaseDate = &past
	quizzes.UpdateQuizWithQuestions(quiz, nil)
	if _, err := svc.GetResultView("res-1", 7, model.Student, false); err != nil {
		t.Errorf("after release date: %v", err)
	}
}

func TestGetResultViewDeletedQuiz(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)
	results.Create(&model.Result{
		ResultID: "res-1", QuizID: "quiz-1", QuizTitle: "Fractions Basics",
		StudentID: 7, TotalQuestions: 5, TotalMarks: 20, Score: 80,
	})
	quizzes.DeleteQuiz("quiz-1")

	view, err := svc.GetResultView("res-1", 7, model.Student, true)
	if err != nil {
		t.Fatalf("GetResultView: %v", err)
	}
	if view.QuizTitle != "Fractions Basics" {
		t.Errorf("quizTitle = %q, want snapshot", view.QuizTitle)
	}
	if len(view.ReviewQuestions) != 0 {
		t.Errorf("review of a deleted quiz has %d questions", len(view.ReviewQuestions))
	}
}

func TestGetResultViewLegacyBackfill(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)
	// Imported row: score and correct count only, no marks.
	results.Create(&model.Result{
		ResultID: "res-legacy", QuizID: "quiz-1", StudentID: 7,
		TotalQuestions: 5, CorrectAnswers: 4, Score: 80,
	})

	view, err := svc.GetResultView("res-legacy", 7, model.Student, false)
	if err != nil {
		t.Fatalf("GetResultView: %v", err)
	}
	if view.TotalMarks != 20 || view.BaseMarks != 16 || view.ObtainedMarks != 16 {
		t.Errorf("marks = %d/%d/%d, want 20/16/16", view.TotalMarks, view.BaseMarks, view.ObtainedMarks)
	}
	if view.AttemptedAnswers != 4 || view.IncorrectAnswers != 0 {
		t.Errorf("attempted/incorrect = %d/%d, want 4/0", view.AttemptedAnswers, view.IncorrectAnswers)
	}
	if view.Score != 80 || view.BaseScore != 80 || view.Accuracy != 80 {
		t.Errorf("scores = %d/%d/%d, want 80/80/80", view.Score, view.BaseScore, view.Accuracy)
	}
	if view.Answers == nil {
		t.Errorf("answers = nil, want empty array")
	}
}

func TestGetResultViewReview(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)
	results.Create(&model.Result{ResultID: "res-1", QuizID: "quiz-1", StudentID: 7, TotalQuestions: 5, TotalMarks: 20})

	view, err := svc.GetResultView("res-1", 7, model.Student, true)
	if err != nil {
		t.Fatalf("GetResultView: %v", err)
	}
	if len(view.ReviewQuestions) != 5 {
		t.Fatalf("review questions = %d, want 5", len(view.ReviewQuestions))
	}
	q := view.ReviewQuestions[0]
	if q.CorrectAnswer == nil || *q.CorrectAnswer != 0 {
		t.Errorf("review correctAnswer = %v, want 0", q.CorrectAnswer)
	}
	if len(q.Options) != 4 {
		t.Errorf("review options = %d, want 4", len(q.Options))
	}

	plain, err := svc.GetResultView("res-1", 7, model.Student, false)
	if err != nil {
		t.Fatalf("GetResultView: %v", err)
	}
	if len(plain.ReviewQuestions) != 0 {
		t.Errorf("review included without the flag")
	}
}

func TestListForQuizOwnership(t *testing.T) {
	quizzes, results, svc := newResultHarness()
	seedQuiz(quizzes, "quiz-1", true)
	results.Create(&model.Result{ResultID: "res-1", QuizID: "quiz-1", StudentID: 7})

	rows, total, err := svc.ListForQuiz(1, "quiz-1", 1, 10, "")
	if err != nil {
		t.Fatalf("ListForQuiz: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Errorf("total/rows = %d/%d, want 1/1", total, len(rows))
	}

	if _, _, err := svc.ListForQuiz(2, "quiz-1", 1, 10, ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("other teacher err = %v, want ErrPermissionDenied", err)
	}
	if _, _, err := svc.ListForQuiz(1, "missing", 1, 10, ""); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("missing quiz err = %v, want ErrQuizNotFound", err)
	}
}
