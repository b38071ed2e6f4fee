package service

import (
	"errors"
	"strconv"
	"time"

	"quizmaster/internal/model"
	"quizmaster/internal/repository"
	"quizmaster/internal/scoring"
	"quizmaster/internal/util"
	"quizmaster/pkg/monitoring"

	"gorm.io/gorm"
)

// QuizReader is the quiz lookup surface the result flow needs.
type QuizReader interface {
	FindByQuizID(quizID string) (*model.Quiz, error)
	GetBundle(quizID string) (*repository.QuizBundle, error)
}

// ResultStore persists and reads graded attempts.
type ResultStore interface {
	Create(result *model.Result) error
	FindByResultID(resultID string) (*model.Result, error)
	ListByStudent(studentID uint, page, limit int) ([]model.Result, int64, error)
	ListByQuiz(quizID string, page, limit int, studentName string) ([]repository.ResultListRow, int64, error)
}

type ResultService struct {
	Quizzes QuizReader
	Results ResultStore
}

func NewResultService(quizzes QuizReader, results ResultStore) *ResultService {
	return &ResultService{Quizzes: quizzes, Results: results}
}

// ScoreSubmission is the single submission path: normalize the raw
// payload, grade it against the quiz, persist one append-only result and
// return its view. Duplicate attempts create duplicate results.
func (s *ResultService) ScoreSubmission(quizID string, studentID uint, raw scoring.RawSubmission) (*ResultView, error) {
	bundle, err := s.Quizzes.GetBundle(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	quiz := bundle.Quiz
	if !quiz.Published {
		return nil, util.ErrQuizNotPublished
	}

	sub := scoring.Normalize(raw)

	keys := make([]scoring.Question, len(bundle.Questions))
	for i, q := range bundle.Questions {
		keys[i] = scoring.Question{CorrectAnswer: q.CorrectAnswer, Points: q.Points}
	}

	scheme := scoring.ParseScheme(quiz.MarkingScheme)
	marks := scoring.Evaluate(keys, sub, scheme)

	result := buildResult(&quiz, studentID, sub, marks)
	if err := s.Results.Create(result); err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(
		string(scheme), strconv.FormatBool(sub.AutoSubmitted),
	).Inc()

	return NewResultView(result, &quiz, nil, false), nil
}

// buildResult assembles the full record in memory before the single write:
// no partial result is ever persisted.
func buildResult(quiz *model.Quiz, studentID uint, sub scoring.Submission, marks scoring.MarkingResult) *model.Result {
	return &model.Result{
		ResultID:  model.GenerateUUID(),
		QuizID:    quiz.QuizID,
		QuizTitle: quiz.Title,
		StudentID: studentID,

		Answers:          sub.Truncated(marks.TotalQuestions),
		TotalQuestions:   marks.TotalQuestions,
		CorrectAnswers:   marks.CorrectAnswers,
		AttemptedAnswers: marks.AttemptedAnswers,
		IncorrectAnswers: marks.IncorrectAnswers,

		HintsUsed:              marks.HintsUsed,
		PointsDeductedForHints: marks.PointsDeductedForHints,

		TotalMarks:    marks.TotalMarks,
		BaseMarks:     marks.BaseMarks,
		ObtainedMarks: marks.ObtainedMarks,

		Score:     marks.Score,
		BaseScore: marks.BaseScore,
		Accuracy:  marks.Accuracy,

		AutoSubmitted:    sub.AutoSubmitted,
		AutoSubmitReason: sub.AutoSubmitReason,
		TabSwitchCount:   sub.TabSwitchCount,
		TimeTaken:        sub.TimeTaken,

		SubmittedAt: time.Now(),
	}
}

// GetResultView fetches a result for display. Access: the submitting
// student or the quiz's owning teacher (admins see everything). Students
// additionally pass the quiz's result release gate.
func (s *ResultService) GetResultView(resultID string, userID uint, role model.UserRole, includeReview bool) (*ResultView, error) {
	result, err := s.Results.FindByResultID(resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}

	// The quiz may have been edited or deleted since the attempt; the
	// view tolerates both.
	var quiz *model.Quiz
	var questions []model.Question
	if bundle, err := s.Quizzes.GetBundle(result.QuizID); err == nil {
		quiz = &bundle.Quiz
		questions = bundle.Questions
	}

	isOwner := result.StudentID == userID
	isQuizTeacher := quiz != nil && quiz.CreatedBy == userID
	if role != model.Admin && !isOwner && !isQuizTeacher {
		return nil, util.ErrPermissionDenied
	}

	if role == model.Student {
		if err := releaseGate(quiz); err != nil {
			return nil, err
		}
	}

	return NewResultView(result, quiz, questions, includeReview), nil
}

// releaseGate enforces the quiz's resultReleaseMode for students. A
// deleted quiz cannot gate anything, so its results are readable.
func releaseGate(quiz *model.Quiz) error {
	if quiz == nil {
		return nil
	}
	switch quiz.ResultReleaseMode {
	case model.ReleaseAfterAll:
		// Released once the teacher closes the quiz.
		if quiz.Published {
			return util.ErrResultsNotReleased
		}
	case model.ReleaseSpecificDate:
		if quiz.ResultReleaseDate != nil && time.Now().Before(*quiz.ResultReleaseDate) {
			return util.ErrResultsNotReleased
		}
	}
	return nil
}

func (s *ResultService) ListForStudent(studentID uint, page, limit int) ([]*ResultView, int64, error) {
	results, total, err := s.Results.ListByStudent(studentID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*ResultView, len(results))
	for i := range results {
		var quiz *model.Quiz
		if q, err := s.Quizzes.FindByQuizID(results[i].QuizID); err == nil {
			quiz = q
		}
		views[i] = NewResultView(&results[i], quiz, nil, false)
	}
	return views, total, nil
}

// ListForQuiz is the teacher's roster of attempts for one quiz.
func (s *ResultService) ListForQuiz(teacherID uint, quizID string, page, limit int, studentName string) ([]repository.ResultListRow, int64, error) {
	quiz, err := s.Quizzes.FindByQuizID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrQuizNotFound
		}
		return nil, 0, err
	}
	if quiz.CreatedBy != teacherID {
		return nil, 0, util.ErrPermissionDenied
	}

	return s.Results.ListByQuiz(quizID, page, limit, studentName)
}
