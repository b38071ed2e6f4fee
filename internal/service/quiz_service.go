package service

import (
	"errors"
	"fmt"
	"time"

	"quizmaster/internal/model"
	"quizmaster/internal/repository"
	"quizmaster/internal/util"

	"gorm.io/gorm"
)

// QuizStore is the persistence surface QuizService needs; implemented by
// repository.QuizRepository and by in-memory fakes in tests.
type QuizStore interface {
	CreateQuizWithQuestions(quiz *model.Quiz, questions []model.Question) error
	FindByQuizID(quizID string) (*model.Quiz, error)
	ListQuestions(quizID string) ([]model.Question, error)
	GetBundle(quizID string) (*repository.QuizBundle, error)
	UpdateQuizWithQuestions(quiz *model.Quiz, questions []model.Question) error
	DeleteQuiz(quizID string) error
	SetPublished(quizID string, published bool) error
	ListByTeacher(teacherID uint, page, limit int) ([]repository.QuizListRow, int64, error)
	ListPublished(page, limit int) ([]repository.QuizListRow, int64, error)
}

type QuizService struct {
	Store QuizStore
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{Store: store}
}

type QuestionReq struct {
	QuestionText  string   `json:"questionText" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation"`
	Hint          string   `json:"hint"`
	Concept       string   `json:"concept"`
	ImageURL      string   `json:"imageUrl"`
}

type QuizReq struct {
	Title             *string        `json:"title"`
	Description       *string        `json:"description"`
	TimeLimit         *int           `json:"timeLimit"`
	Published         *bool          `json:"published"`
	ResultReleaseMode *string        `json:"resultReleaseMode"`
	ResultReleaseDate *time.Time     `json:"resultReleaseDate"`
	MarkingScheme     *string        `json:"markingScheme"`
	Questions         *[]QuestionReq `json:"questions"`
}

func buildQuestions(reqs []QuestionReq) ([]model.Question, error) {
	questions := make([]model.Question, len(reqs))
	for i, qReq := range reqs {
		if qReq.CorrectAnswer != nil {
			if *qReq.CorrectAnswer < 0 || *qReq.CorrectAnswer >= len(qReq.Options) {
				return nil, fmt.Errorf("question %d: correctAnswer %d out of range for %d options",
					i, *qReq.CorrectAnswer, len(qReq.Options))
			}
		}
		questions[i] = model.Question{
			Order:         i,
			QuestionText:  qReq.QuestionText,
			Options:       qReq.Options,
			CorrectAnswer: qReq.CorrectAnswer,
			Points:        qReq.Points,
			Explanation:   qReq.Explanation,
			Hint:          qReq.Hint,
			Concept:       qReq.Concept,
			ImageURL:      qReq.ImageURL,
		}
	}
	return questions, nil
}

func validateRelease(mode string, date *time.Time) error {
	switch mode {
	case model.ReleaseImmediate, model.ReleaseAfterAll:
		return nil
	case model.ReleaseSpecificDate:
		if date == nil {
			return errors.New("resultReleaseDate is required when resultReleaseMode is specificDate")
		}
		return nil
	default:
		return fmt.Errorf("unknown resultReleaseMode %q", mode)
	}
}

func (s *QuizService) CreateQuiz(teacherID uint, req QuizReq) (*model.Quiz, []model.Question, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, nil, errors.New("title is required")
	}

	quiz := &model.Quiz{
		QuizID:            model.GenerateUUID(),
		Title:             *req.Title,
		CreatedBy:         teacherID,
		ResultReleaseMode: model.ReleaseImmediate,
		MarkingScheme:     model.SchemeNegativeMarking,
	}

	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.ResultReleaseMode != nil {
		quiz.ResultReleaseMode = *req.ResultReleaseMode
	}
	if req.ResultReleaseDate != nil {
		quiz.ResultReleaseDate = req.ResultReleaseDate
	}
	if req.MarkingScheme != nil && *req.MarkingScheme != "" {
		quiz.MarkingScheme = *req.MarkingScheme
	}
	if req.Published != nil && *req.Published {
		quiz.Published = true
		now := time.Now()
		quiz.PublishedAt = &now
	}

	if err := validateRelease(quiz.ResultReleaseMode, quiz.ResultReleaseDate); err != nil {
		return nil, nil, err
	}

	var questions []model.Question
	if req.Questions != nil {
		var err error
		questions, err = buildQuestions(*req.Questions)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := s.Store.CreateQuizWithQuestions(quiz, questions); err != nil {
		return nil, nil, err
	}

	return quiz, questions, nil
}

// UpdateQuiz applies a full-field edit. When questions are present they
// replace the existing set wholesale; already-graded results keep their
// snapshot and are never recomputed.
func (s *QuizService) UpdateQuiz(teacherID uint, quizID string, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.findOwned(teacherID, quizID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.ResultReleaseMode != nil {
		quiz.ResultReleaseMode = *req.ResultReleaseMode
	}
	if req.ResultReleaseDate != nil {
		quiz.ResultReleaseDate = req.ResultReleaseDate
	}
	if req.MarkingScheme != nil && *req.MarkingScheme != "" {
		quiz.MarkingScheme = *req.MarkingScheme
	}
	if req.Published != nil {
		if *req.Published && !quiz.Published {
			now := time.Now()
			quiz.PublishedAt = &now
		}
		quiz.Published = *req.Published
	}

	if err := validateRelease(quiz.ResultReleaseMode, quiz.ResultReleaseDate); err != nil {
		return nil, err
	}

	var questions []model.Question
	if req.Questions != nil {
		questions, err = buildQuestions(*req.Questions)
		if err != nil {
			return nil, err
		}
	}

	if err := s.Store.UpdateQuizWithQuestions(quiz, questions); err != nil {
		return nil, err
	}

	return quiz, nil
}

func (s *QuizService) DeleteQuiz(teacherID uint, quizID string) error {
	if _, err := s.findOwned(teacherID, quizID); err != nil {
		return err
	}
	return s.Store.DeleteQuiz(quizID)
}

func (s *QuizService) SetPublished(teacherID uint, quizID string, published bool) (*model.Quiz, error) {
	quiz, err := s.findOwned(teacherID, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.Store.SetPublished(quizID, published); err != nil {
		return nil, err
	}
	quiz.Published = published
	return quiz, nil
}

func (s *QuizService) GetQuizForTeacher(teacherID uint, quizID string) (*model.Quiz, []model.Question, error) {
	quiz, err := s.findOwned(teacherID, quizID)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.Store.ListQuestions(quizID)
	return quiz, questions, err
}

func (s *QuizService) ListForTeacher(teacherID uint, page, limit int) ([]repository.QuizListRow, int64, error) {
	return s.Store.ListByTeacher(teacherID, page, limit)
}

func (s *QuizService) ListPublished(page, limit int) ([]repository.QuizListRow, int64, error) {
	return s.Store.ListPublished(page, limit)
}

// TakeQuestion is the student-facing shape of a question while attempting
// the quiz: answer key and explanation stay server-side; the hint is sent
// along, revealing it is the client's call and comes back as hintsUsed.
type TakeQuestion struct {
	Order        int      `json:"order"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
	Points       int      `json:"points"`
	Hint         string   `json:"hint,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

type TakeQuizView struct {
	QuizID        string         `json:"quizId"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	TimeLimit     int            `json:"timeLimit"`
	QuestionCount int            `json:"questionCount"`
	MarkingScheme string         `json:"markingScheme"`
	Questions     []TakeQuestion `json:"questions"`
}

func (s *QuizService) GetQuizForStudent(quizID string) (*TakeQuizView, error) {
	bundle, err := s.Store.GetBundle(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !bundle.Quiz.Published {
		return nil, util.ErrQuizNotPublished
	}

	view := &TakeQuizView{
		QuizID:        bundle.Quiz.QuizID,
		Title:         bundle.Quiz.Title,
		Description:   bundle.Quiz.Description,
		TimeLimit:     bundle.Quiz.TimeLimit,
		QuestionCount: len(bundle.Questions),
		MarkingScheme: bundle.Quiz.MarkingScheme,
		Questions:     make([]TakeQuestion, len(bundle.Questions)),
	}
	for i, q := range bundle.Questions {
		view.Questions[i] = TakeQuestion{
			Order:        q.Order,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			Points:       q.Points,
			Hint:         q.Hint,
			ImageURL:     q.ImageURL,
		}
	}
	return view, nil
}

func (s *QuizService) findOwned(teacherID uint, quizID string) (*model.Quiz, error) {
	quiz, err := s.Store.FindByQuizID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.CreatedBy != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}
