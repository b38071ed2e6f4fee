package service

import (
	"quizmaster/internal/model"
	"quizmaster/internal/repository"

	"gorm.io/gorm"
)

// In-memory stores backing the service tests.

type fakeQuizStore struct {
	quizzes   map[string]*model.Quiz
	questions map[string][]model.Question
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{
		quizzes:   make(map[string]*model.Quiz),
		questions: make(map[string][]model.Question),
	}
}

func (f *fakeQuizStore) CreateQuizWithQuestions(quiz *model.Quiz, questions []model.Question) error {
	copied := *quiz
	f.quizzes[quiz.QuizID] = &copied
	f.questions[quiz.QuizID] = append([]model.Question(nil), questions...)
	return nil
}

func (f *fakeQuizStore) FindByQuizID(quizID string) (*model.Quiz, error) {
	quiz, ok := f.quizzes[quizID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (f *fakeQuizStore) ListQuestions(quizID string) ([]model.Question, error) {
	return append([]model.Question(nil), f.questions[quizID]...), nil
}

func (f *fakeQuizStore) GetBundle(quizID string) (*repository.QuizBundle, error) {
	quiz, err := f.FindByQuizID(quizID)
	if err != nil {
		return nil, err
	}
	return &repository.QuizBundle{
		Quiz:      *quiz,
		Questions: append([]model.Question(nil), f.questions[quizID]...),
	}, nil
}

func (f *fakeQuizStore) UpdateQuizWithQuestions(quiz *model.Quiz, questions []model.Question) error {
	if _, ok := f.quizzes[quiz.QuizID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *quiz
	f.quizzes[quiz.QuizID] = &copied
	if questions != nil {
		f.questions[quiz.QuizID] = append([]model.Question(nil), questions...)
	}
	return nil
}

func (f *fakeQuizStore) DeleteQuiz(quizID string) error {
	delete(f.quizzes, quizID)
	delete(f.questions, quizID)
	return nil
}

func (f *fakeQuizStore) SetPublished(quizID string, published bool) error {
	quiz, ok := f.quizzes[quizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quiz.Published = published
	return nil
}

func (f *fakeQuizStore) ListByTeacher(teacherID uint, page, limit int) ([]repository.QuizListRow, int64, error) {
	var rows []repository.QuizListRow
	for _, quiz := range f.quizzes {
		if quiz.CreatedBy == teacherID {
			rows = append(rows, repository.QuizListRow{
				Quiz:          *quiz,
				QuestionCount: len(f.questions[quiz.QuizID]),
			})
		}
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeQuizStore) ListPublished(page, limit int) ([]repository.QuizListRow, int64, error) {
	var rows []repository.QuizListRow
	for _, quiz := range f.quizzes {
		if quiz.Published {
			rows = append(rows, repository.QuizListRow{
				Quiz:          *quiz,
				QuestionCount: len(f.questions[quiz.QuizID]),
			})
		}
	}
	return rows, int64(len(rows)), nil
}

type fakeResultStore struct {
	results []model.Result
}

func (f *fakeResultStore) Create(result *model.Result) error {
	f.results = append(f.results, *result)
	return nil
}

func (f *fakeResultStore) FindByResultID(resultID string) (*model.Result, error) {
	for i := range f.results {
		if f.results[i].ResultID == resultID {
			copied := f.results[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResultStore) ListByStudent(studentID uint, page, limit int) ([]model.Result, int64, error) {
	var out []model.Result
	for _, r := range f.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeResultStore) ListByQuiz(quizID string, page, limit int, studentName string) ([]repository.ResultListRow, int64, error) {
	var rows []repository.ResultListRow
	for _, r := range f.results {
		if r.QuizID == quizID {
			rows = append(rows, repository.ResultListRow{Result: r})
		}
	}
	return rows, int64(len(rows)), nil
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// seedQuiz registers a five-question quiz whose correct answer is always
// option 0, owned by teacher 1.
func seedQuiz(store *fakeQuizStore, quizID string, published bool) *model.Quiz {
	quiz := &model.Quiz{
		QuizID:            quizID,
		Title:             "Fractions Basics",
		Published:         published,
		ResultReleaseMode: model.ReleaseImmediate,
		MarkingScheme:     model.SchemeNegativeMarking,
		CreatedBy:         1,
	}
	questions := make([]model.Question, 5)
	for i := range questions {
		questions[i] = model.Question{
			QuizID:        quizID,
			Order:         i,
			QuestionText:  "Q",
			Options:       model.OptionList{"a", "b", "c", "d"},
			CorrectAnswer: intPtr(0),
			Points:        1,
		}
	}
	store.CreateQuizWithQuestions(quiz, questions)
	return quiz
}
