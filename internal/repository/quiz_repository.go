package repository

import (
	"context"
	"encoding/json"
	"time"

	"quizmaster/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const publishedQuizTTL = 5 * time.Minute

type QuizRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewQuizRepository(db *gorm.DB, rdb *redis.Client) *QuizRepository {
	return &QuizRepository{DB: db, Redis: rdb}
}

// QuizBundle is a quiz together with its ordered questions.
type QuizBundle struct {
	Quiz      model.Quiz       `json:"quiz"`
	Questions []model.Question `json:"questions"`
}

func (r *QuizRepository) CreateQuizWithQuestions(quiz *model.Quiz, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quiz.QuizID
			questions[i].Order = i
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindByQuizID(quizID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("quiz_id = ?", quizID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) ListQuestions(quizID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("quiz_id = ?", quizID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

// GetBundle loads a quiz with its questions, going through the redis cache
// when the quiz is published (the hot path: students taking the quiz).
func (r *QuizRepository) GetBundle(quizID string) (*QuizBundle, error) {
	ctx := context.Background()
	cacheKey := "quiz:published:" + quizID

	if r.Redis != nil {
		if val, err := r.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var bundle QuizBundle
			if err := json.Unmarshal([]byte(val), &bundle); err == nil {
				return &bundle, nil
			}
		}
	}

	quiz, err := r.FindByQuizID(quizID)
	if err != nil {
		return nil, err
	}
	questions, err := r.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	bundle := &QuizBundle{Quiz: *quiz, Questions: questions}

	if r.Redis != nil && quiz.Published {
		if data, err := json.Marshal(bundle); err == nil {
			r.Redis.Set(ctx, cacheKey, data, publishedQuizTTL)
		}
	}

	return bundle, nil
}

// UpdateQuizWithQuestions saves quiz fields and, when questions is non-nil,
// replaces the question set wholesale (positions are reassigned from the
// request order, never diffed).
func (r *QuizRepository) UpdateQuizWithQuestions(quiz *model.Quiz, questions []model.Question) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(quiz).Error; err != nil {
			return err
		}
		if questions == nil {
			return nil
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.QuizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].QuizID = quiz.QuizID
			questions[i].Order = i
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.invalidate(quiz.QuizID)
	return nil
}

// DeleteQuiz removes the quiz and its questions. Results deliberately
// survive: they are append-only audit records.
func (r *QuizRepository) DeleteQuiz(quizID string) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Where("quiz_id = ?", quizID).Delete(&model.Quiz{}).Error
	})
	if err != nil {
		return err
	}
	r.invalidate(quizID)
	return nil
}

func (r *QuizRepository) SetPublished(quizID string, published bool) error {
	updates := map[string]interface{}{"published": published}
	if published {
		updates["published_at"] = time.Now()
	}
	err := r.DB.Model(&model.Quiz{}).Where("quiz_id = ?", quizID).Updates(updates).Error
	if err != nil {
		return err
	}
	r.invalidate(quizID)
	return nil
}

type QuizListRow struct {
	model.Quiz
	QuestionCount   int `json:"questionCount"`
	SubmissionCount int `json:"submissionCount"`
}

func (r *QuizRepository) ListByTeacher(teacherID uint, page, limit int) ([]QuizListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Quiz{}).Where("created_by = ?", teacherID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []QuizListRow
	query := r.DB.Table("quizzes q").
		Select("q.*, "+
			"(SELECT COUNT(*) FROM questions qu WHERE qu.quiz_id = q.quiz_id AND qu.deleted_at IS NULL) as question_count, "+
			"(SELECT COUNT(*) FROM results res WHERE res.quiz_id = q.quiz_id AND res.deleted_at IS NULL) as submission_count").
		Where("q.created_by = ? AND q.deleted_at IS NULL", teacherID)

	if limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("q.created_at desc").Scan(&rows).Error
	return rows, total, err
}

func (r *QuizRepository) ListPublished(page, limit int) ([]QuizListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Quiz{}).Where("published = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []QuizListRow
	query := r.DB.Table("quizzes q").
		Select("q.*, "+
			"(SELECT COUNT(*) FROM questions qu WHERE qu.quiz_id = q.quiz_id AND qu.deleted_at IS NULL) as question_count, "+
			"0 as submission_count").
		Where("q.published = ? AND q.deleted_at IS NULL", true)

	if limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Order("q.created_at desc").Scan(&rows).Error
	return rows, total, err
}

func (r *QuizRepository) invalidate(quizID string) {
	if r.Redis == nil {
		return
	}
	r.Redis.Del(context.Background(), "quiz:published:"+quizID)
}
