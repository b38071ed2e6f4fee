package repository

import (
	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// Create performs the single write of a fully computed result. There is no
// update path: results are append-only.
func (r *ResultRepository) Create(result *model.Result) error {
	return r.DB.Create(result).Error
}

func (r *ResultRepository) FindByResultID(resultID string) (*model.Result, error) {
	var result model.Result
	err := r.DB.Where("result_id = ?", resultID).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) ListByStudent(studentID uint, page, limit int) ([]model.Result, int64, error) {
	var total int64
	query := r.DB.Model(&model.Result{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []model.Result
	offset := (page - 1) * limit
	err := r.DB.Where("student_id = ?", studentID).
		Order("submitted_at desc").Offset(offset).Limit(limit).Find(&results).Error
	return results, total, err
}

type ResultListRow struct {
	model.Result
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

func (r *ResultRepository) ListByQuiz(quizID string, page, limit int, studentName string) ([]ResultListRow, int64, error) {
	query := r.DB.Table("results res").
		Select("res.*, u.name as student_name, u.email as student_email").
		Joins("JOIN users u ON res.student_id = u.id").
		Where("res.quiz_id = ? AND res.deleted_at IS NULL", quizID)

	if studentName != "" {
		query = query.Where("u.name LIKE ?", "%"+studentName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ResultListRow
	offset := (page - 1) * limit
	err := query.Order("res.submitted_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}
