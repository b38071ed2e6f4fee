package controller

import (
	"errors"
	"strconv"

	"quizmaster/internal/service"
	"quizmaster/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService    *service.QuizService
	StorageService *service.StorageService
}

func NewQuizController(quizService *service.QuizService, storageService *service.StorageService) *QuizController {
	return &QuizController{
		QuizService:    quizService,
		StorageService: storageService,
	}
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 教师创建测验，可同时附带题目列表
// @Tags 教师测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuizReq true "测验内容"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, questions, err := c.QuizService.CreateQuiz(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, gin.H{"quiz": quiz, "questions": questions})
}

// ListQuizzes godoc
// @Summary 教师测验列表
// @Description 当前教师创建的测验，含题目数与提交数
// @Tags 教师测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/teacher/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	rows, total, err := c.QuizService.ListForTeacher(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}

// GetQuiz godoc
// @Summary 教师查看测验详情
// @Description 含完整题目（答案、解析）
// @Tags 教师测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{quizId} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, questions, err := c.QuizService.GetQuizForTeacher(claims.UserID, ctx.Param("quizId"))
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"quiz": quiz, "questions": questions})
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Description 部分字段更新；携带questions时整体替换题目
// @Tags 教师测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Param   body body service.QuizReq true "更新字段"
// @Success 200 {object} util.Response{data=model.Quiz} "Success"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{quizId} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(claims.UserID, ctx.Param("quizId"), req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) || errors.Is(err, util.ErrPermissionDenied) {
			c.writeQuizError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 删除测验及其题目；已产生的成绩记录保留
// @Tags 教师测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{quizId} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuizService.DeleteQuiz(claims.UserID, ctx.Param("quizId")); err != nil {
		c.writeQuizError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type publishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// SetPublished godoc
// @Summary 发布或下线测验
// @Description 切换发布状态；下线同时触发afterAll成绩释放
// @Tags 教师测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Param   body body publishRequest true "发布状态"
// @Success 200 {object} util.Response{data=model.Quiz} "Success"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{quizId}/publish [patch]
func (c *QuizController) SetPublished(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req publishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.SetPublished(claims.UserID, ctx.Param("quizId"), *req.Published)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// UploadQuestionImage godoc
// @Summary 上传题目配图
// @Description 上传图片并返回可填入question.imageUrl的地址
// @Tags 教师测验
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "图片文件"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "文件无效"
// @Router /api/teacher/uploads/question-image [post]
func (c *QuizController) UploadQuestionImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), fileHeader)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// ListPublishedQuizzes godoc
// @Summary 可参加的测验列表
// @Description 学生可见的已发布测验
// @Tags 学生测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/quizzes [get]
func (c *QuizController) ListPublishedQuizzes(ctx *gin.Context) {
	page, limit := pagination(ctx)
	rows, total, err := c.QuizService.ListPublished(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}

// TakeQuiz godoc
// @Summary 学生获取测验
// @Description 返回做题视图，不含答案与解析
// @Tags 学生测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=service.TakeQuizView} "Success"
// @Failure 403 {object} util.Response "测验未发布"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) TakeQuiz(ctx *gin.Context) {
	view, err := c.QuizService.GetQuizForStudent(ctx.Param("quizId"))
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

func (c *QuizController) writeQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx, "quiz not found")
	case errors.Is(err, util.ErrQuizNotPublished):
		util.Forbidden(ctx, "quiz not published")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, "permission denied")
	default:
		util.LogInternalError(ctx, err)
	}
}
