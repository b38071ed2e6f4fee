package controller

import (
	"errors"

	"quizmaster/internal/scoring"
	"quizmaster/internal/service"
	"quizmaster/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// SubmitQuiz godoc
// @Summary 提交答卷
// @Description 评分并持久化一次作答；重复提交各自成为独立记录
// @Tags 成绩
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Param   body body scoring.RawSubmission true "作答内容"
// @Success 201 {object} util.Response{data=service.ResultView} "评分结果"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "测验未发布"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{quizId}/submit [post]
func (c *ResultController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	// 字段逐项容错，格式错误按未填处理，整体非JSON才拒绝
	var raw scoring.RawSubmission
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.ResultService.ScoreSubmission(ctx.Param("quizId"), claims.UserID, raw)
	if err != nil {
		c.writeResultError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// ListMyResults godoc
// @Summary 我的成绩列表
// @Description 当前学生的历次作答记录
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/results [get]
func (c *ResultController) ListMyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	views, total, err := c.ResultService.ListForStudent(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: views, Total: total, Page: page, Limit: limit})
}

// GetResult godoc
// @Summary 查看单次成绩
// @Description 本人、出题教师或管理员可见；review=true附带题目回顾
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   resultId path string true "成绩ID"
// @Param   review query bool false "是否附带题目回顾"
// @Success 200 {object} util.Response{data=service.ResultView} "Success"
// @Failure 403 {object} util.Response "无权查看或成绩未释放"
// @Failure 404 {object} util.Response "成绩不存在"
// @Router /api/results/{resultId} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	includeReview := ctx.Query("review") == "true"
	view, err := c.ResultService.GetResultView(ctx.Param("resultId"), claims.UserID, claims.Role, includeReview)
	if err != nil {
		c.writeResultError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// ListQuizResults godoc
// @Summary 测验成绩名册
// @Description 出题教师查看某测验的全部作答，支持按学生姓名过滤
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Param   studentName query string false "学生姓名模糊匹配"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{quizId}/results [get]
func (c *ResultController) ListQuizResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	rows, total, err := c.ResultService.ListForQuiz(claims.UserID, ctx.Param("quizId"), page, limit, ctx.Query("studentName"))
	if err != nil {
		c.writeResultError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}

func (c *ResultController) writeResultError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx, "quiz not found")
	case errors.Is(err, util.ErrResultNotFound):
		util.NotFound(ctx, "result not found")
	case errors.Is(err, util.ErrQuizNotPublished):
		util.Forbidden(ctx, "quiz not published")
	case errors.Is(err, util.ErrResultsNotReleased):
		util.Forbidden(ctx, "results not released yet")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, "permission denied")
	default:
		util.LogInternalError(ctx, err)
	}
}
