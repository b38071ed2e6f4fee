package app

import (
	"quizmaster/docs"
	"quizmaster/internal/config"
	"quizmaster/internal/middleware"
	"quizmaster/internal/model"
	"quizmaster/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)

		// 学生接口
		authGroup.GET("/quizzes", c.quiz.ListPublishedQuizzes)
		authGroup.GET("/quizzes/:quizId", c.quiz.TakeQuiz)
		authGroup.POST("/quizzes/:quizId/submit", middleware.RoleMiddleware(model.Student), c.result.SubmitQuiz)
		authGroup.GET("/results", c.result.ListMyResults)
		authGroup.GET("/results/:resultId", c.result.GetResult)

		// 教师接口
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/quizzes", c.quiz.CreateQuiz)
			teacher.GET("/quizzes", c.quiz.ListQuizzes)
			teacher.GET("/quizzes/:quizId", c.quiz.GetQuiz)
			teacher.PUT("/quizzes/:quizId", c.quiz.UpdateQuiz)
			teacher.DELETE("/quizzes/:quizId", c.quiz.DeleteQuiz)
			teacher.PATCH("/quizzes/:quizId/publish", c.quiz.SetPublished)
			teacher.GET("/quizzes/:quizId/results", c.result.ListQuizResults)
			teacher.POST("/uploads/question-image", c.quiz.UploadQuestionImage)
		}
	}
}
