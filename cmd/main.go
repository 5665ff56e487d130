package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forxynet/DevConnector/config"
	"github.com/forxynet/DevConnector/internal/api/post"
	"github.com/forxynet/DevConnector/internal/api/profile"
	"github.com/forxynet/DevConnector/internal/api/user"
	"github.com/forxynet/DevConnector/internal/middleware"
	"github.com/forxynet/DevConnector/internal/repository/mysql"
	"github.com/forxynet/DevConnector/internal/service"
	"github.com/forxynet/DevConnector/internal/storage"
	"github.com/forxynet/DevConnector/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("not_blank", util.ValidateNotBlank)
	}

	// 初始化存储后端（头像上传）
	fileStorage, err := storage.NewFromConfig(&config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化存储后端失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	profileRepo := mysql.NewProfileRepository(db)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, userRepo)
	profileService := service.NewProfileService(profileRepo, postRepo, userRepo)
	githubService := service.NewGithubService()

	authHandler := user.NewAuthHandler(userService)
	userHandler := user.NewUserHandler(userService, fileStorage)
	postHandler := post.NewPostHandler(postService)
	profileHandler := profile.NewProfileHandler(profileService, githubService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 配置静态文件服务（本地存储时提供头像访问）
	if config.AppConfig.StorageBackend == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 用户相关路由
		api.POST("/users", authHandler.Register)
		api.POST("/auth", authHandler.Login)

		// 需要认证的用户路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(userService))
		{
			authorized.GET("/auth", userHandler.GetCurrent)
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)
			authorized.POST("/users/avatar", userHandler.UploadAvatar)
		}

		// 帖子相关路由
		api.GET("/posts", middleware.AuthMiddleware(userService), postHandler.List)
		api.GET("/posts/:id", middleware.AuthMiddleware(userService), postHandler.Get)
		api.POST("/posts", middleware.AuthMiddleware(userService), postHandler.Create)
		api.DELETE("/posts/:id", middleware.AuthMiddleware(userService), postHandler.Delete)

		api.PUT("/posts/:id/like", middleware.AuthMiddleware(userService), postHandler.Like)
		api.PUT("/posts/:id/unlike", middleware.AuthMiddleware(userService), postHandler.Unlike)

		api.POST("/posts/:id/comments", middleware.AuthMiddleware(userService), postHandler.AddComment)
		api.DELETE("/posts/:id/comments/:comment_id", middleware.AuthMiddleware(userService), postHandler.RemoveComment)

		// 档案相关路由
		api.GET("/profile", profileHandler.List)
		api.GET("/profile/user/:user_id", profileHandler.GetByUserID)
		api.GET("/profile/github/:username", profileHandler.GetGithubRepos)

		api.GET("/profile/me", middleware.AuthMiddleware(userService), profileHandler.GetMine)
		api.POST("/profile", middleware.AuthMiddleware(userService), profileHandler.Upsert)
		api.DELETE("/profile", middleware.AuthMiddleware(userService), profileHandler.DeleteAccount)

		api.PUT("/profile/experience", middleware.AuthMiddleware(userService), profileHandler.AddExperience)
		api.DELETE("/profile/experience/:exp_id", middleware.AuthMiddleware(userService), profileHandler.RemoveExperience)
		api.PUT("/profile/education", middleware.AuthMiddleware(userService), profileHandler.AddEducation)
		api.DELETE("/profile/education/:edu_id", middleware.AuthMiddleware(userService), profileHandler.RemoveEducation)

		// 错误统计（调试用）
		if config.AppConfig.Debug {
			api.GET("/debug/errors", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"counts": errorMonitor.GetErrorCounts(),
					"stats":  errorMonitor.GetStats(),
				})
			})
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
