package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcategory "github.com/xiebiao/library/internal/application/category"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
	"github.com/xiebiao/library/pkg/tracing"
)

// main 主程序入口
// 说明:手动依赖注入,组装顺序 Repository → Service → UseCase → Handler
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 封面存储目录: %s\n", cfg.Storage.Dir)

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("library-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化封面存储
	assetStore, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("初始化封面存储失败: %v", err)
	}

	// 7. 初始化事件发布器(MQ未启用时退化为no-op)
	var events event.Publisher = event.NopPublisher{}
	if cfg.MQ.Enabled {
		events, err = event.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化事件发布器失败: %v", err)
		}
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Printf("关闭事件发布器失败: %v", err)
		}
	}()

	// 8. 依赖注入(手动组装)

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	categoryService := category.NewService(categoryRepo)
	bookService := book.NewService(
		bookRepo,
		book.NewRandomIDAllocator(),
		assetStore,
		categoryService, // 子分类→父分类派生
		loanRepo,        // 有效借阅守卫
		txManager,
	)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	setUserStatusUseCase := appuser.NewSetUserStatusUseCase(userService, sessionStore)
	listUsersUseCase := appuser.NewListUsersUseCase(userService)

	createBookUseCase := appbook.NewCreateBookUseCase(bookService, events)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService, events)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, events)
	changeStatusUseCase := appbook.NewChangeStatusUseCase(bookService, events)

	borrowBookUseCase := apploan.NewBorrowBookUseCase(bookRepo, loanRepo, txManager, events)
	reviewLoanUseCase := apploan.NewReviewLoanUseCase(loanRepo, events)
	extendLoanUseCase := apploan.NewExtendLoanUseCase(loanRepo, events)
	returnBookUseCase := apploan.NewReturnBookUseCase(loanRepo, events)
	listLoansUseCase := apploan.NewListLoansUseCase(loanRepo)

	manageCategoriesUseCase := appcategory.NewManageCategoriesUseCase(categoryService)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, setUserStatusUseCase, listUsersUseCase)
	bookHandler := handler.NewBookHandler(createBookUseCase, updateBookUseCase, getBookUseCase, listBooksUseCase, deleteBookUseCase, changeStatusUseCase)
	loanHandler := handler.NewLoanHandler(borrowBookUseCase, reviewLoanUseCase, extendLoanUseCase, returnBookUseCase, listLoansUseCase)
	categoryHandler := handler.NewCategoryHandler(manageCategoriesUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 9. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 10. 注册路由
	registerRoutes(r, userHandler, bookHandler, loanHandler, categoryHandler, authMiddleware)

	// 11. 启动服务(支持优雅关闭)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待退出信号,给在途请求10秒完成
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("收到退出信号,正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("关闭服务失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
// 权限分层:
//   - 公开: 注册/登录/健康检查/文档/指标
//   - 登录: 图书查询、借阅申请/续借/我的借阅、登出
//   - 管理员: 图书编目/更新/删除/上下架、借阅审批/归还、分类维护、账号管理
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	categoryHandler *handler.CategoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块(公开接口)
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
		}

		// 需要登录的路由
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/users/logout", userHandler.Logout)

			// 图书查询
			authorized.GET("/books", bookHandler.ListBooks)
			authorized.GET("/books/:id", bookHandler.GetBook)

			// 分类查询
			authorized.GET("/categories", categoryHandler.ListCategories)
			authorized.GET("/categories/:id/subcategories", categoryHandler.ListSubcategories)

			// 借阅(读者侧)
			authorized.POST("/loans", loanHandler.BorrowBook)
			authorized.GET("/loans/mine", loanHandler.MyLoans)
			authorized.POST("/loans/:id/extend", loanHandler.ExtendLoan)
		}

		// 管理员路由
		admin := v1.Group("")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			// 图书管理
			admin.POST("/books", bookHandler.CreateBook)
			admin.PUT("/books/:id", bookHandler.UpdateBook)
			admin.DELETE("/books/:id", bookHandler.DeleteBook)
			admin.POST("/books/:id/status/available", bookHandler.SetAvailable)
			admin.POST("/books/:id/status/unavailable", bookHandler.SetUnavailable)

			// 借阅管理
			admin.GET("/loans/pending", loanHandler.PendingLoans)
			admin.POST("/loans/:id/approve", loanHandler.ApproveLoan)
			admin.POST("/loans/:id/reject", loanHandler.RejectLoan)
			admin.POST("/loans/:id/return", loanHandler.ReturnBook)

			// 分类管理
			admin.POST("/categories", categoryHandler.CreateCategory)
			admin.POST("/categories/:id/subcategories", categoryHandler.CreateSubcategory)

			// 账号管理
			admin.GET("/users", userHandler.ListUsers)
			admin.POST("/users/:id/activate", userHandler.ActivateUser)
			admin.POST("/users/:id/deactivate", userHandler.DeactivateUser)
		}
	}
}
