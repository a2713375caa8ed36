//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式:
// Step 1: 修改本文件的Providers
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go,main.go可改为调用InitializeApp()
//
// 当前main.go仍使用手动组装,本文件与其保持同一依赖链,
// 迁移到Wire时只需替换main.go中的组装代码

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcategory "github.com/xiebiao/library/internal/application/category"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideAssetStore,
	provideEventPublisher,
	provideJWTManager,
	provideSessionStore,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewCategoryRepository,
	mysql.NewLoanRepository,
	mysql.NewTxManager,
	wire.Bind(new(book.TxRunner), new(*mysql.TxManager)),
	wire.Bind(new(book.AssetStore), new(*storage.LocalStore)),
	wire.Bind(new(book.LoanGuard), new(loan.Repository)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	category.NewService,
	book.NewRandomIDAllocator,
	book.NewService,
	wire.Bind(new(book.CategoryResolver), new(category.Service)),
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewSetUserStatusUseCase,
	appuser.NewListUsersUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewChangeStatusUseCase,
	apploan.NewBorrowBookUseCase,
	apploan.NewReviewLoanUseCase,
	apploan.NewExtendLoanUseCase,
	apploan.NewReturnBookUseCase,
	apploan.NewListLoansUseCase,
	appcategory.NewManageCategoriesUseCase,
)

// handlerSet 接口层依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewLoanHandler,
	handler.NewCategoryHandler,
	middleware.NewAuthMiddleware,
)

// provideJWTManager 从配置提取JWT参数
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideAssetStore 从配置创建封面存储
func provideAssetStore(cfg *config.Config) (*storage.LocalStore, error) {
	return storage.NewLocalStore(cfg.Storage.Dir)
}

// provideEventPublisher 从配置创建事件发布器,MQ未启用时为no-op
func provideEventPublisher(cfg *config.Config) (event.Publisher, error) {
	if !cfg.MQ.Enabled {
		return event.NopPublisher{}, nil
	}
	return event.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideGinEngine 创建Gin引擎并注册路由
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	categoryHandler *handler.CategoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())
	registerRoutes(r, userHandler, bookHandler, loanHandler, categoryHandler, authMiddleware)
	return r
}

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
