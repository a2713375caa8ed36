package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&SubcategoryModel{},
		&BookModel{},
		&LoanModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string    `gorm:"size:50;not null;comment:姓名"`
	RoleID    uint      `gorm:"type:tinyint;default:2;not null;comment:角色(1管理员2读者)"`
	Active    bool      `gorm:"default:true;not null;comment:账号是否启用"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM父分类模型
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:分类名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// SubcategoryModel GORM子分类模型
type SubcategoryModel struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"size:100;not null;comment:子分类名称"`
	CategoryID uint      `gorm:"index;not null;comment:所属父分类ID"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (SubcategoryModel) TableName() string {
	return "subcategories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ID由应用层随机分配,关闭自增(autoIncrement:false)
// 2. ISBN用普通索引而非唯一索引:唯一性只约束未删除记录,
//    软删除行保留在表里,数据库唯一索引会错误地阻止ISBN复用,
//    活跃唯一性由领域服务在事务内检查
// 3. Status存字符串('AVAILABLE'/'UNAVAILABLE'),加索引支持状态统计
type BookModel struct {
	ID            uint           `gorm:"primaryKey;autoIncrement:false"`
	Name          string         `gorm:"size:200;not null;comment:书名"`
	Publisher     string         `gorm:"size:100;not null;comment:出版社"`
	ISBN          string         `gorm:"index;size:20;not null;comment:ISBN号"`
	Pages         int            `gorm:"not null;comment:页数"`
	ImagePath     string         `gorm:"size:500;comment:封面文件引用,空串表示无封面"`
	CategoryID    uint           `gorm:"index;not null;comment:父分类ID"`
	SubcategoryID uint           `gorm:"index;not null;comment:子分类ID"`
	Status        string         `gorm:"index;size:20;not null;comment:馆藏状态"`
	AddedBy       uint           `gorm:"not null;comment:最近操作者用户ID"`
	CreatedAt     time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time      `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// LoanModel GORM借阅模型
// 设计说明:
// 1. 复合索引(book_id,status)服务"图书是否存在有效借阅"的删除守卫查询
// 2. DueAt/ReturnedAt用指针表示可空
type LoanModel struct {
	ID         uint       `gorm:"primaryKey"`
	BookID     uint       `gorm:"index:idx_book_status;not null;comment:图书ID"`
	UserID     uint       `gorm:"index;not null;comment:借阅人用户ID"`
	Status     string     `gorm:"index:idx_book_status;size:20;not null;comment:借阅状态"`
	Extended   bool       `gorm:"default:false;not null;comment:是否已续借"`
	DueAt      *time.Time `gorm:"comment:应还时间"`
	ReturnedAt *time.Time `gorm:"comment:实际归还时间"`
	CreatedAt  time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}
