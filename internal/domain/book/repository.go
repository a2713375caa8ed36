package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 除ExistsID外,所有查询默认排除软删除记录
type Repository interface {
	// Create 创建图书(ID由调用方预先分配,非自增)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(排除软删除)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书(排除软删除,用于ISBN活跃唯一性检查)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// ExistsID 判断ID是否已被占用(包含软删除记录,主键是全局的)
	ExistsID(ctx context.Context, id uint) (bool, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 用于删除守卫与并发更新的read-guard-write串行化,必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// SoftDelete 软删除图书(设置deleted_at,其余字段保留用于审计)
	SoftDelete(ctx context.Context, id uint) error

	// ListAll 查询全部未删除图书,按创建时间倒序
	ListAll(ctx context.Context) ([]*Book, error)

	// CountByStatus 统计各馆藏状态的未删除图书数量
	CountByStatus(ctx context.Context) (Stats, error)
}

// TxRunner 事务执行器接口
// 设计说明:领域服务的Create/Update/Delete需要把读-校验-写串到同一事务里,
// 具体事务机制(GORM Transaction + context传递)由infrastructure层提供
type TxRunner interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AssetStore 封面资产存储接口(外部协作者)
// 约定:
// 1. Store以key写入字节,返回可持久保存的资产引用
// 2. Delete对不存在的引用视为成功(幂等)
type AssetStore interface {
	Store(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}

// CategoryResolver 分类解析接口(外部协作者)
// Resolve将子分类ID解析为其父分类ID,子分类不存在时返回category.ErrSubcategoryNotFound
type CategoryResolver interface {
	Resolve(ctx context.Context, subcategoryID uint) (uint, error)
}

// LoanGuard 借阅守卫接口(外部协作者)
// HasActiveLoan报告图书当前是否存在有效借阅(已批准或处于续借中且未归还)
type LoanGuard interface {
	HasActiveLoan(ctx context.Context, bookID uint) (bool, error)
}
