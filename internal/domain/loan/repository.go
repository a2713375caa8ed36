package loan

import (
	"context"
)

// Repository 借阅仓储接口
type Repository interface {
	// Create 创建借阅记录
	Create(ctx context.Context, l *Loan) error

	// FindByID 根据ID查找借阅记录
	FindByID(ctx context.Context, id uint) (*Loan, error)

	// Update 更新借阅记录
	Update(ctx context.Context, l *Loan) error

	// HasActiveLoan 判断图书是否存在有效借阅
	// 有效 = (已批准 或 续借中) 且 未归还
	HasActiveLoan(ctx context.Context, bookID uint) (bool, error)

	// ListByUser 查询用户的全部借阅记录(新→旧)
	ListByUser(ctx context.Context, userID uint) ([]*Loan, error)

	// ListByStatus 按状态查询借阅记录(新→旧),供管理员审批队列使用
	ListByStatus(ctx context.Context, status Status) ([]*Loan, error)
}
