package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanRepository 借阅仓储实现(MySQL)
// 说明:同时实现domain/loan.Repository与domain/book.LoanGuard
// (HasActiveLoan是图书删除守卫的数据源)
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

// Create 创建借阅记录
func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := toLoanModel(l)
	model.ID = 0 // 借阅ID由数据库自增分配

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找借阅记录
func (r *loanRepository) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toLoanEntity(&model), nil
}

// Update 更新借阅记录
func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	model := toLoanModel(l)

	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新借阅记录失败")
	}

	l.UpdatedAt = model.UpdatedAt
	return nil
}

// HasActiveLoan 判断图书是否存在有效借阅
// 有效 = (已批准 或 续借中) 且 未归还
func (r *loanRepository) HasActiveLoan(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&LoanModel{}).
		Where("book_id = ?", bookID).
		Where("(status = ? OR extended = ?)", string(loan.StatusApproved), true).
		Where("returned_at IS NULL").
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询有效借阅失败")
	}
	return count > 0, nil
}

// ListByUser 查询用户的全部借阅记录(新→旧)
func (r *loanRepository) ListByUser(ctx context.Context, userID uint) ([]*loan.Loan, error) {
	var models []LoanModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询借阅列表失败")
	}
	return toLoanEntities(models), nil
}

// ListByStatus 按状态查询借阅记录(新→旧)
func (r *loanRepository) ListByStatus(ctx context.Context, status loan.Status) ([]*loan.Loan, error) {
	var models []LoanModel
	err := getDB(ctx, r.db).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询借阅列表失败")
	}
	return toLoanEntities(models), nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toLoanModel(l *loan.Loan) *LoanModel {
	return &LoanModel{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		Status:     string(l.Status),
		Extended:   l.Extended,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func toLoanEntity(model *LoanModel) *loan.Loan {
	return &loan.Loan{
		ID:         model.ID,
		BookID:     model.BookID,
		UserID:     model.UserID,
		Status:     loan.Status(model.Status),
		Extended:   model.Extended,
		DueAt:      model.DueAt,
		ReturnedAt: model.ReturnedAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toLoanEntities(models []LoanModel) []*loan.Loan {
	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoanEntity(&models[i])
	}
	return loans
}
