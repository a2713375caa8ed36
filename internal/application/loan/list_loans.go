package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/loan"
)

// ListLoansUseCase 借阅列表用例
type ListLoansUseCase struct {
	loanRepo loan.Repository
}

// NewListLoansUseCase 创建借阅列表用例
func NewListLoansUseCase(loanRepo loan.Repository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// ListByUser 查询用户自己的借阅记录
func (uc *ListLoansUseCase) ListByUser(ctx context.Context, userID uint) ([]LoanData, error) {
	loans, err := uc.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toLoanDataList(loans), nil
}

// ListPending 查询待审批队列(管理员)
func (uc *ListLoansUseCase) ListPending(ctx context.Context) ([]LoanData, error) {
	loans, err := uc.loanRepo.ListByStatus(ctx, loan.StatusPending)
	if err != nil {
		return nil, err
	}
	return toLoanDataList(loans), nil
}
