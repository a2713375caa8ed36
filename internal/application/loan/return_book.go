package loan

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/event"
)

// ReturnBookUseCase 归还用例(管理员在还书台操作)
type ReturnBookUseCase struct {
	loanRepo loan.Repository
	events   event.Publisher
}

// NewReturnBookUseCase 创建归还用例
func NewReturnBookUseCase(loanRepo loan.Repository, events event.Publisher) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		loanRepo: loanRepo,
		events:   events,
	}
}

// Execute 执行归还
// 归还后该借阅不再是有效借阅,图书可被删除
func (uc *ReturnBookUseCase) Execute(ctx context.Context, loanID uint) (*LoanData, error) {
	l, err := uc.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := l.Return(); err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	if err := uc.events.Publish(event.LoanReturned, map[string]interface{}{
		"loan_id": l.ID,
		"book_id": l.BookID,
	}); err != nil {
		log.Printf("发布归还事件失败: loan_id=%d, err=%v", l.ID, err)
	}

	data := toLoanData(l)
	return &data, nil
}
