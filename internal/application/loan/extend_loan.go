package loan

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/event"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ExtendLoanUseCase 续借用例
// 业务规则:仅借阅人本人可续借,每笔借阅最多续借一次,应还时间顺延7天
type ExtendLoanUseCase struct {
	loanRepo loan.Repository
	events   event.Publisher
}

// NewExtendLoanUseCase 创建续借用例
func NewExtendLoanUseCase(loanRepo loan.Repository, events event.Publisher) *ExtendLoanUseCase {
	return &ExtendLoanUseCase{
		loanRepo: loanRepo,
		events:   events,
	}
}

// Execute 执行续借
func (uc *ExtendLoanUseCase) Execute(ctx context.Context, loanID, userID uint) (*LoanData, error) {
	l, err := uc.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	// 只能操作自己的借阅记录
	if l.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if err := l.Extend(); err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	if err := uc.events.Publish(event.LoanExtended, map[string]interface{}{
		"loan_id": l.ID,
		"due_at":  l.DueAt,
	}); err != nil {
		log.Printf("发布续借事件失败: loan_id=%d, err=%v", l.ID, err)
	}

	data := toLoanData(l)
	return &data, nil
}
