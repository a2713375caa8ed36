package loan

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/pkg/metrics"
)

// ReviewLoanUseCase 借阅审批用例(管理员批准/驳回)
type ReviewLoanUseCase struct {
	loanRepo loan.Repository
	events   event.Publisher
}

// NewReviewLoanUseCase 创建审批用例
func NewReviewLoanUseCase(loanRepo loan.Repository, events event.Publisher) *ReviewLoanUseCase {
	return &ReviewLoanUseCase{
		loanRepo: loanRepo,
		events:   events,
	}
}

// Approve 批准借阅
// 业务规则:仅待审批的借阅可批准,批准时设置应还时间(14天后)
func (uc *ReviewLoanUseCase) Approve(ctx context.Context, loanID uint) (*LoanData, error) {
	return uc.review(ctx, loanID, true)
}

// Reject 驳回借阅
func (uc *ReviewLoanUseCase) Reject(ctx context.Context, loanID uint) (*LoanData, error) {
	return uc.review(ctx, loanID, false)
}

func (uc *ReviewLoanUseCase) review(ctx context.Context, loanID uint, approve bool) (*LoanData, error) {
	l, err := uc.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	// 状态迁移规则由实体把关(非PENDING状态会被拒绝)
	if approve {
		err = l.Approve()
	} else {
		err = l.Reject()
	}
	if err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	result := "rejected"
	routingKey := event.LoanRejected
	if approve {
		result = "approved"
		routingKey = event.LoanApproved
	}
	metrics.IncCounterVec(metrics.LoansReviewedTotal, map[string]string{"result": result})

	if err := uc.events.Publish(routingKey, map[string]interface{}{
		"loan_id": l.ID,
		"book_id": l.BookID,
		"user_id": l.UserID,
	}); err != nil {
		log.Printf("发布借阅审批事件失败: loan_id=%d, err=%v", l.ID, err)
	}

	data := toLoanData(l)
	return &data, nil
}
