package loan

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/pkg/metrics"
)

// BorrowBookUseCase 借阅申请用例
// 设计说明:
// 1. 借阅是跨聚合的流程(图书+借阅),编排放在应用层
// 2. 事务内行锁图书再检查可借状态,与并发的下架/删除串行化
// 3. 申请创建后进入PENDING,等待管理员审批
type BorrowBookUseCase struct {
	bookRepo book.Repository
	loanRepo loan.Repository
	tx       book.TxRunner
	events   event.Publisher
}

// NewBorrowBookUseCase 创建借阅申请用例
func NewBorrowBookUseCase(bookRepo book.Repository, loanRepo loan.Repository, tx book.TxRunner, events event.Publisher) *BorrowBookUseCase {
	return &BorrowBookUseCase{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
		tx:       tx,
		events:   events,
	}
}

// Execute 执行借阅申请
func (uc *BorrowBookUseCase) Execute(ctx context.Context, bookID, userID uint) (*LoanData, error) {
	var created *loan.Loan
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 行锁加载图书(不存在或已删除返回NotFound)
		b, err := uc.bookRepo.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}

		// 2. 只有可借状态的图书接受借阅申请
		if b.Status != book.StatusAvailable {
			return loan.ErrBookNotBorrowable
		}

		// 3. 创建待审批的借阅记录
		l := loan.NewLoan(bookID, userID)
		if err := uc.loanRepo.Create(txCtx, l); err != nil {
			return err
		}

		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.LoansRequestedTotal)

	if err := uc.events.Publish(event.LoanRequested, map[string]interface{}{
		"loan_id": created.ID,
		"book_id": created.BookID,
		"user_id": created.UserID,
	}); err != nil {
		log.Printf("发布借阅申请事件失败: loan_id=%d, err=%v", created.ID, err)
	}

	data := toLoanData(created)
	return &data, nil
}
