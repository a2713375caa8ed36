package loan

import (
	"time"
)

// Status 借阅状态
//
// 状态机：
//
//	PENDING ──批准──> APPROVED ──归还──> RETURNED
//	   │                 │
//	   └──驳回──> REJECTED└──续借──> APPROVED(extended=true)
type Status string

const (
	StatusPending  Status = "PENDING"  // 待审批
	StatusApproved Status = "APPROVED" // 已批准(借出中)
	StatusRejected Status = "REJECTED" // 已驳回
	StatusReturned Status = "RETURNED" // 已归还
)

// 借阅期限参数
const (
	// BorrowDuration 批准后的初始借期
	BorrowDuration = 14 * 24 * time.Hour

	// ExtendDuration 续借延长时长
	ExtendDuration = 7 * 24 * time.Hour
)

// Loan 借阅记录实体(聚合根)
// 设计说明:
// 1. "有效借阅"定义为 已批准(或续借中)且未归还,是图书删除守卫的判断依据
// 2. Extended标记只允许置位一次,每笔借阅最多续借一次
type Loan struct {
	ID         uint
	BookID     uint       // 借阅图书ID
	UserID     uint       // 借阅人用户ID
	Status     Status     // 借阅状态
	Extended   bool       // 是否已续借
	DueAt      *time.Time // 应还时间(批准后设置)
	ReturnedAt *time.Time // 实际归还时间
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLoan 创建借阅申请(初始为待审批)
func NewLoan(bookID, userID uint) *Loan {
	now := time.Now()
	return &Loan{
		BookID:    bookID,
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive 判断是否为有效借阅(占用图书,阻止图书删除)
func (l *Loan) IsActive() bool {
	return (l.Status == StatusApproved || l.Extended) && l.ReturnedAt == nil
}

// Approve 批准借阅(领域行为)
// 业务规则:仅待审批状态可批准,批准时设置应还时间
func (l *Loan) Approve() error {
	if l.Status != StatusPending {
		return ErrLoanNotPending
	}
	due := time.Now().Add(BorrowDuration)
	l.Status = StatusApproved
	l.DueAt = &due
	l.UpdatedAt = time.Now()
	return nil
}

// Reject 驳回借阅(领域行为)
func (l *Loan) Reject() error {
	if l.Status != StatusPending {
		return ErrLoanNotPending
	}
	l.Status = StatusRejected
	l.UpdatedAt = time.Now()
	return nil
}

// Extend 续借(领域行为)
// 业务规则:仅借出中且未续借过的记录可续借,应还时间顺延
func (l *Loan) Extend() error {
	if l.Status != StatusApproved || l.ReturnedAt != nil {
		return ErrLoanNotExtendable
	}
	if l.Extended {
		return ErrLoanAlreadyExtended
	}
	due := l.DueAt.Add(ExtendDuration)
	l.Extended = true
	l.DueAt = &due
	l.UpdatedAt = time.Now()
	return nil
}

// Return 归还(领域行为)
// 业务规则:仅借出中的记录可归还,归还后借阅不再占用图书
func (l *Loan) Return() error {
	if l.Status != StatusApproved || l.ReturnedAt != nil {
		return ErrLoanNotReturnable
	}
	now := time.Now()
	l.Status = StatusReturned
	l.ReturnedAt = &now
	l.UpdatedAt = now
	return nil
}
