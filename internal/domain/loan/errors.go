package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLoanNotFound 借阅记录不存在
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")

	// ErrBookNotBorrowable 图书当前不可借(不在AVAILABLE状态)
	ErrBookNotBorrowable = apperrors.New(apperrors.ErrCodeLoanNotBorrowable, "图书当前不可借")

	// ErrLoanNotPending 借阅不在待审批状态,无法批准/驳回
	ErrLoanNotPending = apperrors.New(apperrors.ErrCodeLoanStateInvalid, "借阅不在待审批状态")

	// ErrLoanNotExtendable 借阅不在借出状态,无法续借
	ErrLoanNotExtendable = apperrors.New(apperrors.ErrCodeLoanStateInvalid, "借阅不在借出状态，无法续借")

	// ErrLoanAlreadyExtended 每笔借阅最多续借一次
	ErrLoanAlreadyExtended = apperrors.New(apperrors.ErrCodeLoanStateInvalid, "该借阅已续借过一次")

	// ErrLoanNotReturnable 借阅不在借出状态,无法归还
	ErrLoanNotReturnable = apperrors.New(apperrors.ErrCodeLoanStateInvalid, "借阅不在借出状态，无法归还")
)
