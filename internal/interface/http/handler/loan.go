package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借阅HTTP处理器
type LoanHandler struct {
	borrowBookUseCase *apploan.BorrowBookUseCase
	reviewLoanUseCase *apploan.ReviewLoanUseCase
	extendLoanUseCase *apploan.ExtendLoanUseCase
	returnBookUseCase *apploan.ReturnBookUseCase
	listLoansUseCase  *apploan.ListLoansUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	borrowBookUseCase *apploan.BorrowBookUseCase,
	reviewLoanUseCase *apploan.ReviewLoanUseCase,
	extendLoanUseCase *apploan.ExtendLoanUseCase,
	returnBookUseCase *apploan.ReturnBookUseCase,
	listLoansUseCase *apploan.ListLoansUseCase,
) *LoanHandler {
	return &LoanHandler{
		borrowBookUseCase: borrowBookUseCase,
		reviewLoanUseCase: reviewLoanUseCase,
		extendLoanUseCase: extendLoanUseCase,
		returnBookUseCase: returnBookUseCase,
		listLoansUseCase:  listLoansUseCase,
	}
}

// BorrowBook 借阅申请
// @Summary      借阅申请
// @Description  对可借状态的图书发起借阅申请,进入待审批队列
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BorrowBookRequest true "借阅申请"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      400 {object} response.Response "图书当前不可借"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/loans [post]
func (h *LoanHandler) BorrowBook(c *gin.Context) {
	var req dto.BorrowBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.borrowBookUseCase.Execute(c.Request.Context(), req.BookID, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponse(result))
}

// ApproveLoan 批准借阅
// @Summary      批准借阅
// @Description  管理员批准待审批的借阅申请,设置应还时间(14天后)
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      400 {object} response.Response "借阅状态不允许审批"
// @Router       /api/v1/loans/{id}/approve [post]
func (h *LoanHandler) ApproveLoan(c *gin.Context) {
	id, ok := parseLoanID(c)
	if !ok {
		return
	}

	result, err := h.reviewLoanUseCase.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponse(result))
}

// RejectLoan 驳回借阅
// @Summary      驳回借阅
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      400 {object} response.Response "借阅状态不允许审批"
// @Router       /api/v1/loans/{id}/reject [post]
func (h *LoanHandler) RejectLoan(c *gin.Context) {
	id, ok := parseLoanID(c)
	if !ok {
		return
	}

	result, err := h.reviewLoanUseCase.Reject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponse(result))
}

// ExtendLoan 续借
// @Summary      续借
// @Description  借阅人本人续借,应还时间顺延7天,每笔借阅限一次
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      400 {object} response.Response "借阅状态不允许续借/已续借过"
// @Failure      403 {object} response.Response "非本人借阅"
// @Router       /api/v1/loans/{id}/extend [post]
func (h *LoanHandler) ExtendLoan(c *gin.Context) {
	id, ok := parseLoanID(c)
	if !ok {
		return
	}

	result, err := h.extendLoanUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponse(result))
}

// ReturnBook 归还
// @Summary      归还
// @Description  管理员在还书台确认归还,归还后借阅不再占用图书
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      400 {object} response.Response "借阅状态不允许归还"
// @Router       /api/v1/loans/{id}/return [post]
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	id, ok := parseLoanID(c)
	if !ok {
		return
	}

	result, err := h.returnBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponse(result))
}

// MyLoans 我的借阅
// @Summary      我的借阅
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.LoanResponse}
// @Router       /api/v1/loans/mine [get]
func (h *LoanHandler) MyLoans(c *gin.Context) {
	result, err := h.listLoansUseCase.ListByUser(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponseList(result))
}

// PendingLoans 待审批队列
// @Summary      待审批借阅列表
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.LoanResponse}
// @Router       /api/v1/loans/pending [get]
func (h *LoanHandler) PendingLoans(c *gin.Context) {
	result, err := h.listLoansUseCase.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponseList(result))
}

// parseLoanID 解析路径参数中的借阅记录ID,失败时已写入响应
func parseLoanID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的借阅记录ID")
		return 0, false
	}
	return uint(id), true
}

func toLoanResponse(l *apploan.LoanData) *dto.LoanResponse {
	return &dto.LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		Status:     l.Status,
		Extended:   l.Extended,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
		CreatedAt:  l.CreatedAt,
	}
}

func toLoanResponseList(loans []apploan.LoanData) []dto.LoanResponse {
	items := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		items[i] = *toLoanResponse(&loans[i])
	}
	return items
}
