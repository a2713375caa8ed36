package dto

// BorrowBookRequest HTTP借阅申请请求
type BorrowBookRequest struct {
	BookID uint `json:"book_id" binding:"required" example:"1234567"`
}

// LoanResponse HTTP借阅记录响应
type LoanResponse struct {
	ID         uint   `json:"id" example:"1"`
	BookID     uint   `json:"book_id" example:"1234567"`
	UserID     uint   `json:"user_id" example:"2"`
	Status     string `json:"status" example:"PENDING"`
	Extended   bool   `json:"extended" example:"false"`
	DueAt      string `json:"due_at,omitempty" example:"2024-01-29 10:30:00"`
	ReturnedAt string `json:"returned_at,omitempty" example:""`
	CreatedAt  string `json:"created_at" example:"2024-01-15 10:30:00"`
}
