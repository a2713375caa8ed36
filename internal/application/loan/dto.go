package loan

import (
	"github.com/xiebiao/library/internal/domain/loan"
)

// LoanData 借阅记录DTO
type LoanData struct {
	ID         uint   `json:"id"`
	BookID     uint   `json:"book_id"`
	UserID     uint   `json:"user_id"`
	Status     string `json:"status"`
	Extended   bool   `json:"extended"`
	DueAt      string `json:"due_at,omitempty"`
	ReturnedAt string `json:"returned_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// toLoanData 领域实体 → DTO
func toLoanData(l *loan.Loan) LoanData {
	data := LoanData{
		ID:        l.ID,
		BookID:    l.BookID,
		UserID:    l.UserID,
		Status:    string(l.Status),
		Extended:  l.Extended,
		CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if l.DueAt != nil {
		data.DueAt = l.DueAt.Format("2006-01-02 15:04:05")
	}
	if l.ReturnedAt != nil {
		data.ReturnedAt = l.ReturnedAt.Format("2006-01-02 15:04:05")
	}
	return data
}

// toLoanDataList 批量转换
func toLoanDataList(loans []*loan.Loan) []LoanData {
	items := make([]LoanData, len(loans))
	for i, l := range loans {
		items[i] = toLoanData(l)
	}
	return items
}
