package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
// 说明:返回全部未删除图书(新→旧)及各馆藏状态统计,
// 供管理端总览页一次渲染
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksResponse 列表响应DTO
type ListBooksResponse struct {
	Books       []BookData `json:"books"`
	Available   int64      `json:"available"`   // 可借数量
	Unavailable int64      `json:"unavailable"` // 不可借数量
	Total       int64      `json:"total"`       // 未删除总数
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context) (*ListBooksResponse, error) {
	books, stats, err := uc.bookService.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]BookData, len(books))
	for i, b := range books {
		items[i] = toBookData(b)
	}

	return &ListBooksResponse{
		Books:       items,
		Available:   stats.Available,
		Unavailable: stats.Unavailable,
		Total:       stats.Total,
	}, nil
}
