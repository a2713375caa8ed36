package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// GetBookUseCase 图书查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行查询(软删除的图书返回NotFound)
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookData, error) {
	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data := toBookData(b)
	return &data, nil
}
