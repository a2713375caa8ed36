package book

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/event"
)

// UpdateBookUseCase 图书更新用例
type UpdateBookUseCase struct {
	bookService book.Service
	events      event.Publisher
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, events event.Publisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		events:      events,
	}
}

// UpdateBookRequest 更新请求DTO
// 说明:无ISBN字段,编目后ISBN不可变更;Image为nil表示保留现有封面
type UpdateBookRequest struct {
	ID            uint   // 图书ID(来自URL路径)
	Name          string // 书名
	Publisher     string // 出版社
	Pages         int    // 页数
	SubcategoryID uint   // 子分类ID
	Image         []byte // 新封面字节,nil表示不替换
	ActorID       uint   // 操作者用户ID
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookData, error) {
	b, err := uc.bookService.Update(ctx, req.ID, book.UpdateBookInput{
		Name:          req.Name,
		Publisher:     req.Publisher,
		Pages:         req.Pages,
		SubcategoryID: req.SubcategoryID,
		Image:         req.Image,
	}, req.ActorID)
	if err != nil {
		return nil, err
	}

	if err := uc.events.Publish(event.BookUpdated, map[string]interface{}{
		"book_id": b.ID,
	}); err != nil {
		log.Printf("发布图书更新事件失败: book_id=%d, err=%v", b.ID, err)
	}

	data := toBookData(b)
	return &data, nil
}
