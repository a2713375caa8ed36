package book

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/pkg/metrics"
)

// CreateBookUseCase 图书编目用例
// 设计说明:
// 1. 应用层负责用例编排:调用领域服务,再处理事件发布与指标
// 2. 编号分配、ISBN查重、封面写入等规则全部在领域服务内完成
// 3. 事件发布在事务提交之后,失败只记日志,不回滚编目结果
type CreateBookUseCase struct {
	bookService book.Service
	events      event.Publisher
}

// NewCreateBookUseCase 创建编目用例
func NewCreateBookUseCase(bookService book.Service, events event.Publisher) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		events:      events,
	}
}

// CreateBookRequest 编目请求DTO
type CreateBookRequest struct {
	Name          string // 书名
	Publisher     string // 出版社
	ISBN          string // ISBN号
	Pages         int    // 页数
	SubcategoryID uint   // 子分类ID(父分类由此派生,不接受直接指定)
	Image         []byte // 封面字节,可为nil
	ActorID       uint   // 操作者用户ID(从认证中间件获取)
}

// Execute 执行编目
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookData, error) {
	b, err := uc.bookService.Create(ctx, book.CreateBookInput{
		Name:          req.Name,
		Publisher:     req.Publisher,
		ISBN:          req.ISBN,
		Pages:         req.Pages,
		SubcategoryID: req.SubcategoryID,
		Image:         req.Image,
	}, req.ActorID)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)

	if err := uc.events.Publish(event.BookCreated, map[string]interface{}{
		"book_id": b.ID,
		"isbn":    b.ISBN,
	}); err != nil {
		log.Printf("发布图书创建事件失败: book_id=%d, err=%v", b.ID, err)
	}

	data := toBookData(b)
	return &data, nil
}
