package book

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// DeleteBookUseCase 图书删除用例
// 说明:删除守卫(有效借阅、可借状态)在领域服务内按固定顺序评估,
// 这里负责追踪、指标与删除事件
type DeleteBookUseCase struct {
	bookService book.Service
	events      event.Publisher
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, events event.Publisher) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		events:      events,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint, actorID uint) error {
	ctx, span := tracing.StartSpan(ctx, "library", "DeleteBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", int64(id)))

	if err := uc.bookService.Delete(ctx, id, actorID); err != nil {
		span.RecordError(err)
		return err
	}

	metrics.IncCounter(metrics.BooksDeletedTotal)

	if err := uc.events.Publish(event.BookDeleted, map[string]interface{}{
		"book_id": id,
	}); err != nil {
		log.Printf("发布图书删除事件失败: book_id=%d, err=%v", id, err)
	}

	return nil
}
