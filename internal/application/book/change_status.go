package book

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/event"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// ChangeStatusUseCase 馆藏状态切换用例(上架/下架)
// 说明:重复设置同一状态是幂等成功,此时不发布事件
type ChangeStatusUseCase struct {
	bookService book.Service
	events      event.Publisher
}

// NewChangeStatusUseCase 创建状态切换用例
func NewChangeStatusUseCase(bookService book.Service, events event.Publisher) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		bookService: bookService,
		events:      events,
	}
}

// Execute 执行状态切换
func (uc *ChangeStatusUseCase) Execute(ctx context.Context, id uint, target book.Status, actorID uint) (*BookData, error) {
	var (
		b   *book.Book
		err error
	)
	switch target {
	case book.StatusAvailable:
		b, err = uc.bookService.SetAvailable(ctx, id, actorID)
	case book.StatusUnavailable:
		b, err = uc.bookService.SetUnavailable(ctx, id, actorID)
	default:
		return nil, apperrors.ErrInvalidParams
	}
	if err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.BookStatusChangesTotal,
		map[string]string{"target": string(target)})

	if err := uc.events.Publish(event.BookStatusChanged, map[string]interface{}{
		"book_id": b.ID,
		"status":  string(b.Status),
	}); err != nil {
		log.Printf("发布状态切换事件失败: book_id=%d, err=%v", b.ID, err)
	}

	data := toBookData(b)
	return &data, nil
}
