// Package event 提供领域事件发布能力
//
// 设计说明:
// 1. 事件发布是尽力而为的旁路通道:主流程(事务)成功后才发布,
//    发布失败只记日志,不回滚业务操作
// 2. RabbitMQ调用包在熔断器里,消息代理故障时快速失败,
//    不让逐次连接超时拖慢HTTP请求
// 3. MQ未启用时使用NopPublisher,本地开发无需RabbitMQ
package event

import (
	"log"
	"time"

	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

// 领域事件路由键
const (
	BookCreated       = "library.book.created"
	BookUpdated       = "library.book.updated"
	BookDeleted       = "library.book.deleted"
	BookStatusChanged = "library.book.status_changed"

	LoanRequested = "library.loan.requested"
	LoanApproved  = "library.loan.approved"
	LoanRejected  = "library.loan.rejected"
	LoanExtended  = "library.loan.extended"
	LoanReturned  = "library.loan.returned"
)

// Publisher 事件发布接口(application层依赖此接口)
type Publisher interface {
	Publish(routingKey string, message interface{}) error
	Close() error
}

// brokerPublisher 基于RabbitMQ的事件发布者,带熔断保护
type brokerPublisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	exchange  string
}

// NewPublisher 创建事件发布者
//
// 参数:
//
//	url: RabbitMQ连接URL
//	exchange: 事件交换机名称(Topic类型)
func NewPublisher(url, exchange string) (Publisher, error) {
	p, err := mq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, err
	}

	cb := circuitbreaker.NewCircuitBreaker("event-broker", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器状态变化: name=%s, %s -> %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	return &brokerPublisher{
		publisher: p,
		breaker:   cb,
		exchange:  exchange,
	}, nil
}

// Publish 发布事件(经熔断器)
func (b *brokerPublisher) Publish(routingKey string, message interface{}) error {
	err := b.breaker.Execute(func() error {
		return b.publisher.Publish(routingKey, message)
	})

	result := "success"
	if err != nil {
		result = "failure"
		if err == circuitbreaker.ErrOpenState {
			result = "rejected"
		}
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests,
		map[string]string{"name": "event-broker", "result": result})
	if err == nil {
		metrics.IncCounterVec(metrics.MessagesPublishedTotal,
			map[string]string{"exchange": b.exchange, "routing_key": routingKey})
	}

	return err
}

// Close 关闭底层连接
func (b *brokerPublisher) Close() error {
	return b.publisher.Close()
}

// NopPublisher 空实现,MQ未启用时使用
type NopPublisher struct{}

// Publish 直接返回成功
func (NopPublisher) Publish(routingKey string, message interface{}) error { return nil }

// Close 无操作
func (NopPublisher) Close() error { return nil }
