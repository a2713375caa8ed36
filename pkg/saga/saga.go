// Package saga 实现通用的Saga补偿事务框架
//
// 核心思想：
// 1. 将跨越多个资源的操作拆分为有序步骤
// 2. 每个步骤有对应的补偿操作
// 3. 如果某步失败，按逆序执行已完成步骤的补偿操作
//
// 典型场景：封面替换（删旧文件→写新文件→更新记录），
// 文件系统不参与数据库事务，落库失败时靠补偿回收新文件
package saga

import (
	"context"
	"fmt"
	"time"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如写入新封面）
// 2. Compensate是补偿操作（如删除新封面），可以为nil
// 3. 每个操作都必须支持幂等（允许重试）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建一个新的Saga事务
//
// 参数：
//
//	timeout: 整体超时时间，防止长时间阻塞
//
// 示例：
//
//	sg := saga.NewSaga(10 * time.Second)
//	sg.AddStep("写入新封面", storeImage, deleteImage)
//	sg.AddStep("保存记录", persistBook, nil)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个Saga步骤
//
// 设计原则：
// 1. 步骤顺序很重要（按添加顺序执行，按逆序补偿）
// 2. Action和Compensate都可以为nil（如无法撤销的步骤无补偿）
// 3. 补偿操作必须完全独立，只依赖自己步骤的Action结果
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败，逆序执行已完成步骤的Compensate
// 3. 返回首个失败步骤的错误
//
// 注意事项：
// 1. 补偿操作可能失败（需要人工介入或离线清扫兜底）
// 2. Saga保证最终一致性，补偿期间数据可能处于中间状态
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时，触发补偿（使用新Context，避免补偿也被超时打断）
			s.compensate(context.Background())
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
//
// 即使某个Compensate失败也继续执行后续补偿（尽最大努力），
// 失败的补偿打印日志，残留资产由离线清扫任务回收
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				fmt.Printf("补偿失败[步骤:%s]: %v\n", step.Name, err)
			}
		}
	}

	s.executed = nil
}
