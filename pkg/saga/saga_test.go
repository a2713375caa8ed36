package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	sg.AddStep("删除旧封面",
		func(ctx context.Context) error {
			executed = append(executed, "删除旧封面")
			return nil
		},
		nil, // 旧封面无法恢复
	)

	sg.AddStep("写入新封面",
		func(ctx context.Context) error {
			executed = append(executed, "写入新封面")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回收新封面")
			return nil
		},
	)

	sg.AddStep("保存记录",
		func(ctx context.Context) error {
			executed = append(executed, "保存记录")
			return nil
		},
		nil,
	)

	if err := sg.Execute(context.Background()); err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	expected := []string{"删除旧封面", "写入新封面", "保存记录"}
	if len(executed) != len(expected) {
		t.Fatalf("期望执行%d个步骤，实际%d个: %v", len(expected), len(executed), executed)
	}
	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	sg.AddStep("删除旧封面",
		func(ctx context.Context) error {
			executed = append(executed, "删除旧封面")
			return nil
		},
		nil,
	)

	sg.AddStep("写入新封面",
		func(ctx context.Context) error {
			executed = append(executed, "写入新封面")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回收新封面")
			return nil
		},
	)

	sg.AddStep("保存记录",
		func(ctx context.Context) error {
			executed = append(executed, "保存记录")
			return errors.New("数据库写入失败") // 模拟落库失败
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该失败但返回成功")
	}

	// 期望：正向3步 + 已执行步骤的补偿(逆序,nil补偿跳过)
	expected := []string{"删除旧封面", "写入新封面", "保存记录", "回收新封面"}
	if len(executed) != len(expected) {
		t.Fatalf("期望执行%d个步骤，实际%d个: %v", len(expected), len(executed), executed)
	}
	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_Timeout 测试超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(100 * time.Millisecond)

	sg.AddStep("快速步骤",
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤补偿")
			return nil
		},
	)

	sg.AddStep("慢速步骤",
		func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				executed = append(executed, "慢速步骤")
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		func(ctx context.Context) error {
			executed = append(executed, "慢速步骤补偿")
			return nil
		},
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该超时但返回成功")
	}

	if len(executed) < 2 {
		t.Errorf("超时后应该触发补偿，实际执行: %v", executed)
	}
	if executed[len(executed)-1] != "快速步骤补偿" {
		t.Errorf("期望最后一步是补偿，实际: %v", executed)
	}
}

// TestSaga_CompensateIdempotency 补偿幂等性
// 封面删除以"文件不存在视为成功"实现幂等,这里验证Saga层重复补偿不会累积副作用
func TestSaga_CompensateIdempotency(t *testing.T) {
	compensateLog := make(map[string]bool)

	idempotentCompensate := func(ref string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			key := "compensate-cover-" + ref
			if compensateLog[key] {
				return nil
			}
			compensateLog[key] = true
			return nil
		}
	}

	sg := NewSaga(5 * time.Second)
	sg.AddStep("写入新封面",
		func(ctx context.Context) error { return nil },
		idempotentCompensate("IMAGES/BOOKS/1234567"),
	)

	sg.executed = sg.steps
	sg.compensate(context.Background())
	if len(compensateLog) != 1 {
		t.Errorf("期望记录1条补偿日志，实际%d条", len(compensateLog))
	}

	// 模拟重试
	sg.executed = sg.steps
	sg.compensate(context.Background())
	if len(compensateLog) != 1 {
		t.Errorf("幂等性失败：期望记录1条日志，实际%d条", len(compensateLog))
	}
}

// BenchmarkSaga_Execute 性能基准测试
func BenchmarkSaga_Execute(b *testing.B) {
	sg := NewSaga(5 * time.Second)

	sg.AddStep("步骤1", func(ctx context.Context) error { return nil }, nil)
	sg.AddStep("步骤2", func(ctx context.Context) error { return nil }, nil)
	sg.AddStep("步骤3", func(ctx context.Context) error { return nil }, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sg.Execute(context.Background())
		sg.executed = nil
	}
}
