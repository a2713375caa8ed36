package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

// 事件代理发布使用的熔断配置(与生产参数一致的缩影)
func brokerConfig() Config {
	return Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// TestCircuitBreaker_ClosedState 测试关闭状态（正常发布）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("event-broker", brokerConfig())

	for i := 0; i < 10; i++ {
		err := cb.Execute(func() error {
			return nil // 模拟发布成功
		})
		if err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}

	counts := cb.Counts()
	if counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 测试打开状态（代理不可达触发熔断）
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := NewCircuitBreaker("event-broker", brokerConfig())

	// 连续失败5次触发熔断
	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error {
			return errors.New("broker unreachable")
		})
	}

	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN，实际%s", cb.State())
	}

	// 熔断后快速失败,不再触碰代理
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	if err != ErrOpenState {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenRecovery 测试半开态探测恢复
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cfg := brokerConfig()
	cfg.Timeout = 50 * time.Millisecond // 缩短冷却时间便于测试

	cb := NewCircuitBreaker("event-broker", cfg)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error {
			return errors.New("broker unreachable")
		})
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 冷却期过后进入半开,放行探测请求
	time.Sleep(60 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("半开态探测请求%d应该放行: %v", i, err)
		}
	}

	// 连续探测成功后恢复关闭
	if cb.State() != StateClosed {
		t.Errorf("期望恢复为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenFailureReopens 半开态探测失败立即回到打开
func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cfg := brokerConfig()
	cfg.Timeout = 50 * time.Millisecond

	cb := NewCircuitBreaker("event-broker", cfg)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error {
			return errors.New("broker unreachable")
		})
	}

	time.Sleep(60 * time.Millisecond)

	_ = cb.Execute(func() error {
		return errors.New("still down")
	})

	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望回到OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 状态迁移回调(用于打点与日志)
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker("event-broker", brokerConfig())

	transitions := make([]string, 0)
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error {
			return errors.New("broker unreachable")
		})
	}

	if len(transitions) == 0 {
		t.Fatal("熔断时应该触发状态迁移回调")
	}
	if transitions[0] != "CLOSED->OPEN" {
		t.Errorf("期望首次迁移为CLOSED->OPEN，实际%s", transitions[0])
	}
}

// TestCounts_FailureRate 失败率统计
func TestCounts_FailureRate(t *testing.T) {
	var c Counts
	if c.FailureRate() != 0 {
		t.Errorf("空计数失败率应为0，实际%f", c.FailureRate())
	}

	c.onSuccess()
	c.onSuccess()
	c.onFailure()
	c.onFailure()

	if got := c.FailureRate(); got != 0.5 {
		t.Errorf("期望失败率0.5，实际%f", got)
	}
}
