package book

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// 编号分配参数
// 说明:沿用馆藏编号的7位数字区间,区间宽度足以让碰撞罕见,
// 但不保证无碰撞,唯一性检查由领域服务在事务内完成
const (
	idMin = 1_000_001 // 编号下界(含)
	idMax = 9_000_001 // 编号上界(含)

	// maxAllocateRetries 撞号时的重试上限,超过视为致命错误
	maxAllocateRetries = 5
)

// IDAllocator 图书编号分配器接口
// 设计说明:
// 1. Allocate是纯生成,不做唯一性检查(无副作用)
// 2. 调用方(领域服务)负责对已有记录查重,撞号则重新分配
type IDAllocator interface {
	Allocate() (uint, error)
}

// randAllocator 基于crypto/rand的编号分配器
type randAllocator struct{}

// NewRandomIDAllocator 创建随机编号分配器
func NewRandomIDAllocator() IDAllocator {
	return randAllocator{}
}

// Allocate 在[idMin, idMax]区间内抽取一个随机编号
func (randAllocator) Allocate() (uint, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("读取随机源失败: %w", err)
	}
	span := uint64(idMax - idMin + 1)
	n := binary.BigEndian.Uint64(buf[:]) % span
	return uint(idMin + n), nil
}
