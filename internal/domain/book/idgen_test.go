package book

import "testing"

// TestRandomIDAllocator_Range 编号必须落在七位数区间内
func TestRandomIDAllocator_Range(t *testing.T) {
	alloc := NewRandomIDAllocator()

	for i := 0; i < 1000; i++ {
		id, err := alloc.Allocate()
		if err != nil {
			t.Fatalf("编号生成失败: %v", err)
		}
		if id < idMin || id > idMax {
			t.Fatalf("编号%d超出区间[%d, %d]", id, idMin, idMax)
		}
	}
}

// TestRandomIDAllocator_Spread 连续生成不应退化为单一值
func TestRandomIDAllocator_Spread(t *testing.T) {
	alloc := NewRandomIDAllocator()

	seen := make(map[uint]struct{})
	for i := 0; i < 100; i++ {
		id, err := alloc.Allocate()
		if err != nil {
			t.Fatalf("编号生成失败: %v", err)
		}
		seen[id] = struct{}{}
	}

	// 区间有800万个号,100次抽取几乎不可能少于90个不同值
	if len(seen) < 90 {
		t.Errorf("随机性不足: 100次生成只得到%d个不同编号", len(seen))
	}
}
