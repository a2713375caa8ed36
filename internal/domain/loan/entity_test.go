package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoan_Approve(t *testing.T) {
	t.Run("待审批的借阅可批准并设置应还时间", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())

		assert.Equal(t, StatusApproved, l.Status)
		require.NotNil(t, l.DueAt)
		expected := time.Now().Add(BorrowDuration)
		assert.WithinDuration(t, expected, *l.DueAt, time.Minute, "借期14天")
	})

	t.Run("非待审批状态不可批准", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Reject())

		assert.ErrorIs(t, l.Approve(), ErrLoanNotPending)
	})
}

func TestLoan_Reject(t *testing.T) {
	l := NewLoan(1234567, 2)
	require.NoError(t, l.Reject())
	assert.Equal(t, StatusRejected, l.Status)
	assert.Nil(t, l.DueAt, "驳回不设置应还时间")

	assert.ErrorIs(t, l.Reject(), ErrLoanNotPending, "重复驳回被拒绝")
}

func TestLoan_Extend(t *testing.T) {
	t.Run("借出中的记录续借顺延7天", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		originalDue := *l.DueAt

		require.NoError(t, l.Extend())
		assert.True(t, l.Extended)
		assert.Equal(t, originalDue.Add(ExtendDuration), *l.DueAt)
	})

	t.Run("每笔借阅最多续借一次", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		require.NoError(t, l.Extend())

		assert.ErrorIs(t, l.Extend(), ErrLoanAlreadyExtended)
	})

	t.Run("待审批的借阅不可续借", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		assert.ErrorIs(t, l.Extend(), ErrLoanNotExtendable)
	})

	t.Run("已归还的借阅不可续借", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		require.NoError(t, l.Return())

		assert.ErrorIs(t, l.Extend(), ErrLoanNotExtendable)
	})
}

func TestLoan_Return(t *testing.T) {
	t.Run("借出中的记录可归还", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		require.NoError(t, l.Return())

		assert.Equal(t, StatusReturned, l.Status)
		assert.NotNil(t, l.ReturnedAt)
	})

	t.Run("待审批或已归还的记录不可归还", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		assert.ErrorIs(t, l.Return(), ErrLoanNotReturnable)

		require.NoError(t, l.Approve())
		require.NoError(t, l.Return())
		assert.ErrorIs(t, l.Return(), ErrLoanNotReturnable, "重复归还被拒绝")
	})
}

// TestLoan_IsActive 有效借阅的判定(图书删除守卫依赖此定义)
func TestLoan_IsActive(t *testing.T) {
	t.Run("待审批不占用图书", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		assert.False(t, l.IsActive())
	})

	t.Run("已批准未归还占用图书", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		assert.True(t, l.IsActive())
	})

	t.Run("续借中占用图书", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		require.NoError(t, l.Extend())
		assert.True(t, l.IsActive())
	})

	t.Run("已归还不再占用图书", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Approve())
		require.NoError(t, l.Extend())
		require.NoError(t, l.Return())
		assert.False(t, l.IsActive(), "续借过的记录归还后同样解除占用")
	})

	t.Run("已驳回不占用图书", func(t *testing.T) {
		l := NewLoan(1234567, 2)
		require.NoError(t, l.Reject())
		assert.False(t, l.IsActive())
	})
}
