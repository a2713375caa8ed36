package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	users  map[uint]*User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*User, error) {
	list := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		list = append(list, &cp)
	}
	return list, nil
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("新用户默认为启用的普通读者", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())

		u, err := svc.Register(ctx, "reader@example.com", "passw0rd123", "张三")
		require.NoError(t, err)

		assert.Equal(t, RoleMember, u.RoleID)
		assert.True(t, u.Active)
		assert.NotEqual(t, "passw0rd123", u.Password, "密码必须加密存储")
		assert.NoError(t, svc.ValidatePassword(u.Password, "passw0rd123"))
	})

	t.Run("密码强度校验", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())

		cases := []struct {
			name     string
			password string
		}{
			{"长度不足8位", "a1b2c3"},
			{"长度超过20位", "a1b2c3d4e5f6g7h8i9j0k"},
			{"纯字母", "abcdefgh"},
			{"纯数字", "12345678"},
		}
		for _, c := range cases {
			_, err := svc.Register(ctx, "reader@example.com", c.password, "张三")
			assert.ErrorIs(t, err, apperrors.ErrWeakPassword, c.name)
		}
	})

	t.Run("邮箱格式与重复校验", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())

		_, err := svc.Register(ctx, "not-an-email", "passw0rd123", "张三")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)

		_, err = svc.Register(ctx, "reader@example.com", "passw0rd123", "张三")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "reader@example.com", "passw0rd456", "李四")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc Service) *User {
		u, err := svc.Register(ctx, "reader@example.com", "passw0rd123", "张三")
		require.NoError(t, err)
		return u
	}

	t.Run("正确的邮箱密码登录成功", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())
		register(t, svc)

		u, err := svc.Login(ctx, "reader@example.com", "passw0rd123")
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", u.Email)
	})

	t.Run("密码错误返回InvalidPassword", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())
		register(t, svc)

		_, err := svc.Login(ctx, "reader@example.com", "wrongpass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("邮箱不存在返回UserNotFound", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())
		_, err := svc.Login(ctx, "nobody@example.com", "passw0rd123")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("停用账号拒绝登录", func(t *testing.T) {
		svc := NewService(newFakeUserRepo())
		u := register(t, svc)

		_, err := svc.SetActive(ctx, u.ID, false)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "reader@example.com", "passw0rd123")
		assert.ErrorIs(t, err, ErrUserDisabled)
	})
}

func TestService_SetActive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo())
	u, err := svc.Register(ctx, "reader@example.com", "passw0rd123", "张三")
	require.NoError(t, err)

	t.Run("停用后可重新启用", func(t *testing.T) {
		disabled, err := svc.SetActive(ctx, u.ID, false)
		require.NoError(t, err)
		assert.False(t, disabled.Active)

		enabled, err := svc.SetActive(ctx, u.ID, true)
		require.NoError(t, err)
		assert.True(t, enabled.Active)
	})

	t.Run("重复设置同一状态是幂等成功", func(t *testing.T) {
		first, err := svc.SetActive(ctx, u.ID, true)
		require.NoError(t, err)
		again, err := svc.SetActive(ctx, u.ID, true)
		require.NoError(t, err)
		assert.Equal(t, first.Active, again.Active)
	})

	t.Run("用户不存在返回NotFound", func(t *testing.T) {
		_, err := svc.SetActive(ctx, 999, false)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
