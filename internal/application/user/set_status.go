package user

import (
	"context"
	"log"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
)

// SetUserStatusUseCase 账号启用/停用用例(管理员操作)
// 说明:停用账号时顺带删除Redis会话,已登录的停用用户被强制下线
type SetUserStatusUseCase struct {
	userService  user.Service
	sessionStore *redis.SessionStore
}

// NewSetUserStatusUseCase 创建账号状态用例
func NewSetUserStatusUseCase(userService user.Service, sessionStore *redis.SessionStore) *SetUserStatusUseCase {
	return &SetUserStatusUseCase{
		userService:  userService,
		sessionStore: sessionStore,
	}
}

// Execute 执行启用/停用
func (uc *SetUserStatusUseCase) Execute(ctx context.Context, userID uint, active bool) (*UserInfo, error) {
	u, err := uc.userService.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}

	if !active {
		if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
			// 会话删除失败不阻断停用操作,Token过期后自然失效
			log.Printf("删除停用用户会话失败: user_id=%d, err=%v", userID, err)
		}
	}

	return &UserInfo{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		RoleID: u.RoleID,
	}, nil
}

// ListUsersUseCase 用户列表用例(管理员)
type ListUsersUseCase struct {
	userService user.Service
}

// NewListUsersUseCase 创建用户列表用例
func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

// UserItem 用户列表项
type UserItem struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	RoleID uint   `json:"role_id"`
	Active bool   `json:"active"`
}

// Execute 查询全部用户
func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]UserItem, error) {
	users, err := uc.userService.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]UserItem, len(users))
	for i, u := range users {
		items[i] = UserItem{
			ID:     u.ID,
			Email:  u.Email,
			Name:   u.Name,
			RoleID: u.RoleID,
			Active: u.Active,
		}
	}
	return items, nil
}
