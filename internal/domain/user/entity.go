package user

import (
	"time"
)

// 角色定义
/// 说明:角色只有两档,管理员负责馆藏维护与借阅审批,普通读者只能借阅
const (
	RoleAdmin  uint = 1 // 管理员
	RoleMember uint = 2 // 普通读者
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，包含用户的核心属性
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 4. Active为false的账号禁止登录(管理员停用)
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	RoleID    uint // 角色:RoleAdmin/RoleMember
	Active    bool // 账号是否启用
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码;新注册用户默认为启用的普通读者
func NewUser(email, hashedPassword, name string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		RoleID:    RoleMember,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 判断是否为管理员
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

// SetActive 启用/停用账号(领域行为)
// 返回值表示状态是否实际发生变化(重复设置是幂等的no-op)
func (u *User) SetActive(active bool) bool {
	if u.Active == active {
		return false
	}
	u.Active = active
	u.UpdatedAt = time.Now()
	return true
}
