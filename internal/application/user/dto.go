package user

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// UserInfo 用户信息（不含密码哈希）
type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserInfo 领域实体 → 应用层DTO
func NewUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
}

// UpdateUserRequest 更新用户请求，nil表示不修改
type UpdateUserRequest struct {
	Username *string
	Email    *string
	Password *string
}

// ListUsersResponse 用户列表
type ListUsersResponse struct {
	List  []*UserInfo
	Total int64
	Page  int
	Limit int
}
