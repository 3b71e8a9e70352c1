package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 用户名、邮箱均全局唯一（数据库UNIQUE索引保证）
// 2. PasswordHash是bcrypt哈希值，任何响应DTO都不包含此字段
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository负责映射）
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户（工厂方法）
// passwordHash必须是bcrypt加密后的密码
func NewUser(username, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ChangeProfile 修改用户名/邮箱（nil表示不修改）
func (u *User) ChangeProfile(username, email *string) {
	if username != nil {
		u.Username = *username
	}
	if email != nil {
		u.Email = *email
	}
	u.UpdatedAt = time.Now()
}

// ChangePasswordHash 替换密码哈希
func (u *User) ChangePasswordHash(hash string) {
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
}
