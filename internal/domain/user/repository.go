package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/database
// 3. 数据库错误由实现方转换为业务错误（apperrors）
type Repository interface {
	// Create 创建用户
	// 用户名或邮箱已存在时返回ErrDuplicateUser
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户，不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByIdentifier 按用户名或邮箱查找（登录使用），不存在返回ErrUserNotFound
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)

	// ExistsByUsernameOrEmail 用户名或邮箱是否已被其他用户占用
	// excludeID为0表示不排除任何用户
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID uint) (bool, error)

	// Update 更新用户（含密码哈希）
	// 不存在返回ErrUserNotFound，唯一性冲突返回ErrDuplicateUser
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（物理删除）
	// 不存在返回ErrUserNotFound，仍有图书时返回ErrUserHasBooks
	Delete(ctx context.Context, id uint) error

	// List 分页查询用户，按ID升序
	List(ctx context.Context, page, limit int) ([]*User, int64, error)
}
