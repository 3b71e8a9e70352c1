package user

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// UpdateUserUseCase 更新用户（用户名、邮箱、密码均可选）
type UpdateUserUseCase struct {
	userService user.Service
	userRepo    user.Repository
}

// NewUpdateUserUseCase 创建用例
func NewUpdateUserUseCase(userService user.Service, userRepo user.Repository) *UpdateUserUseCase {
	return &UpdateUserUseCase{userService: userService, userRepo: userRepo}
}

// Execute 执行更新
// 业务规则：
// 1. 用户不存在返回ErrUserNotFound
// 2. 用户名或邮箱被其他用户占用返回ErrDuplicateUser
// 3. 提供密码时重新计算bcrypt哈希
func (uc *UpdateUserUseCase) Execute(ctx context.Context, id uint, req UpdateUserRequest) (*UserInfo, error) {
	if req.Username == nil && req.Email == nil && req.Password == nil {
		return nil, user.ErrEmptyProfile
	}

	u, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil || req.Email != nil {
		if err := uc.userService.ChangeProfile(ctx, u, req.Username, req.Email); err != nil {
			return nil, err
		}
	}

	if req.Password != nil {
		hash, err := uc.userService.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.ChangePasswordHash(hash)
	}

	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return NewUserInfo(u), nil
}

// DeleteUserUseCase 删除用户（物理删除）
type DeleteUserUseCase struct {
	userRepo user.Repository
}

// NewDeleteUserUseCase 创建用例
func NewDeleteUserUseCase(userRepo user.Repository) *DeleteUserUseCase {
	return &DeleteUserUseCase{userRepo: userRepo}
}

// Execute 不存在返回ErrUserNotFound，仍有图书返回ErrUserHasBooks
func (uc *DeleteUserUseCase) Execute(ctx context.Context, id uint) error {
	return uc.userRepo.Delete(ctx, id)
}
