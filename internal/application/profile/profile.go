// Package profile 当前登录用户的资料管理
package profile

import (
	"context"

	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

// GetProfileUseCase 查询个人资料
type GetProfileUseCase struct {
	userRepo user.Repository
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userRepo user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// Execute 用户不存在（Token有效但账号已删除）返回ErrUserNotFound
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*appuser.UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return appuser.NewUserInfo(u), nil
}

// UpdateProfileUseCase 修改用户名/邮箱
type UpdateProfileUseCase struct {
	userService user.Service
	userRepo    user.Repository
}

// NewUpdateProfileUseCase 创建用例
func NewUpdateProfileUseCase(userService user.Service, userRepo user.Repository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService, userRepo: userRepo}
}

// UpdateProfileRequest 修改资料请求，nil表示不修改
type UpdateProfileRequest struct {
	Username *string
	Email    *string
}

// Execute 执行修改
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, userID uint, req UpdateProfileRequest) (*appuser.UserInfo, error) {
	if req.Username == nil && req.Email == nil {
		return nil, user.ErrEmptyProfile
	}

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.userService.ChangeProfile(ctx, u, req.Username, req.Email); err != nil {
		return nil, err
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return appuser.NewUserInfo(u), nil
}

// ChangePasswordUseCase 修改密码（需要验证当前密码）
type ChangePasswordUseCase struct {
	userService user.Service
	userRepo    user.Repository
}

// NewChangePasswordUseCase 创建用例
func NewChangePasswordUseCase(userService user.Service, userRepo user.Repository) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{userService: userService, userRepo: userRepo}
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangePasswordMessage 修改成功提示
const ChangePasswordMessage = "密码修改成功"

// Execute 执行修改
// 当前密码错误返回ErrWrongPassword，两次密码不一致返回ErrPasswordMismatch
func (uc *ChangePasswordUseCase) Execute(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return user.ErrPasswordMismatch
	}

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.userService.ChangePassword(u, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return uc.userRepo.Update(ctx, u)
}
