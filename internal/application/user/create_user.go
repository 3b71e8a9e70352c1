package user

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// CreateUserUseCase 创建用户用例（用户管理接口，不签发Token）
type CreateUserUseCase struct {
	userService user.Service
}

// NewCreateUserUseCase 创建用例
func NewCreateUserUseCase(userService user.Service) *CreateUserUseCase {
	return &CreateUserUseCase{userService: userService}
}

// Execute 执行创建
// 用户名或邮箱已存在返回ErrDuplicateUser
func (uc *CreateUserUseCase) Execute(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return NewUserInfo(u), nil
}
