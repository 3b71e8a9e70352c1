package user

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// GetUserUseCase 查询单个用户
type GetUserUseCase struct {
	userRepo user.Repository
}

// NewGetUserUseCase 创建用例
func NewGetUserUseCase(userRepo user.Repository) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo}
}

// Execute 不存在返回ErrUserNotFound
func (uc *GetUserUseCase) Execute(ctx context.Context, id uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserInfo(u), nil
}

// ListUsersUseCase 分页查询用户
type ListUsersUseCase struct {
	userRepo user.Repository
}

// NewListUsersUseCase 创建用例
func NewListUsersUseCase(userRepo user.Repository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

// 分页默认值
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Execute 执行查询
// 参数默认值：page默认1，limit默认10，最大100
func (uc *ListUsersUseCase) Execute(ctx context.Context, page, limit int) (*ListUsersResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	users, total, err := uc.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*UserInfo, 0, len(users))
	for _, u := range users {
		list = append(list, NewUserInfo(u))
	}
	return &ListUsersResponse{List: list, Total: total, Page: page, Limit: limit}, nil
}
