package user

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// PasswordCost bcrypt计算成本
// cost=10约70ms，注册/登录接口在可接受范围内
const PasswordCost = bcrypt.DefaultCost

// Service 用户领域服务
// 设计说明：
// 1. 封装密码哈希、登录校验、唯一性检查等跨实体规则
// 2. 依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. 不处理HTTP和会话，Token签发在application层完成
type Service interface {
	// HashPassword 生成bcrypt哈希
	HashPassword(plain string) (string, error)

	// Register 注册新用户
	// 用户名或邮箱已存在返回ErrDuplicateUser
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Authenticate 按用户名或邮箱校验密码
	// 账号不存在与密码错误都返回ErrInvalidCredentials
	Authenticate(ctx context.Context, identifier, password string) (*User, error)

	// ChangePassword 校验当前密码后替换为新密码（不持久化）
	ChangePassword(u *User, current, next string) error

	// ChangeProfile 检查唯一性后修改用户名/邮箱（不持久化）
	// nil表示不修改，两者都为nil返回ErrEmptyProfile
	ChangeProfile(ctx context.Context, u *User, username, email *string) error

	// EnsureAvailable 检查用户名/邮箱未被其他用户占用
	EnsureAvailable(ctx context.Context, username, email string, excludeID uint) error
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// HashPassword 生成bcrypt哈希（自动加盐）
func (s *service) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hash), nil
}

// Register 用户注册
// 业务规则：
// 1. 先用一次查询检查用户名或邮箱是否已存在
// 2. 并发注册时由数据库UNIQUE索引兜底（Repository转换为ErrDuplicateUser）
func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if err := s.EnsureAvailable(ctx, username, email, 0); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := NewUser(username, email, hash)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 登录校验
// 账号不存在时仍执行一次bcrypt比较，使两种失败的耗时一致
func (s *service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	u, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := comparePassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

// ChangePassword 修改密码
func (s *service) ChangePassword(u *User, current, next string) error {
	if err := comparePassword(u.PasswordHash, current); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return err
	}
	u.ChangePasswordHash(hash)
	return nil
}

// ChangeProfile 修改资料
// 未修改的字段用当前值参与检查，当前值只会匹配到用户自己（已排除）
func (s *service) ChangeProfile(ctx context.Context, u *User, username, email *string) error {
	if username == nil && email == nil {
		return ErrEmptyProfile
	}

	nextUsername, nextEmail := u.Username, u.Email
	if username != nil {
		nextUsername = *username
	}
	if email != nil {
		nextEmail = *email
	}
	if err := s.EnsureAvailable(ctx, nextUsername, nextEmail, u.ID); err != nil {
		return err
	}

	u.ChangeProfile(username, email)
	return nil
}

// EnsureAvailable 唯一性预检查（WHERE username = ? OR email = ?）
func (s *service) EnsureAvailable(ctx context.Context, username, email string, excludeID uint) error {
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateUser
	}
	return nil
}

func comparePassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

// dummyHash 账号不存在时用于比较的固定哈希
func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("bookshop-dummy-password"), PasswordCost)
	})
	return dummy
}
