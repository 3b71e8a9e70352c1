package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如用户名/邮箱重复），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 学习要点：
// 1. 唯一性最终由数据库UNIQUE索引保证（应用层预检查存在并发窗口）
// 2. 捕获唯一索引冲突，转换为业务错误ErrDuplicateUser
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrDuplicateUser
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 回填自增ID（GORM自动填充）
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(ctx, conn(ctx, r.db).Where("id = ?", id))
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, conn(ctx, r.db).Where("email = ?", email))
}

// FindByIdentifier 按用户名或邮箱查找
func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	return r.first(ctx, conn(ctx, r.db).Where("username = ? OR email = ?", identifier, identifier))
}

func (r *userRepository) first(_ context.Context, query *gorm.DB) (*user.User, error) {
	var model UserModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// ExistsByUsernameOrEmail 用户名或邮箱是否已被占用
// 空字符串不参与匹配（更新资料时可能只修改其中一项）
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID uint) (bool, error) {
	if username == "" && email == "" {
		return false, nil
	}

	query := conn(ctx, r.db).Model(&UserModel{})
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	default:
		query = query.Where("email = ?", email)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询用户失败")
	}
	return count > 0, nil
}

// Update 更新用户信息
// 只更新可变字段（用户名、邮箱、密码哈希），不存在返回ErrUserNotFound
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := conn(ctx, r.db).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"updated_at":    u.UpdatedAt,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return user.ErrDuplicateUser
		}
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	// MySQL在值未变化时RowsAffected为0，需要再确认记录是否存在
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete 删除用户（物理删除）
// 学习要点：
// 1. 图书的creator_id引用用户，仍有图书时拒绝删除（与外键RESTRICT一致）
// 2. 检查与删除在同一事务中执行
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&BookModel{}).Where("creator_id = ?", id).Count(&owned).Error; err != nil {
			return apperrors.Wrap(err, "查询用户图书失败")
		}
		if owned > 0 {
			return user.ErrUserHasBooks
		}

		result := tx.Delete(&UserModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除用户失败")
		}
		if result.RowsAffected == 0 {
			return user.ErrUserNotFound
		}
		return nil
	})
}

// List 分页查询用户
func (r *userRepository) List(ctx context.Context, page, limit int) ([]*user.User, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户总数失败")
	}

	var models []UserModel
	err := conn(ctx, r.db).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, total, nil
}
