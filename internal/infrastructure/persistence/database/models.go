package database

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

// 设计说明：
// 1. 这里是infrastructure层的数据模型，包含GORM tag
// 2. domain层实体不依赖GORM，Repository负责两者之间的转换
// 3. 正式环境的表结构以migrations下的SQL为准，AutoMigrate仅用于开发和测试

// UserModel GORM用户模型
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Email        string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// AuthorModel 作者
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel 分类
type CategoryModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// TagModel 标签
type TagModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:50;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (TagModel) TableName() string {
	return "tags"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位
// 2. 书名全局唯一
// 3. creator_id索引支持"我的图书"查询
type BookModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"uniqueIndex;size:255;not null;comment:书名"`
	Description string    `gorm:"type:text;not null;comment:图书描述"`
	Price       int64     `gorm:"not null;comment:价格(分)"`
	Thumbnail   string    `gorm:"size:255;comment:封面图片URL"`
	AuthorID    uint      `gorm:"index;not null"`
	CategoryID  uint      `gorm:"index;not null"`
	CreatorID   uint      `gorm:"index;not null;comment:发布者用户ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookTagModel 图书-标签关联
type BookTagModel struct {
	BookID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName 指定表名
func (BookTagModel) TableName() string {
	return "book_tags"
}

// allModels AutoMigrate使用的模型列表
func allModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&AuthorModel{},
		&CategoryModel{},
		&TagModel{},
		&BookModel{},
		&BookTagModel{},
	}
}

// =========================================
// 辅助函数：模型转换
// =========================================

// toUserEntity GORM模型 → 领域实体
func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// bookRow 图书联表查询结果
type bookRow struct {
	BookModel
	AuthorName   string
	CategoryName string
}

func (r *bookRow) toEntity() *book.Book {
	return &book.Book{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Thumbnail:   r.Thumbnail,
		AuthorID:    r.AuthorID,
		Author:      r.AuthorName,
		CategoryID:  r.CategoryID,
		Category:    r.CategoryName,
		Tags:        []string{},
		CreatorID:   r.CreatorID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
