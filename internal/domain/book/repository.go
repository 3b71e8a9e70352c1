package book

import (
	"context"
	"time"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 查询方法返回的Book已填充作者、分类名称和标签
// 3. 写操作需要在TxManager事务中调用,保证不留下部分数据
type Repository interface {
	// Create 创建图书,书名重复返回ErrDuplicateTitle
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindOwned 查找属于ownerID的图书
	// 不存在或不属于该用户都返回ErrNotFoundOrForbidden
	FindOwned(ctx context.Context, id, ownerID uint) (*Book, error)

	// Update 更新图书字段(含AuthorID/CategoryID),书名重复返回ErrDuplicateTitle
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书:先删除标签关联,再删除图书
	Delete(ctx context.Context, id uint) error

	// ReplaceTags 用tagIDs替换图书的全部标签关联
	ReplaceTags(ctx context.Context, bookID uint, tagIDs []uint) error

	// List 按条件分页查询,返回当前页数据和总数
	List(ctx context.Context, q ListQuery) ([]*Book, int64, error)
}

// 排序方向
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery 列表查询条件
type ListQuery struct {
	Title     string // 书名模糊匹配(不区分大小写)
	Category  string // 分类名模糊匹配(不区分大小写)
	MinPrice  *int64 // 最低价(分,含)
	MaxPrice  *int64 // 最高价(分,含)
	SortOrder string // 按书名排序:asc | desc
	Page      int
	Limit     int
	CreatorID uint // 非0时只查询该用户发布的图书
}

// Normalize 填充分页和排序默认值
func (q *ListQuery) Normalize(defaultSort string) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = defaultSort
	}
}

// Offset 分页偏移量
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ReferenceKind 引用实体类型
type ReferenceKind string

const (
	KindAuthor   ReferenceKind = "author"
	KindCategory ReferenceKind = "category"
	KindTag      ReferenceKind = "tag"
)

// ReferenceRepository 作者/分类/标签仓储
type ReferenceRepository interface {
	// ResolveOrCreate 按名称(去除首尾空白后精确匹配)查找,不存在则创建,返回ID
	// 并发创建同名实体时,依赖唯一索引只保留一条
	ResolveOrCreate(ctx context.Context, kind ReferenceKind, name string) (uint, error)
}

// Cache 图书详情缓存(Cache-Aside)
type Cache interface {
	// Get 命中返回(book, true, nil),未命中返回(nil, false, nil)
	Get(ctx context.Context, id uint) (*Book, bool, error)
	Set(ctx context.Context, book *Book, ttl time.Duration) error
	Delete(ctx context.Context, id uint) error
}
