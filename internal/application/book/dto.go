package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/response"
)

// Config 图书用例配置
type Config struct {
	CacheTTL time.Duration // 图书详情缓存有效期
}

// Transactor 事务执行器（*database.TxManager实现）
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookInfo 图书响应DTO
// 价格以字符串返回（固定两位小数），避免浮点精度问题
type BookInfo struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Thumbnail   string    `json:"thumbnail"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatorID   uint      `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBookInfo 领域实体 → DTO
func NewBookInfo(b *book.Book) *BookInfo {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return &BookInfo{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Price:       book.FormatPrice(b.Price),
		Thumbnail:   b.Thumbnail,
		Author:      b.Author,
		Category:    b.Category,
		Tags:        tags,
		CreatorID:   b.CreatorID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// CreateBookRequest 创建图书请求
type CreateBookRequest struct {
	Title       string
	Description string
	Price       int64 // 价格(分)
	Thumbnail   string
	Author      string
	Category    string
	Tags        []string
}

func (r CreateBookRequest) draft() book.Draft {
	return book.Draft{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Thumbnail:   r.Thumbnail,
		Author:      r.Author,
		Category:    r.Category,
		Tags:        r.Tags,
	}
}

// UpdateBookRequest 部分更新请求，nil表示不修改
// Tags: nil不修改，空切片清空标签
type UpdateBookRequest struct {
	Title       *string
	Description *string
	Price       *int64
	Thumbnail   *string
	Author      *string
	Category    *string
	Tags        *[]string
}

func (r UpdateBookRequest) patch() book.Patch {
	return book.Patch{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Thumbnail:   r.Thumbnail,
		Author:      r.Author,
		Category:    r.Category,
		Tags:        r.Tags,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Title     string
	Category  string
	MinPrice  *int64 // 分
	MaxPrice  *int64 // 分
	SortOrder string // asc | desc，为空时使用默认排序
	Page      int
	Limit     int
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List       []*BookInfo `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

func newListResponse(books []*book.Book, total int64, q book.ListQuery) *ListBooksResponse {
	list := make([]*BookInfo, 0, len(books))
	for _, b := range books {
		list = append(list, NewBookInfo(b))
	}
	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: response.TotalPages(total, q.Limit),
	}
}
