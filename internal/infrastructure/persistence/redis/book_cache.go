package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// BookCache 图书详情缓存（Cache-Aside）
//
//	读：先查缓存 → 未命中查数据库 → 回填缓存
//	写：先更新数据库 → 再删除缓存
//
// Key：book:detail:{id}，值为JSON
type BookCache struct {
	client *redis.Client
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client) *BookCache {
	return &BookCache{client: client}
}

var _ book.Cache = (*BookCache)(nil)

func bookKey(id uint) string {
	return fmt.Sprintf("book:detail:%d", id)
}

// cachedBook 缓存中的图书结构，字段与book.Book一一对应（可直接类型转换）
type cachedBook struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Thumbnail   string    `json:"thumbnail"`
	AuthorID    uint      `json:"author_id"`
	Author      string    `json:"author"`
	CategoryID  uint      `json:"category_id"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatorID   uint      `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Get 查询缓存
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, bool, error) {
	data, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, "查询图书缓存失败")
	}

	var cb cachedBook
	if err := json.Unmarshal(data, &cb); err != nil {
		return nil, false, apperrors.Wrap(err, "图书缓存格式错误")
	}

	b := book.Book(cb)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, true, nil
}

// Set 写入缓存
func (c *BookCache) Set(ctx context.Context, b *book.Book, ttl time.Duration) error {
	data, err := json.Marshal(cachedBook(*b))
	if err != nil {
		return apperrors.Wrap(err, "序列化图书缓存失败")
	}
	if err := c.client.Set(ctx, bookKey(b.ID), data, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入图书缓存失败")
	}
	return nil
}

// Delete 删除缓存
func (c *BookCache) Delete(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, bookKey(id)).Err(); err != nil {
		return apperrors.Wrap(err, "删除图书缓存失败")
	}
	return nil
}
