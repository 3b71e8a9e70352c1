package book

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 书名全局唯一(数据库UNIQUE索引保证)
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 作者、分类、标签是共享的引用实体,按名称解析(不存在则创建)
// 4. CreatorID是发布者,只有发布者可以修改和删除
type Book struct {
	ID          uint
	Title       string
	Description string
	Price       int64  // 价格(单位:分)
	Thumbnail   string // 封面图片URL,可为空
	AuthorID    uint
	Author      string // 作者名称(联表查询填充)
	CategoryID  uint
	Category    string // 分类名称(联表查询填充)
	Tags        []string
	CreatorID   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Draft 创建图书的输入(名称未解析)
type Draft struct {
	Title       string
	Description string
	Price       int64
	Thumbnail   string
	Author      string
	Category    string
	Tags        []string
}

// Patch 部分更新输入,nil表示不修改
// Tags三态:nil不修改,空切片清空,非空替换
type Patch struct {
	Title       *string
	Description *string
	Price       *int64
	Thumbnail   *string
	Author      *string
	Category    *string
	Tags        *[]string
}

// IsEmpty 是否没有任何需要更新的字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Thumbnail == nil && p.Author == nil && p.Category == nil && p.Tags == nil
}

// NewBook 创建新图书(工厂方法),AuthorID/CategoryID由调用方解析后填入
func NewBook(d Draft, creatorID uint) *Book {
	now := time.Now()
	return &Book{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Price:       d.Price,
		Thumbnail:   d.Thumbnail,
		Author:      strings.TrimSpace(d.Author),
		Category:    strings.TrimSpace(d.Category),
		Tags:        NormalizeTags(d.Tags),
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyScalars 应用Patch中的标量字段(不含作者、分类、标签)
func (b *Book) ApplyScalars(p Patch) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Thumbnail != nil {
		b.Thumbnail = *p.Thumbnail
	}
	b.UpdatedAt = time.Now()
}

// IsOwnedBy 检查图书是否由指定用户发布
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.CreatorID == userID
}

// NormalizeTags 标签规范化:去除首尾空白,丢弃空标签,去重并保持原顺序
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// PriceToCents 元 → 分(四舍五入到分)
func PriceToCents(yuan float64) int64 {
	return int64(math.Round(yuan * 100))
}

// FormatPrice 分 → "19.99"
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
