package dto

import (
	"strings"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CreateBookRequest 发布图书请求
// 价格以元为单位(JSON数字),服务端按分存储
type CreateBookRequest struct {
	Title       string   `json:"title" binding:"required,notblank,max=255" example:"三体"`
	Description string   `json:"description" binding:"required,notblank" example:"地球文明与三体文明的信息交流、生死搏杀及两个文明在宇宙中的兴衰历程"`
	Price       float64  `json:"price" binding:"required,gt=0" example:"45.5"`
	Category    string   `json:"category" binding:"required,notblank,max=100" example:"科幻"`
	Author      string   `json:"author" binding:"required,notblank,max=100" example:"刘慈欣"`
	Thumbnail   string   `json:"thumbnail" binding:"omitempty,url,max=255" example:"https://example.com/three-body.jpg"`
	Tags        []string `json:"tags" binding:"omitempty,dive,notblank,max=50" example:"科幻,经典"`
}

// ToApp 转换为应用层请求
func (r CreateBookRequest) ToApp() appbook.CreateBookRequest {
	return appbook.CreateBookRequest{
		Title:       r.Title,
		Description: r.Description,
		Price:       book.PriceToCents(r.Price),
		Thumbnail:   r.Thumbnail,
		Author:      r.Author,
		Category:    r.Category,
		Tags:        r.Tags,
	}
}

// UpdateBookRequest 修改图书请求(字段均可选,至少提供一个)
// tags: 不传表示不修改,传空数组表示清空
type UpdateBookRequest struct {
	Title       *string   `json:"title" binding:"omitempty,notblank,max=255" example:"三体"`
	Description *string   `json:"description" binding:"omitempty,notblank" example:"修订版简介"`
	Price       *float64  `json:"price" binding:"omitempty,gt=0" example:"50"`
	Category    *string   `json:"category" binding:"omitempty,notblank,max=100" example:"科幻"`
	Author      *string   `json:"author" binding:"omitempty,notblank,max=100" example:"刘慈欣"`
	Thumbnail   *string   `json:"thumbnail" binding:"omitempty,url,max=255" example:"https://example.com/three-body.jpg"`
	Tags        *[]string `json:"tags" binding:"omitempty,dive,notblank,max=50" example:"科幻"`
}

// ToApp 转换为应用层请求
func (r UpdateBookRequest) ToApp() appbook.UpdateBookRequest {
	req := appbook.UpdateBookRequest{
		Title:       r.Title,
		Description: r.Description,
		Thumbnail:   r.Thumbnail,
		Author:      r.Author,
		Category:    r.Category,
		Tags:        r.Tags,
	}
	if r.Price != nil {
		cents := book.PriceToCents(*r.Price)
		req.Price = &cents
	}
	return req
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Title     string   `form:"title" binding:"omitempty,max=255" example:"三体"`
	Category  string   `form:"category" binding:"omitempty,max=100" example:"科幻"`
	MinPrice  *float64 `form:"min_price" binding:"omitempty,gte=0" example:"10"`
	MaxPrice  *float64 `form:"max_price" binding:"omitempty,gte=0" example:"100"`
	SortOrder string   `form:"sort_order" binding:"omitempty,oneof=asc desc" example:"asc"`
	Page      int      `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
}

// ToApp 校验价格区间并转换为应用层请求，书名和分类过滤条件去除首尾空白
func (q ListBooksQuery) ToApp() (appbook.ListBooksRequest, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MaxPrice < *q.MinPrice {
		return appbook.ListBooksRequest{}, apperrors.Validation("max_price: 不能小于min_price")
	}

	req := appbook.ListBooksRequest{
		Title:     strings.TrimSpace(q.Title),
		Category:  strings.TrimSpace(q.Category),
		SortOrder: q.SortOrder,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if q.MinPrice != nil {
		cents := book.PriceToCents(*q.MinPrice)
		req.MinPrice = &cents
	}
	if q.MaxPrice != nil {
		cents := book.PriceToCents(*q.MaxPrice)
		req.MaxPrice = &cents
	}
	return req, nil
}
