package book

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// GetBookUseCase 图书详情用例(Cache-Aside)
// 流程:
// 1. 先查Redis缓存,命中直接返回
// 2. 未命中查数据库,写回缓存
// 3. 缓存读写失败不影响结果,只记录日志
type GetBookUseCase struct {
	bookService book.Service
	cache       book.Cache
	ttl         time.Duration
}

// NewGetBookUseCase 创建用例
func NewGetBookUseCase(bookService book.Service, cache book.Cache, cfg Config) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache, ttl: cfg.CacheTTL}
}

// Execute 查询详情
// 图书不存在返回(nil, false, nil),由调用方决定如何响应
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (info *BookInfo, found bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.GetBook")
	defer func() { tracing.EndSpan(span, err) }()

	log := logger.FromContext(ctx)

	cached, ok, err := uc.cache.Get(ctx, id)
	switch {
	case err != nil:
		recordCache("error")
		log.Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	case ok:
		recordCache("hit")
		return NewBookInfo(cached), true, nil
	default:
		recordCache("miss")
	}

	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := uc.cache.Set(ctx, b, uc.ttl); err != nil {
		log.Warn("写入图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
	return NewBookInfo(b), true, nil
}

func recordCache(result string) {
	metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": result})
}

// ListPublicBooksUseCase 公开图书列表(所有用户发布的图书,默认按书名降序)
type ListPublicBooksUseCase struct {
	bookService book.Service
}

// NewListPublicBooksUseCase 创建用例
func NewListPublicBooksUseCase(bookService book.Service) *ListPublicBooksUseCase {
	return &ListPublicBooksUseCase{bookService: bookService}
}

// Execute 执行查询
func (uc *ListPublicBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.ListPublicBooks")
	defer func() { tracing.EndSpan(span, err) }()

	return list(ctx, uc.bookService, req, 0, book.SortDesc)
}

// ListOwnedBooksUseCase 我的图书列表(默认按书名升序)
type ListOwnedBooksUseCase struct {
	bookService book.Service
}

// NewListOwnedBooksUseCase 创建用例
func NewListOwnedBooksUseCase(bookService book.Service) *ListOwnedBooksUseCase {
	return &ListOwnedBooksUseCase{bookService: bookService}
}

// Execute 执行查询
func (uc *ListOwnedBooksUseCase) Execute(ctx context.Context, ownerID uint, req ListBooksRequest) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.ListOwnedBooks")
	defer func() { tracing.EndSpan(span, err) }()

	return list(ctx, uc.bookService, req, ownerID, book.SortAsc)
}

func list(ctx context.Context, svc book.Service, req ListBooksRequest, creatorID uint, defaultSort string) (*ListBooksResponse, error) {
	q := book.ListQuery{
		Title:     req.Title,
		Category:  req.Category,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		Limit:     req.Limit,
		CreatorID: creatorID,
	}
	books, total, q, err := svc.List(ctx, q, defaultSort)
	if err != nil {
		return nil, err
	}
	return newListResponse(books, total, q), nil
}
