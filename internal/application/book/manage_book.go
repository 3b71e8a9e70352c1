package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// CreateBookUseCase 发布图书用例
// 设计说明:
// 1. 引用解析、插入图书、写入标签在同一事务中,书名冲突时整体回滚
// 2. 发布者必须存在(Token有效但账号已删除时返回ErrUserNotFound)
type CreateBookUseCase struct {
	userRepo    user.Repository
	bookService book.Service
	tx          Transactor
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(userRepo user.Repository, bookService book.Service, tx Transactor) *CreateBookUseCase {
	return &CreateBookUseCase{userRepo: userRepo, bookService: bookService, tx: tx}
}

// Execute 执行发布
func (uc *CreateBookUseCase) Execute(ctx context.Context, ownerID uint, req CreateBookRequest) (info *BookInfo, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.CreateBook")
	defer func() {
		tracing.EndSpan(span, err)
		recordMutation("create", err)
	}()

	// 在事务外检查,避免占用事务连接
	if _, err := uc.userRepo.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	var created *book.Book
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.Create(ctx, ownerID, req.draft())
		if err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewBookInfo(created), nil
}

// UpdateBookUseCase 修改图书用例(只有发布者可以修改)
type UpdateBookUseCase struct {
	bookService book.Service
	tx          Transactor
	cache       book.Cache
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, tx Transactor, cache book.Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, tx: tx, cache: cache}
}

// Execute 执行修改
// 图书不存在或不属于ownerID返回ErrNotFoundOrForbidden
func (uc *UpdateBookUseCase) Execute(ctx context.Context, ownerID, id uint, req UpdateBookRequest) (info *BookInfo, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.UpdateBook")
	defer func() {
		tracing.EndSpan(span, err)
		recordMutation("update", err)
	}()

	var updated *book.Book
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.Update(ctx, ownerID, id, req.patch())
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, id)
	return NewBookInfo(updated), nil
}

// DeleteBookUseCase 删除图书用例(只有发布者可以删除)
type DeleteBookUseCase struct {
	bookService book.Service
	tx          Transactor
	cache       book.Cache
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(bookService book.Service, tx Transactor, cache book.Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, tx: tx, cache: cache}
}

// DeleteBookMessage 删除成功提示
const DeleteBookMessage = "图书已删除"

// Execute 执行删除:先删除标签关联,再删除图书
func (uc *DeleteBookUseCase) Execute(ctx context.Context, ownerID, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "book.DeleteBook")
	defer func() {
		tracing.EndSpan(span, err)
		recordMutation("delete", err)
	}()

	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		return uc.bookService.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}

	invalidate(ctx, uc.cache, id)
	return nil
}

// invalidate 删除详情缓存,失败只记录日志(缓存会在TTL后过期)
func invalidate(ctx context.Context, cache book.Cache, id uint) {
	if err := cache.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).Warn("删除图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
}

func recordMutation(operation string, err error) {
	metrics.IncCounterVec(metrics.BookMutationsTotal, map[string]string{
		"operation": operation,
		"result":    metrics.Result(err),
	})
}
