package book

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrNotFoundOrForbidden 图书不存在或不属于当前用户(不区分两种情况)
	ErrNotFoundOrForbidden = apperrors.ErrNotFoundOrForbidden

	// ErrDuplicateTitle 书名已存在
	ErrDuplicateTitle = apperrors.ErrDuplicateTitle

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.Validation("price: 必须大于0")

	// ErrEmptyPatch 更新请求没有任何字段
	ErrEmptyPatch = apperrors.Validation("至少需要提供一个更新字段")

	// ErrInvalidReference 作者/分类/标签名称为空
	ErrInvalidReference = apperrors.Validation("作者、分类、标签名称不能为空")
)
