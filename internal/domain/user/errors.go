package user

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.ErrUserNotFound

	// ErrDuplicateUser 用户名或邮箱已存在
	ErrDuplicateUser = apperrors.ErrDuplicateUser

	// ErrInvalidCredentials 账号或密码错误（不区分账号不存在和密码错误）
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials

	// ErrWrongPassword 修改密码时当前密码错误
	ErrWrongPassword = apperrors.ErrWrongPassword

	// ErrUserHasBooks 用户仍发布有图书，不能删除
	ErrUserHasBooks = apperrors.New(apperrors.ErrCodeConflict, "该用户仍有发布的图书，无法删除")

	// ErrEmptyProfile 资料更新没有任何字段
	ErrEmptyProfile = apperrors.Validation("至少需要提供一个更新字段")

	// ErrPasswordMismatch 两次输入的密码不一致
	ErrPasswordMismatch = apperrors.Validation("confirm_password: 两次输入的密码不一致")
)
