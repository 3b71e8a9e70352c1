package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Success标记请求是否成功，客户端优先判断它
// 2. Code是业务错误码，HTTP状态码由错误码推导（见apperrors.HTTPStatus）
// 3. 成功时返回Data，失败时返回Error（用户友好的提示）
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    0,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Code:    0,
		Data:    data,
	})
}

// Message 仅返回提示信息的成功响应（如登出、重置密码）
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    0,
		Message: message,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := useCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 提取AppError
	appErr := apperrors.GetAppError(err)

	// 内部错误只写日志，不返回给客户端
	if appErr.Err != nil {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(apperrors.HTTPStatus(appErr.Code), Response{
		Success: false,
		Code:    appErr.Code,
		Error:   appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	Limit      int         `json:"limit"`       // 每页大小
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, limit int) *PageData {
	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

// TotalPages 计算总页数：ceil(total/limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, limit int) {
	Success(c, NewPageData(list, total, page, limit))
}
