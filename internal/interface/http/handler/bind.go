package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/validator"
)

// bindJSON 绑定并校验请求体，失败时直接写入400响应
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, validator.Translate(err))
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, validator.Translate(err))
		return false
	}
	return true
}

// bindURI 绑定并校验路径参数
func bindURI(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindUri(req); err != nil {
		response.Error(c, validator.Translate(err))
		return false
	}
	return true
}
