package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 公开图书接口(无需登录)
type BookHandler struct {
	list *appbook.ListPublicBooksUseCase
	get  *appbook.GetBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(list *appbook.ListPublicBooksUseCase, get *appbook.GetBookUseCase) *BookHandler {
	return &BookHandler{list: list, get: get}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询所有用户发布的图书,支持书名、分类模糊搜索和价格区间过滤
// @Tags         图书
// @Produce      json
// @Param        title      query string false "书名(模糊匹配,不区分大小写)"
// @Param        category   query string false "分类(模糊匹配,不区分大小写)"
// @Param        min_price  query number false "最低价(元)"
// @Param        max_price  query number false "最高价(元)"
// @Param        sort_order query string false "按书名排序" Enums(asc, desc) default(desc)
// @Param        page       query int    false "页码" default(1)
// @Param        limit      query int    false "每页数量(1-100)" default(10)
// @Success      200 {object} response.Response{data=book.ListBooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	req, ok := bindListQuery(c)
	if !ok {
		return
	}

	result, err := h.list.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=book.BookInfo}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	var uri dto.IDRequest
	if !bindURI(c, &uri) {
		return
	}

	info, found, err := h.get.Execute(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, apperrors.ErrBookNotFound)
		return
	}
	response.Success(c, info)
}

// MyBookHandler 我的图书接口(需要登录,只能操作自己发布的图书)
type MyBookHandler struct {
	list   *appbook.ListOwnedBooksUseCase
	create *appbook.CreateBookUseCase
	update *appbook.UpdateBookUseCase
	delete *appbook.DeleteBookUseCase
}

// NewMyBookHandler 创建处理器
func NewMyBookHandler(
	list *appbook.ListOwnedBooksUseCase,
	create *appbook.CreateBookUseCase,
	update *appbook.UpdateBookUseCase,
	delete *appbook.DeleteBookUseCase,
) *MyBookHandler {
	return &MyBookHandler{list: list, create: create, update: update, delete: delete}
}

// ListMyBooks 我的图书列表
// @Summary      我的图书列表
// @Description  查询当前用户发布的图书,默认按书名升序
// @Tags         我的图书
// @Produce      json
// @Security     BearerAuth
// @Param        title      query string false "书名(模糊匹配)"
// @Param        category   query string false "分类(模糊匹配)"
// @Param        min_price  query number false "最低价(元)"
// @Param        max_price  query number false "最高价(元)"
// @Param        sort_order query string false "按书名排序" Enums(asc, desc) default(asc)
// @Param        page       query int    false "页码" default(1)
// @Param        limit      query int    false "每页数量(1-100)" default(10)
// @Success      200 {object} response.Response{data=book.ListBooksResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /my-books [get]
func (h *MyBookHandler) ListMyBooks(c *gin.Context) {
	req, ok := bindListQuery(c)
	if !ok {
		return
	}

	result, err := h.list.Execute(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBook 发布图书
// @Summary      发布图书
// @Description  作者、分类、标签按名称匹配,不存在时自动创建
// @Tags         我的图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=book.BookInfo}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "书名已存在"
// @Router       /my-books [post]
func (h *MyBookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.create.Execute(c.Request.Context(), middleware.GetUserID(c), req.ToApp())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  只修改提供的字段;tags传空数组表示清空标签
// @Tags         我的图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新内容"
// @Success      200 {object} response.Response{data=book.BookInfo}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在或无权操作"
// @Failure      409 {object} response.Response "书名已存在"
// @Router       /my-books/{id} [patch]
func (h *MyBookHandler) UpdateBook(c *gin.Context) {
	var uri dto.IDRequest
	if !bindURI(c, &uri) {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.update.Execute(c.Request.Context(), middleware.GetUserID(c), uri.ID, req.ToApp())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         我的图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "图书已删除"
// @Failure      404 {object} response.Response "图书不存在或无权操作"
// @Router       /my-books/{id} [delete]
func (h *MyBookHandler) DeleteBook(c *gin.Context) {
	var uri dto.IDRequest
	if !bindURI(c, &uri) {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), middleware.GetUserID(c), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, appbook.DeleteBookMessage)
}

func bindListQuery(c *gin.Context) (appbook.ListBooksRequest, bool) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return appbook.ListBooksRequest{}, false
	}
	req, err := q.ToApp()
	if err != nil {
		response.Error(c, err)
		return appbook.ListBooksRequest{}, false
	}
	return req, true
}
