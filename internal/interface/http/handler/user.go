package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// UserHandler 用户管理处理器（需要登录）
type UserHandler struct {
	create *appuser.CreateUserUseCase
	get    *appuser.GetUserUseCase
	list   *appuser.ListUsersUseCase
	update *appuser.UpdateUserUseCase
	delete *appuser.DeleteUserUseCase
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(
	create *appuser.CreateUserUseCase,
	get *appuser.GetUserUseCase,
	list *appuser.ListUsersUseCase,
	update *appuser.UpdateUserUseCase,
	delete *appuser.DeleteUserUseCase,
) *UserHandler {
	return &UserHandler{
		create: create,
		get:    get,
		list:   list,
		update: update,
		delete: delete,
	}
}

// DeleteUserMessage 删除成功提示
const DeleteUserMessage = "用户已删除"

// Create 创建用户
// @Summary      创建用户
// @Tags         用户管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "用户信息"
// @Success      201 {object} response.Response{data=user.UserInfo}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "用户名或邮箱已存在"
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.create.Execute(c.Request.Context(), appuser.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// Get 查询用户
// @Summary      查询用户
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=user.UserInfo}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if !bindURI(c, &uri) {
		return
	}

	info, err := h.get.Execute(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// List 用户列表
// @Summary      用户列表
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "页码" default(1)
// @Param        limit query int false "每页数量(1-100)" default(10)
// @Success      200 {object} response.Response{data=response.PageData{list=[]user.UserInfo}}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListUsersQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.list.Execute(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.Limit)
}

// Update 更新用户
// @Summary      更新用户
// @Description  用户名、邮箱、密码均可选，至少提供一个
// @Tags         用户管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "用户ID"
// @Param        request body dto.UpdateUserRequest true "更新内容"
// @Success      200 {object} response.Response{data=user.UserInfo}
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      409 {object} response.Response "用户名或邮箱已存在"
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var uri dto.IDRequest
	if !bindURI(c, &uri) {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.update.Execute(c.Request.Context(), uri.ID, appuser.UpdateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// Delete 删除用户
// @Summary      删除用户
// @Description  仍有发布图书的用户不能删除
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response "用户已删除"
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      409 {object} response.Response "用户仍有图书"
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if !bindURI(c, &uri) {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, DeleteUserMessage)
}
