package dto

// UpdateProfileRequest 修改资料请求(字段均可选,至少提供一个)
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,notblank,min=3,max=50" example:"alice"`
	Email    *string `json:"email" binding:"omitempty,email,max=100" example:"alice@example.com"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"secret123"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=100" example:"newsecret"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword" example:"newsecret"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,notblank,min=3,max=50" example:"bob"`
	Email    string `json:"email" binding:"required,email,max=100" example:"bob@example.com"`
	Password string `json:"password" binding:"required,min=6,max=100" example:"secret123"`
}

// UpdateUserRequest 更新用户请求(字段均可选,至少提供一个)
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,notblank,min=3,max=50" example:"alice"`
	Email    *string `json:"email" binding:"omitempty,email,max=100" example:"alice@example.com"`
	Password *string `json:"password" binding:"omitempty,min=6,max=100" example:"secret123"`
}

// ListUsersQuery 用户列表查询参数
type ListUsersQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
}

// IDRequest 路径参数中的资源ID
type IDRequest struct {
	ID uint `uri:"id" binding:"required,min=1" example:"1"`
}
