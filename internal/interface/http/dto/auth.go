package dto

// RegisterRequest 注册请求
// validator tag说明:
// - notblank: 自定义规则,去掉首尾空白后不能为空(pkg/validator)
// - identifier: 自定义规则,邮箱或3-50个字符的用户名
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank,min=3,max=50" example:"alice"`
	Email    string `json:"email" binding:"required,email,max=100" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=6,max=100" example:"secret123"`
}

// LoginRequest 登录请求(用户名或邮箱)
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,identifier" example:"alice@example.com"`
	Password   string `json:"password" binding:"required" example:"secret123"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=100" example:"alice@example.com"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email,max=100" example:"alice@example.com"`
	OTP             string `json:"otp" binding:"required,len=6,numeric" example:"123456"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=100" example:"newsecret"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword" example:"newsecret"`
}
