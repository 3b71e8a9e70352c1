// Package validator 配置gin使用的go-playground/validator，并把校验错误翻译成可读的提示
//
// 错误信息格式："字段: 提示, 字段: 提示"，字段名取json/form tag，与请求体保持一致。
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Setup 在gin默认的校验引擎上注册tag名称函数和自定义规则
// 必须在注册路由前调用
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin校验引擎不是validator/v10")
	}
	return Register(v)
}

// Register 向validator实例注册自定义规则
// 自定义规则：
// - identifier: 合法邮箱，或3-50个字符的用户名（登录账号）
// - notblank:   去掉首尾空白后不能为空
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if strings.Contains(s, "@") {
			return v.Var(s, "email,max=100") == nil
		}
		n := utf8.RuneCountInString(s)
		return n >= 3 && n <= 50
	}); err != nil {
		return fmt.Errorf("注册identifier规则失败: %w", err)
	}

	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return fmt.Errorf("注册notblank规则失败: %w", err)
	}

	return nil
}

// fieldName 使用json tag（查询参数使用form tag）作为字段名
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Translate 把绑定/校验错误转换为参数错误（ErrCodeInvalidParams）
//
// 支持：
// 1. validator.ValidationErrors：逐字段生成提示，按字段声明顺序拼接
// 2. JSON语法错误、类型错误
// 3. 查询参数数字解析失败
func Translate(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		msgs := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			msgs = append(msgs, e.Field()+": "+friendlyMessage(e))
		}
		return apperrors.Validation(strings.Join(msgs, ", "))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation(typeErr.Field + ": 类型错误")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperrors.Validation("请求体不是合法的JSON")
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return apperrors.Validation(fmt.Sprintf("参数格式错误: %q 不是合法的数字", numErr.Num))
	}

	return apperrors.New(apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
}

// friendlyMessage 单个字段的提示信息
func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "identifier":
		return "必须是邮箱或3-50个字符的用户名"
	case "url":
		return "必须是合法的URL"
	case "numeric":
		return "必须是数字"
	case "min":
		return sizeMessage(e, "不能少于", "不能小于")
	case "max":
		return sizeMessage(e, "不能超过", "不能大于")
	case "len":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("长度必须为%s个字符", e.Param())
		}
		return "长度必须为" + e.Param()
	case "oneof":
		return "必须是以下之一: " + e.Param()
	case "gt":
		return "必须大于" + e.Param()
	case "gte":
		return "不能小于" + e.Param()
	case "lt":
		return "必须小于" + e.Param()
	case "lte":
		return "不能大于" + e.Param()
	case "eqfield":
		return "必须与" + e.Param() + "一致"
	case "gtefield":
		return "不能小于" + e.Param()
	default:
		return "格式不正确"
	}
}

// sizeMessage min/max对字符串、切片、数字的含义不同
func sizeMessage(e validator.FieldError, lenWord, numWord string) string {
	switch e.Kind() {
	case reflect.String:
		return fmt.Sprintf("长度%s%s个字符", lenWord, e.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("数量%s%s个", lenWord, e.Param())
	default:
		return numWord + e.Param()
	}
}
