package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别，闭集，handler 层据此映射 HTTP 状态码
type Kind int

const (
	KindValidation         Kind = iota // 参数非法 / 重复数据
	KindUnauthorized                   // 未登录或会话无效
	KindForbidden                      // 已登录但不是资源属主
	KindNotFound                       // 资源不存在
	KindInvalidState                   // 当前状态不允许该操作
	KindFailedPrecondition             // 缺少前置条件（如没有用户档案）
	KindInternal                       // 其他内部错误
)

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf 创建格式化业务错误
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误并赋予类别
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 取出错误类别，非业务错误一律按 Internal 处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于某个类别
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus 类别到 HTTP 状态码的映射
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidState, KindFailedPrecondition:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
