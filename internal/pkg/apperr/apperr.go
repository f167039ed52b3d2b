package apperr

import (
	"errors"
	"net/http"
)

// Kind 表示核心逻辑错误的类别，与 HTTP 状态码一一对应。
type Kind int

const (
	KindInternal     Kind = iota // 未知内部错误
	KindUnauthorized             // 未认证 / 凭证无效
	KindNotFound                 // 资源不存在或不属于调用者（刻意不区分）
	KindConflict                 // 资源冲突（如邮箱已注册）
	KindValidation               // 请求参数非法
)

// Error 携带错误类别的业务错误。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// New 构造指定类别的错误。
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap 包装底层错误并附加类别与消息。
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf 提取错误的类别，非 *Error 一律视为内部错误。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus 将错误类别映射为 HTTP 状态码。
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message 返回适合直接返回给客户端的错误消息。
//
// 内部错误不暴露底层细节，统一返回 "internal error"。
func Message(err error) string {
	if KindOf(err) == KindInternal {
		return "internal error"
	}
	return err.Error()
}
