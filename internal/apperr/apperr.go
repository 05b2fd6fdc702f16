// Package apperr 定义跨层共享的错误分类。
//
// 每类错误是一个哨兵值，具体错误用 *Error 携带分类、面向用户的消息与底层原因，
// 调用方一律用 errors.Is 判断分类。
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBackend    = errors.New("backend error")
)

// PermissionMessage 鉴权失败时展示给管理员的说明
const PermissionMessage = "access denied: make sure you are signed in with an authorized account"

// Error 分类错误
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// Permission 包装后端或网关的拒绝信号
func Permission(err error) error {
	return &Error{Kind: ErrPermission, Msg: PermissionMessage, Err: err}
}

// Backend 包装传输层或服务端故障
func Backend(op string, err error) error {
	return &Error{Kind: ErrBackend, Msg: op, Err: err}
}

// Message 返回可展示给调用方的消息；后端故障不暴露细节
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	if errors.Is(e.Kind, ErrBackend) {
		return "internal error"
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.Error()
}
