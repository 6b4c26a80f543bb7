package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ==================== 错误分类 ====================

// Kind 错误类别
// 所有 adapter / service 抛出的错误都应归入以下四类之一
type Kind int

const (
	KindValidation Kind = iota + 1 // 参数校验失败 -> HTTP 400
	KindRemote                     // 第三方接口返回业务错误码 -> HTTP 500
	KindAuth                       // 凭证缺失/过期 -> 引导重新授权
	KindPartial                    // 批处理中的单项失败，整体仍返回 200
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRemote:
		return "remote"
	case KindAuth:
		return "auth"
	case KindPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// ==================== 错误类型 ====================

// Error 带分类的业务错误
type Error struct {
	Kind Kind
	// RemoteCode 第三方服务返回的业务错误码 (仅 KindRemote 有意义)
	RemoteCode int
	Msg        string
	cause      error
}

func (e *Error) Error() string {
	if e.RemoteCode != 0 {
		return fmt.Sprintf("[%s] code=%d: %s", e.Kind, e.RemoteCode, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// ==================== 构造函数 ====================

// Validation 参数校验错误
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Remote 第三方接口业务错误
// code: 远端返回的业务错误码, msg: 远端返回的错误信息
func Remote(code int, msg string) *Error {
	return &Error{Kind: KindRemote, RemoteCode: code, Msg: msg}
}

// Auth 凭证错误
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Msg: msg}
}

// Wrap 包装底层错误并归类
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: errors.WithStack(cause)}
}

// ==================== 判定辅助 ====================

// KindOf 提取错误类别，非本包错误归为 KindRemote 以外的 unknown(0)
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
