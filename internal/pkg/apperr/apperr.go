package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别，对应管道各操作的失败模式
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindInsufficientStock
	KindPermissionDenied
	KindIntegrityViolation
	KindExternalService
)

// Error 带类别的业务错误
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound 实体不存在
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState 操作在当前状态下不合法
func InvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStock 库存不足，消息中带上具体商品
func InsufficientStock(format string, args ...interface{}) error {
	return &Error{Kind: KindInsufficientStock, Msg: fmt.Sprintf(format, args...)}
}

// PermissionDenied 归属校验失败
func PermissionDenied(format string, args ...interface{}) error {
	return &Error{Kind: KindPermissionDenied, Msg: fmt.Sprintf(format, args...)}
}

// IntegrityViolation 数据完整性校验失败（如回调金额不符）
func IntegrityViolation(format string, args ...interface{}) error {
	return &Error{Kind: KindIntegrityViolation, Msg: fmt.Sprintf(format, args...)}
}

// ExternalService 外部服务调用失败，保留底层错误供重试判断
func ExternalService(msg string, err error) error {
	return &Error{Kind: KindExternalService, Msg: msg, Err: err}
}

// KindOf 提取错误类别，非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
