package service

import (
	"errors"
	"fmt"
)

// 服务层统一错误集合
// controller 按类型映射 HTTP 码：ErrNotFound→结构化 not found 响应，
// ErrForbidden→403，ErrConflict→409，ValidationError→400，其余→500
var (
	ErrNotFound  = errors.New("记录不存在")
	ErrForbidden = errors.New("无权操作")
	// ErrConflict 记录被其他数据引用，当前变更做不了（如在途订单锁住旧报价）
	ErrConflict = errors.New("记录被引用，无法变更")
)

// ValidationError 校验失败，带出错字段和原因
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("字段 %q 校验失败: %s", e.Field, e.Reason)
}

// NewValidationError 构造校验错误
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation 判断是否校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
