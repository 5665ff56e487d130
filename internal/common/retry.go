package common

import (
	"github.com/forxynet/DevConnector/internal/errors"
)

// IsVersionConflict 判断是否为乐观锁版本冲突
func IsVersionConflict(err error) bool {
	return errors.IsCode(err, errors.ErrVersionConflict)
}

// WithRetry 通用重试机制，仅对版本冲突重试。
// 每次重试由调用方重新读取聚合，不做退避等待。
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsVersionConflict(err) {
			return err
		}
	}
	return err
}
