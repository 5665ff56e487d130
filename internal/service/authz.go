package service

import (
	"github.com/forxynet/DevConnector/internal/errors"
)

// CheckOwner 所有者校验：调用者身份与资源属主一致才放行。
// 纯函数，无副作用；校验失败必须中止后续写入。
func CheckOwner(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return errors.New(errors.ErrForbidden, "user not authorized")
	}
	return nil
}
