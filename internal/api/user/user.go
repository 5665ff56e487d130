package user

import (
	"fmt"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/service"
	"github.com/forxynet/DevConnector/internal/storage"
	"github.com/forxynet/DevConnector/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 处理与用户资料相关的HTTP请求
type UserHandler struct {
	userService service.UserServiceInterface
	storage     storage.FileStorage
}

func NewUserHandler(userService service.UserServiceInterface, storage storage.FileStorage) *UserHandler {
	return &UserHandler{
		userService: userService,
		storage:     storage,
	}
}

// GetCurrent 获取当前登录用户的信息
func (h *UserHandler) GetCurrent(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.GetString("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "")
}

// UploadAvatar 上传用户头像
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少头像文件", err))
		return
	}

	userID := c.GetString("user_id")
	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("avatars/%s/%s", userID, filename)

	avatarURL, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("头像上传失败", zap.Error(err), zap.String("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "头像上传失败", err))
		return
	}

	if err := h.userService.UpdateAvatar(userID, avatarURL); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"avatar_url": avatarURL}, "头像上传成功")
}
