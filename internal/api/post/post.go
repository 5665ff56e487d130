package post

import (
	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/service"
	"github.com/forxynet/DevConnector/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理与帖子相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

// Create 处理创建帖子请求
func (h *PostHandler) Create(c *gin.Context) {
	var postData struct {
		Text string `json:"text" binding:"required,not_blank"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	callerID := c.GetString("user_id")
	post, err := h.postService.CreatePost(callerID, postData.Text)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err), zap.String("user_id", callerID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, post, "帖子创建成功")
}

// List 获取全部帖子
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.ListPosts()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}
	errors.HandleSuccess(c, posts, "")
}

// Get 按ID获取帖子
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.GetPost(c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "")
}

// Delete 删除帖子，只有作者本人可以删除
func (h *PostHandler) Delete(c *gin.Context) {
	postID := c.Param("id")
	callerID := c.GetString("user_id")

	if err := h.postService.DeletePost(postID, callerID); err != nil {
		util.Logger.Warn("删除帖子失败",
			zap.Error(err),
			zap.String("post_id", postID),
			zap.String("user_id", callerID))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "帖子删除成功")
}

// Like 点赞
func (h *PostHandler) Like(c *gin.Context) {
	post, err := h.postService.LikePost(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post.Likes, "")
}

// Unlike 取消点赞
func (h *PostHandler) Unlike(c *gin.Context) {
	post, err := h.postService.UnlikePost(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post.Likes, "")
}

// AddComment 添加评论
func (h *PostHandler) AddComment(c *gin.Context) {
	var commentData struct {
		Text string `json:"text" binding:"required,not_blank"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comments, err := h.postService.AddComment(c.Param("id"), c.GetString("user_id"), commentData.Text)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comments, "评论添加成功")
}

// RemoveComment 删除评论，只有评论作者本人可以删除
func (h *PostHandler) RemoveComment(c *gin.Context) {
	comments, err := h.postService.RemoveComment(
		c.Param("id"), c.Param("comment_id"), c.GetString("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comments, "评论删除成功")
}
