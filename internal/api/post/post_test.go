package post

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/service"
	"github.com/forxynet/DevConnector/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	util.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// MockPostService 是 PostServiceInterface 的模拟实现
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(callerID, text string) (*model.Post, error) {
	args := m.Called(callerID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) GetPost(id string) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) ListPosts() ([]*model.Post, error) {
	args := m.Called()
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostService) GetPostsByAuthor(userID string) ([]*model.Post, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(postID, callerID string) error {
	args := m.Called(postID, callerID)
	return args.Error(0)
}

func (m *MockPostService) LikePost(postID, callerID string) (*model.Post, error) {
	args := m.Called(postID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) UnlikePost(postID, callerID string) (*model.Post, error) {
	args := m.Called(postID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) AddComment(postID, callerID, text string) ([]model.Comment, error) {
	args := m.Called(postID, callerID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockPostService) RemoveComment(postID, commentID, callerID string) ([]model.Comment, error) {
	args := m.Called(postID, commentID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

// 确保 MockPostService 实现了 PostServiceInterface
var _ service.PostServiceInterface = (*MockPostService)(nil)

func setupRouter(handler *PostHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("not_blank", util.ValidateNotBlank)
	}

	router := gin.New()
	// 测试中用固定身份代替认证中间件
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})

	router.POST("/posts", handler.Create)
	router.DELETE("/posts/:id", handler.Delete)
	router.PUT("/posts/:id/like", handler.Like)
	router.PUT("/posts/:id/unlike", handler.Unlike)
	router.POST("/posts/:id/comments", handler.AddComment)
	router.DELETE("/posts/:id/comments/:comment_id", handler.RemoveComment)
	return router
}

// TestCreatePostHandler 测试创建帖子处理器
func TestCreatePostHandler(t *testing.T) {
	mockService := new(MockPostService)
	router := setupRouter(NewPostHandler(mockService))

	mockService.On("CreatePost", "user-1", "hello world").
		Return(&model.Post{ID: "post-1", UserID: "user-1", Text: "hello world"}, nil)

	body := []byte(`{"text": "hello world"}`)
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)

	// 空白内容直接被绑定校验拒绝，服务不会被调用
	body = []byte(`{"text": "   "}`)
	req, _ = http.NewRequest("POST", "/posts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNumberOfCalls(t, "CreatePost", 1)
}

// TestDeletePostHandler 测试删除帖子处理器的错误映射
func TestDeletePostHandler(t *testing.T) {
	mockService := new(MockPostService)
	router := setupRouter(NewPostHandler(mockService))

	mockService.On("DeletePost", "post-1", "user-1").Return(nil)
	req, _ := http.NewRequest("DELETE", "/posts/post-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 非作者删除映射为 403
	mockService.On("DeletePost", "post-2", "user-1").
		Return(errors.New(errors.ErrForbidden, "user not authorized"))
	req, _ = http.NewRequest("DELETE", "/posts/post-2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 帖子不存在映射为 404
	mockService.On("DeletePost", "missing", "user-1").
		Return(errors.New(errors.ErrPostNotFound, "post not found"))
	req, _ = http.NewRequest("DELETE", "/posts/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestLikeHandler 测试点赞处理器的错误映射
func TestLikeHandler(t *testing.T) {
	mockService := new(MockPostService)
	router := setupRouter(NewPostHandler(mockService))

	liked := &model.Post{ID: "post-1", Likes: []model.Like{{UserID: "user-1"}}}
	mockService.On("LikePost", "post-1", "user-1").Return(liked, nil).Once()

	req, _ := http.NewRequest("PUT", "/posts/post-1/like", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response["data"], 1)

	// 重复点赞映射为 400
	mockService.On("LikePost", "post-1", "user-1").
		Return(nil, errors.New(errors.ErrAlreadyLiked, "post already liked")).Once()
	req, _ = http.NewRequest("PUT", "/posts/post-1/like", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRemoveCommentHandler 测试删除评论处理器
func TestRemoveCommentHandler(t *testing.T) {
	mockService := new(MockPostService)
	router := setupRouter(NewPostHandler(mockService))

	mockService.On("RemoveComment", "post-1", "comment-1", "user-1").
		Return([]model.Comment{}, nil)

	req, _ := http.NewRequest("DELETE", "/posts/post-1/comments/comment-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
