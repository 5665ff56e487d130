package service

import (
	"github.com/forxynet/DevConnector/internal/common"
	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/repository/interfaces"
	"github.com/forxynet/DevConnector/internal/util"
	"go.uber.org/zap"
)

// 每个变更操作对版本冲突的最大重试次数
const maxMutationRetries = 3

// PostService 按统一的流程编排帖子聚合的变更：
// 读取聚合 → 所有者校验 → 应用一次内存变更 → 整体写回。
// 写回撞上版本冲突时重新读取并重放变更，重试有上限。
type PostService struct {
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
}

func NewPostService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePost 以调用者身份创建帖子
func (s *PostService) CreatePost(callerID, text string) (*model.Post, error) {
	user, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}

	post, err := model.NewPost(callerID, user.Username, user.AvatarURL, text)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	util.Logger.Info("帖子创建成功",
		zap.String("post_id", post.ID),
		zap.String("user_id", callerID))
	return post, nil
}

func (s *PostService) GetPost(id string) (*model.Post, error) {
	return s.postRepo.FindByID(id)
}

func (s *PostService) ListPosts() ([]*model.Post, error) {
	return s.postRepo.FindAll()
}

func (s *PostService) GetPostsByAuthor(userID string) ([]*model.Post, error) {
	return s.postRepo.FindByAuthor(userID)
}

// DeletePost 删除帖子，只有作者本人可以删除
func (s *PostService) DeletePost(postID, callerID string) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return err
	}
	if err := CheckOwner(callerID, post.UserID); err != nil {
		return err
	}
	return s.postRepo.Delete(postID)
}

// LikePost 给帖子点赞，重复点赞报错
func (s *PostService) LikePost(postID, callerID string) (*model.Post, error) {
	return s.mutatePost(postID, func(post *model.Post) error {
		return post.AddLike(callerID)
	})
}

// UnlikePost 取消点赞，未点赞时报错
func (s *PostService) UnlikePost(postID, callerID string) (*model.Post, error) {
	return s.mutatePost(postID, func(post *model.Post) error {
		return post.RemoveLike(callerID)
	})
}

// AddComment 在帖子上添加评论，返回变更后的评论序列
func (s *PostService) AddComment(postID, callerID, text string) ([]model.Comment, error) {
	user, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}

	post, err := s.mutatePost(postID, func(post *model.Post) error {
		_, err := post.AddComment(callerID, user.Username, user.AvatarURL, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment 删除评论，只有评论作者本人可以删除
func (s *PostService) RemoveComment(postID, commentID, callerID string) ([]model.Comment, error) {
	post, err := s.mutatePost(postID, func(post *model.Post) error {
		return post.RemoveComment(commentID, callerID)
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// mutatePost 执行一次完整的读取-变更-写回循环。
// 变更函数只作用于内存中的聚合；版本冲突时整个循环重放。
func (s *PostService) mutatePost(postID string, mutate func(*model.Post) error) (*model.Post, error) {
	var post *model.Post
	err := common.WithRetry(func() error {
		var err error
		post, err = s.postRepo.FindByID(postID)
		if err != nil {
			return err
		}
		if err := mutate(post); err != nil {
			return err
		}
		return s.postRepo.Replace(post)
	}, maxMutationRetries)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// PostServiceInterface 供处理器与测试使用
type PostServiceInterface interface {
	CreatePost(callerID, text string) (*model.Post, error)
	GetPost(id string) (*model.Post, error)
	ListPosts() ([]*model.Post, error)
	GetPostsByAuthor(userID string) ([]*model.Post, error)
	DeletePost(postID, callerID string) error
	LikePost(postID, callerID string) (*model.Post, error)
	UnlikePost(postID, callerID string) (*model.Post, error)
	AddComment(postID, callerID, text string) ([]model.Comment, error)
	RemoveComment(postID, commentID, callerID string) ([]model.Comment, error)
}

// 确保 PostService 实现了 PostServiceInterface
var _ PostServiceInterface = (*PostService)(nil)
