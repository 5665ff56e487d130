package model

import (
	"strings"
	"time"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/google/uuid"
)

// Post 是一个整体持久化的聚合：点赞和评论随帖子一起读写
type Post struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar"`
	Text         string    `json:"text"`
	Likes        []Like    `json:"likes"`
	Comments     []Comment `json:"comments"`
	Version      int64     `json:"-"` // 乐观锁版本号，仅存储层使用
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Like struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPost 创建一个新的帖子聚合
func NewPost(userID, authorName, authorAvatar, text string) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrValidation, "text is required")
	}
	now := time.Now()
	return &Post{
		ID:           uuid.NewString(),
		UserID:       userID,
		AuthorName:   authorName,
		AuthorAvatar: authorAvatar,
		Text:         text,
		Likes:        []Like{},
		Comments:     []Comment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HasLikeFrom 判断用户是否已点赞
func (p *Post) HasLikeFrom(userID string) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}

// AddLike 给帖子点赞。重复点赞是业务错误而不是空操作。
// 新点赞插入到序列头部，保持最新在前。
func (p *Post) AddLike(userID string) error {
	if p.HasLikeFrom(userID) {
		return errors.New(errors.ErrAlreadyLiked, "post already liked")
	}
	p.Likes = append([]Like{{UserID: userID, CreatedAt: time.Now()}}, p.Likes...)
	return nil
}

// RemoveLike 取消点赞。未点赞时取消同样是业务错误。
func (p *Post) RemoveLike(userID string) error {
	for i, like := range p.Likes {
		if like.UserID == userID {
			// 每个用户至多一条点赞记录
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrNotLiked, "post has not been liked")
}

// AddComment 在帖子上添加评论，插入到序列头部，返回新评论
func (p *Post) AddComment(userID, authorName, authorAvatar, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrValidation, "text is required")
	}
	comment := Comment{
		ID:           uuid.NewString(),
		UserID:       userID,
		AuthorName:   authorName,
		AuthorAvatar: authorAvatar,
		Text:         text,
		CreatedAt:    time.Now(),
	}
	p.Comments = append([]Comment{comment}, p.Comments...)
	return &comment, nil
}

// RemoveComment 删除指定评论。只有评论作者本人可以删除，
// 删除直接作用在定位到的下标上，不做二次扫描。
func (p *Post) RemoveComment(commentID, callerID string) error {
	for i, comment := range p.Comments {
		if comment.ID == commentID {
			if comment.UserID != callerID {
				return errors.New(errors.ErrForbidden, "user not authorized")
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCommentNotFound, "comment does not exist")
}
