package model

import (
	"testing"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/stretchr/testify/assert"
)

// TestNewPost 测试帖子创建
func TestNewPost(t *testing.T) {
	post, err := NewPost("user-1", "alice", "https://example.com/a.png", "hello world")
	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "user-1", post.UserID)
	assert.Equal(t, "alice", post.AuthorName)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)

	// 空白内容不允许创建
	_, err = NewPost("user-1", "alice", "", "   ")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
}

// TestAddLike 测试点赞：重复点赞必须报错而不是静默忽略
func TestAddLike(t *testing.T) {
	post, _ := NewPost("owner", "owner", "", "likeable")

	err := post.AddLike("user-1")
	assert.NoError(t, err)
	assert.Len(t, post.Likes, 1)
	assert.True(t, post.HasLikeFrom("user-1"))

	// 第二次点赞报错，集合不变
	err = post.AddLike("user-1")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAlreadyLiked))
	assert.Len(t, post.Likes, 1)

	// 新用户点赞插入到最前面
	err = post.AddLike("user-2")
	assert.NoError(t, err)
	assert.Equal(t, "user-2", post.Likes[0].UserID)
	assert.Equal(t, "user-1", post.Likes[1].UserID)
}

// TestRemoveLike 测试取消点赞
func TestRemoveLike(t *testing.T) {
	post, _ := NewPost("owner", "owner", "", "likeable")

	// 未点赞时取消报错
	err := post.RemoveLike("user-1")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotLiked))

	// 点赞-取消往返后集合回到原状
	assert.NoError(t, post.AddLike("user-1"))
	assert.NoError(t, post.RemoveLike("user-1"))
	assert.Empty(t, post.Likes)
	assert.False(t, post.HasLikeFrom("user-1"))

	// 取消只影响本人的点赞
	assert.NoError(t, post.AddLike("user-1"))
	assert.NoError(t, post.AddLike("user-2"))
	assert.NoError(t, post.RemoveLike("user-1"))
	assert.Len(t, post.Likes, 1)
	assert.Equal(t, "user-2", post.Likes[0].UserID)
}

// TestAddComment 测试添加评论：新评论插入到最前面
func TestAddComment(t *testing.T) {
	post, _ := NewPost("owner", "owner", "", "commentable")

	first, err := post.AddComment("user-1", "alice", "", "first")
	assert.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := post.AddComment("user-2", "bob", "", "second")
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Len(t, post.Comments, 2)
	assert.Equal(t, "second", post.Comments[0].Text)
	assert.Equal(t, "first", post.Comments[1].Text)

	// 空白评论不允许
	_, err = post.AddComment("user-1", "alice", "", "  ")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
	assert.Len(t, post.Comments, 2)
}

// TestRemoveComment 测试删除评论的鉴权和定位
func TestRemoveComment(t *testing.T) {
	post, _ := NewPost("owner", "owner", "", "commentable")
	a, _ := post.AddComment("user-1", "alice", "", "from alice")
	b, _ := post.AddComment("user-2", "bob", "", "from bob")
	c, _ := post.AddComment("user-1", "alice", "", "alice again")

	// 非评论作者删除被拒绝，集合不变
	err := post.RemoveComment(a.ID, "user-2")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrForbidden))
	assert.Len(t, post.Comments, 3)

	// 不存在的评论报 NotFound，集合不变
	err = post.RemoveComment("no-such-comment", "user-1")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCommentNotFound))
	assert.Len(t, post.Comments, 3)

	// 删除中间的评论后其余评论相对顺序保持不变
	err = post.RemoveComment(b.ID, "user-2")
	assert.NoError(t, err)
	assert.Len(t, post.Comments, 2)
	assert.Equal(t, c.ID, post.Comments[0].ID)
	assert.Equal(t, a.ID, post.Comments[1].ID)
}
