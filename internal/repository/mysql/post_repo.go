package mysql

import (
	"database/sql"
	"encoding/json"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/util"
	"go.uber.org/zap"
)

// postRepository 把帖子聚合整行存储：点赞和评论序列化为 JSON 列，
// Replace 借助 version 列做乐观并发控制。
type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	likes, comments, err := marshalPostCollections(post)
	if err != nil {
		return err
	}

	query := `INSERT INTO posts
		(id, user_id, author_name, author_avatar, text, likes, comments, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`
	_, err = r.db.Exec(query,
		post.ID, post.UserID, post.AuthorName, post.AuthorAvatar,
		post.Text, likes, comments, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to create post", err)
	}
	post.Version = 1

	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID))
	return nil
}

func (r *postRepository) FindByID(id string) (*model.Post, error) {
	query := `SELECT id, user_id, author_name, author_avatar, text, likes, comments, version, created_at, updated_at
		FROM posts WHERE id = ?`
	return r.scanPost(r.db.QueryRow(query, id))
}

func (r *postRepository) FindAll() ([]*model.Post, error) {
	query := `SELECT id, user_id, author_name, author_avatar, text, likes, comments, version, created_at, updated_at
		FROM posts ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list posts", err)
	}
	defer rows.Close()

	return r.collectPosts(rows)
}

func (r *postRepository) FindByAuthor(userID string) ([]*model.Post, error) {
	query := `SELECT id, user_id, author_name, author_avatar, text, likes, comments, version, created_at, updated_at
		FROM posts WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list posts by author", err)
	}
	defer rows.Close()

	return r.collectPosts(rows)
}

// Replace 整体写回聚合。WHERE 子句带上取出时的版本号，
// 没有命中任何行说明聚合在读写之间被并发修改过。
func (r *postRepository) Replace(post *model.Post) error {
	likes, comments, err := marshalPostCollections(post)
	if err != nil {
		return err
	}

	query := `UPDATE posts
		SET text = ?, likes = ?, comments = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	result, err := r.db.Exec(query, post.Text, likes, comments, post.UpdatedAt, post.ID, post.Version)
	if err != nil {
		util.Logger.Error("写回帖子失败", zap.Error(err), zap.String("post_id", post.ID))
		return errors.Wrap(errors.ErrDatabase, "failed to replace post", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to replace post", err)
	}
	if affected == 0 {
		util.Logger.Warn("帖子版本冲突",
			zap.String("post_id", post.ID),
			zap.Int64("version", post.Version))
		return errors.New(errors.ErrVersionConflict, "post was modified concurrently")
	}

	post.Version++
	return nil
}

func (r *postRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.String("post_id", id))
		return errors.Wrap(errors.ErrDatabase, "failed to delete post", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete post", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrPostNotFound, "post not found")
	}

	util.Logger.Info("帖子删除成功", zap.String("post_id", id))
	return nil
}

func (r *postRepository) DeleteByAuthor(userID string) (int, error) {
	result, err := r.db.Exec(`DELETE FROM posts WHERE user_id = ?`, userID)
	if err != nil {
		util.Logger.Error("删除用户帖子失败", zap.Error(err), zap.String("user_id", userID))
		return 0, errors.Wrap(errors.ErrDatabase, "failed to delete posts by author", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "failed to delete posts by author", err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postRepository) scanPost(row rowScanner) (*model.Post, error) {
	var post model.Post
	var likes, comments []byte
	err := row.Scan(
		&post.ID, &post.UserID, &post.AuthorName, &post.AuthorAvatar,
		&post.Text, &likes, &comments, &post.Version,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrPostNotFound, "post not found")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load post", err)
	}

	if err := json.Unmarshal(likes, &post.Likes); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "corrupt likes column", err)
	}
	if err := json.Unmarshal(comments, &post.Comments); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "corrupt comments column", err)
	}
	return &post, nil
}

func (r *postRepository) collectPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate posts", err)
	}
	return posts, nil
}

func marshalPostCollections(post *model.Post) ([]byte, []byte, error) {
	if post.Likes == nil {
		post.Likes = []model.Like{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	likes, err := json.Marshal(post.Likes)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "failed to marshal likes", err)
	}
	comments, err := json.Marshal(post.Comments)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "failed to marshal comments", err)
	}
	return likes, comments, nil
}
