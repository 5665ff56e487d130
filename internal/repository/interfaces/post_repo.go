package interfaces

import "github.com/forxynet/DevConnector/internal/model"

// PostRepository 定义了帖子聚合的存储接口。
// Replace 以整个聚合为单位写回，并以取出时的版本号做乐观校验，
// 版本不匹配时返回版本冲突错误。
type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	FindAll() ([]*model.Post, error)
	FindByAuthor(userID string) ([]*model.Post, error)
	Replace(post *model.Post) error
	Delete(id string) error
	DeleteByAuthor(userID string) (int, error)
}
