package interfaces

import "github.com/forxynet/DevConnector/internal/model"

// ProfileRepository 定义了档案聚合的存储接口。
// 每个用户至多一份档案；Replace 的乐观校验语义与 PostRepository 一致。
type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByID(id string) (*model.Profile, error)
	FindByUserID(userID string) (*model.Profile, error)
	FindAll() ([]*model.Profile, error)
	Replace(profile *model.Profile) error
	DeleteByUserID(userID string) error
}
