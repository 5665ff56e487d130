package service

import (
	"fmt"

	"github.com/forxynet/DevConnector/internal/common"
	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/repository/interfaces"
	"github.com/forxynet/DevConnector/internal/util"
	"go.uber.org/zap"
)

// ProfileService 编排档案聚合的变更，流程与 PostService 相同。
// 子记录（工作经历、教育经历）没有独立属主，鉴权针对档案属主。
type ProfileService struct {
	profileRepo interfaces.ProfileRepository
	postRepo    interfaces.PostRepository
	userRepo    interfaces.UserRepository
}

func NewProfileService(
	profileRepo interfaces.ProfileRepository,
	postRepo interfaces.PostRepository,
	userRepo interfaces.UserRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// UpsertProfile 创建或更新调用者的档案。
// 只覆盖请求中提供的标量字段，更新时省略的字段保持不变，
// 子集合（经历、教育）不受影响。
func (s *ProfileService) UpsertProfile(callerID string, fields model.ProfileFields) (*model.Profile, error) {
	if fields.Status == "" {
		return nil, errors.New(errors.ErrValidation, "status is required")
	}
	if len(fields.Skills) == 0 {
		return nil, errors.New(errors.ErrValidation, "skills is required")
	}

	if _, err := s.profileRepo.FindByUserID(callerID); err != nil {
		if !errors.IsCode(err, errors.ErrProfileNotFound) {
			return nil, err
		}
		profile := model.NewProfile(callerID, fields)
		if err := s.profileRepo.Create(profile); err != nil {
			return nil, err
		}
		util.Logger.Info("档案创建成功", zap.String("user_id", callerID))
		return profile, nil
	}

	return s.mutateProfile(callerID, callerID, func(profile *model.Profile) error {
		profile.ApplyFields(fields)
		return nil
	})
}

func (s *ProfileService) GetProfileByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.FindByUserID(userID)
}

func (s *ProfileService) ListProfiles() ([]*model.Profile, error) {
	return s.profileRepo.FindAll()
}

// AddExperience 在档案上添加工作经历，只有档案属主可以操作
func (s *ProfileService) AddExperience(profileUserID, callerID string, exp model.Experience) (*model.Profile, error) {
	return s.mutateProfile(profileUserID, callerID, func(profile *model.Profile) error {
		_, err := profile.AddExperience(exp)
		return err
	})
}

// RemoveExperience 删除工作经历，只有档案属主可以操作
func (s *ProfileService) RemoveExperience(profileUserID, callerID, expID string) (*model.Profile, error) {
	return s.mutateProfile(profileUserID, callerID, func(profile *model.Profile) error {
		return profile.RemoveExperience(expID)
	})
}

// AddEducation 在档案上添加教育经历，只有档案属主可以操作
func (s *ProfileService) AddEducation(profileUserID, callerID string, edu model.Education) (*model.Profile, error) {
	return s.mutateProfile(profileUserID, callerID, func(profile *model.Profile) error {
		_, err := profile.AddEducation(edu)
		return err
	})
}

// RemoveEducation 删除教育经历，只有档案属主可以操作
func (s *ProfileService) RemoveEducation(profileUserID, callerID, eduID string) (*model.Profile, error) {
	return s.mutateProfile(profileUserID, callerID, func(profile *model.Profile) error {
		return profile.RemoveEducation(eduID)
	})
}

// DeleteAccount 级联删除：先删帖子，再删档案，最后删用户。
// 三次写入之间没有跨聚合事务，任何一步失败都原样上报，
// 已经完成的步骤不回滚，部分完成必须报告为部分失败而不是成功。
func (s *ProfileService) DeleteAccount(callerID string) error {
	profile, err := s.profileRepo.FindByUserID(callerID)
	if err != nil {
		return err
	}
	if err := CheckOwner(callerID, profile.UserID); err != nil {
		return err
	}

	deleted, err := s.postRepo.DeleteByAuthor(callerID)
	if err != nil {
		return err
	}
	util.Logger.Info("用户帖子已删除",
		zap.String("user_id", callerID),
		zap.Int("count", deleted))

	if err := s.profileRepo.DeleteByUserID(callerID); err != nil {
		util.Logger.Error("级联删除中断：帖子已删除但档案删除失败",
			zap.Error(err), zap.String("user_id", callerID))
		return errors.Wrap(errors.ErrPartialCascade,
			fmt.Sprintf("posts removed (%d) but profile deletion failed", deleted), err)
	}

	if err := s.userRepo.Delete(callerID); err != nil {
		util.Logger.Error("级联删除中断：档案已删除但用户删除失败",
			zap.Error(err), zap.String("user_id", callerID))
		return errors.Wrap(errors.ErrPartialCascade,
			fmt.Sprintf("posts (%d) and profile removed but user deletion failed", deleted), err)
	}

	util.Logger.Info("账户级联删除完成", zap.String("user_id", callerID))
	return nil
}

// mutateProfile 执行一次完整的读取-校验-变更-写回循环
func (s *ProfileService) mutateProfile(profileUserID, callerID string, mutate func(*model.Profile) error) (*model.Profile, error) {
	var profile *model.Profile
	err := common.WithRetry(func() error {
		var err error
		profile, err = s.profileRepo.FindByUserID(profileUserID)
		if err != nil {
			return err
		}
		if err := CheckOwner(callerID, profile.UserID); err != nil {
			return err
		}
		if err := mutate(profile); err != nil {
			return err
		}
		return s.profileRepo.Replace(profile)
	}, maxMutationRetries)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ProfileServiceInterface 供处理器与测试使用
type ProfileServiceInterface interface {
	UpsertProfile(callerID string, fields model.ProfileFields) (*model.Profile, error)
	GetProfileByUserID(userID string) (*model.Profile, error)
	ListProfiles() ([]*model.Profile, error)
	AddExperience(profileUserID, callerID string, exp model.Experience) (*model.Profile, error)
	RemoveExperience(profileUserID, callerID, expID string) (*model.Profile, error)
	AddEducation(profileUserID, callerID string, edu model.Education) (*model.Profile, error)
	RemoveEducation(profileUserID, callerID, eduID string) (*model.Profile, error)
	DeleteAccount(callerID string) error
}

// 确保 ProfileService 实现了 ProfileServiceInterface
var _ ProfileServiceInterface = (*ProfileService)(nil)
