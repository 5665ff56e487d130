package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/util"
	"go.uber.org/zap"
)

// profileRepository 把档案聚合整行存储，user_id 上有唯一索引，
// 保证每个用户至多一份档案。
type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	skills, social, experience, education, err := marshalProfileCollections(profile)
	if err != nil {
		return err
	}

	query := `INSERT INTO profiles
		(id, user_id, company, status, website, location, bio, skills, github_username,
		 social, experience, education, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`
	_, err = r.db.Exec(query,
		profile.ID, profile.UserID, profile.Company, profile.Status,
		profile.Website, profile.Location, profile.Bio, skills, profile.GithubUsername,
		social, experience, education, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return errors.New(errors.ErrResourceExists, "profile already exists for this user")
		}
		util.Logger.Error("创建档案失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to create profile", err)
	}
	profile.Version = 1

	util.Logger.Info("档案创建成功",
		zap.String("profile_id", profile.ID),
		zap.String("user_id", profile.UserID))
	return nil
}

func (r *profileRepository) FindByID(id string) (*model.Profile, error) {
	return r.scanProfile(r.db.QueryRow(selectProfile+` WHERE id = ?`, id))
}

func (r *profileRepository) FindByUserID(userID string) (*model.Profile, error) {
	return r.scanProfile(r.db.QueryRow(selectProfile+` WHERE user_id = ?`, userID))
}

func (r *profileRepository) FindAll() ([]*model.Profile, error) {
	rows, err := r.db.Query(selectProfile + ` ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		profile, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate profiles", err)
	}
	return profiles, nil
}

// Replace 整体写回档案聚合，乐观校验与帖子仓库一致
func (r *profileRepository) Replace(profile *model.Profile) error {
	skills, social, experience, education, err := marshalProfileCollections(profile)
	if err != nil {
		return err
	}

	query := `UPDATE profiles
		SET company = ?, status = ?, website = ?, location = ?, bio = ?, skills = ?,
		    github_username = ?, social = ?, experience = ?, education = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	result, err := r.db.Exec(query,
		profile.Company, profile.Status, profile.Website, profile.Location,
		profile.Bio, skills, profile.GithubUsername, social, experience, education,
		profile.UpdatedAt, profile.ID, profile.Version)
	if err != nil {
		util.Logger.Error("写回档案失败", zap.Error(err), zap.String("profile_id", profile.ID))
		return errors.Wrap(errors.ErrDatabase, "failed to replace profile", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to replace profile", err)
	}
	if affected == 0 {
		util.Logger.Warn("档案版本冲突",
			zap.String("profile_id", profile.ID),
			zap.Int64("version", profile.Version))
		return errors.New(errors.ErrVersionConflict, "profile was modified concurrently")
	}

	profile.Version++
	return nil
}

func (r *profileRepository) DeleteByUserID(userID string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE user_id = ?`, userID)
	if err != nil {
		util.Logger.Error("删除档案失败", zap.Error(err), zap.String("user_id", userID))
		return errors.Wrap(errors.ErrDatabase, "failed to delete profile", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete profile", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrProfileNotFound, "profile not found")
	}

	util.Logger.Info("档案删除成功", zap.String("user_id", userID))
	return nil
}

const selectProfile = `SELECT id, user_id, company, status, website, location, bio, skills,
	github_username, social, experience, education, version, created_at, updated_at
	FROM profiles`

func (r *profileRepository) scanProfile(row rowScanner) (*model.Profile, error) {
	var profile model.Profile
	var skills, social, experience, education []byte
	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.Company, &profile.Status,
		&profile.Website, &profile.Location, &profile.Bio, &skills,
		&profile.GithubUsername, &social, &experience, &education,
		&profile.Version, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrProfileNotFound, "profile not found")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
	}

	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "corrupt skills column", err)
	}
	if err := json.Unmarshal(social, &profile.Social); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "corrupt social column", err)
	}
	if err := json.Unmarshal(experience, &profile.Experience); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "corrupt experience column", err)
	}
	if err := json.Unmarshal(education, &profile.Education); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "corrupt education column", err)
	}
	return &profile, nil
}

func marshalProfileCollections(profile *model.Profile) ([]byte, []byte, []byte, []byte, error) {
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Experience == nil {
		profile.Experience = []model.Experience{}
	}
	if profile.Education == nil {
		profile.Education = []model.Education{}
	}
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(errors.ErrInternal, "failed to marshal skills", err)
	}
	social, err := json.Marshal(profile.Social)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(errors.ErrInternal, "failed to marshal social links", err)
	}
	experience, err := json.Marshal(profile.Experience)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(errors.ErrInternal, "failed to marshal experience", err)
	}
	education, err := json.Marshal(profile.Education)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(errors.ErrInternal, "failed to marshal education", err)
	}
	return skills, social, experience, education, nil
}
