package model

import (
	"testing"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/stretchr/testify/assert"
)

// TestNewProfile 测试档案创建和标量字段覆盖
func TestNewProfile(t *testing.T) {
	profile := NewProfile("user-1", ProfileFields{
		Status: "developer",
		Skills: []string{"Go", "SQL"},
	})
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, "developer", profile.Status)
	assert.Empty(t, profile.Experience)
	assert.Empty(t, profile.Education)
}

// TestApplyFields 只覆盖提供的字段，省略的字段保持不变，子集合不受影响
func TestApplyFields(t *testing.T) {
	profile := NewProfile("user-1", ProfileFields{
		Status:   "developer",
		Skills:   []string{"Go"},
		Company:  "Acme",
		Location: "Berlin",
		Bio:      "hello",
		Social:   SocialLinks{Twitter: "@dev"},
	})
	_, err := profile.AddExperience(Experience{Title: "Engineer", Company: "Acme", From: "2020-01-01"})
	assert.NoError(t, err)

	// 更新时省略 Company/Location/Bio/Social，这些字段保持原值
	profile.ApplyFields(ProfileFields{
		Status: "senior developer",
		Skills: []string{"Go", "SQL"},
	})
	assert.Equal(t, "senior developer", profile.Status)
	assert.Equal(t, "Acme", profile.Company)
	assert.Equal(t, "Berlin", profile.Location)
	assert.Equal(t, "hello", profile.Bio)
	assert.Equal(t, "@dev", profile.Social.Twitter)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
	assert.Len(t, profile.Experience, 1)

	// 提供的字段被覆盖，社交链接也按单个字段覆盖
	profile.ApplyFields(ProfileFields{
		Status:  "lead",
		Skills:  []string{"Go"},
		Company: "Globex",
		Social:  SocialLinks{Youtube: "devchannel"},
	})
	assert.Equal(t, "Globex", profile.Company)
	assert.Equal(t, "devchannel", profile.Social.Youtube)
	assert.Equal(t, "@dev", profile.Social.Twitter)
}

// TestAddExperience 测试添加工作经历：必填字段和前插顺序
func TestAddExperience(t *testing.T) {
	profile := NewProfile("user-1", ProfileFields{Status: "dev", Skills: []string{"Go"}})

	// 必填字段缺失
	_, err := profile.AddExperience(Experience{Company: "Acme", From: "2020-01-01"})
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
	_, err = profile.AddExperience(Experience{Title: "Engineer", From: "2020-01-01"})
	assert.Error(t, err)
	_, err = profile.AddExperience(Experience{Title: "Engineer", Company: "Acme"})
	assert.Error(t, err)
	assert.Empty(t, profile.Experience)

	first, err := profile.AddExperience(Experience{Title: "Engineer", Company: "Acme", From: "2018-01-01"})
	assert.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := profile.AddExperience(Experience{Title: "Senior Engineer", Company: "Acme", From: "2021-01-01"})
	assert.NoError(t, err)

	// 后添加的经历排在最前面
	assert.Len(t, profile.Experience, 2)
	assert.Equal(t, second.ID, profile.Experience[0].ID)
	assert.Equal(t, first.ID, profile.Experience[1].ID)
}

// TestRemoveExperience 测试按标识删除工作经历
func TestRemoveExperience(t *testing.T) {
	profile := NewProfile("user-1", ProfileFields{Status: "dev", Skills: []string{"Go"}})
	a, _ := profile.AddExperience(Experience{Title: "A", Company: "X", From: "2018-01-01"})
	b, _ := profile.AddExperience(Experience{Title: "B", Company: "Y", From: "2020-01-01"})

	// 不存在的标识报错，集合不变
	err := profile.RemoveExperience("no-such-id")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecordNotFound))
	assert.Len(t, profile.Experience, 2)

	err = profile.RemoveExperience(b.ID)
	assert.NoError(t, err)
	assert.Len(t, profile.Experience, 1)
	assert.Equal(t, a.ID, profile.Experience[0].ID)

	// 重复删除同一条记录报错
	err = profile.RemoveExperience(b.ID)
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecordNotFound))
}

// TestAddEducation 测试添加教育经历
func TestAddEducation(t *testing.T) {
	profile := NewProfile("user-1", ProfileFields{Status: "dev", Skills: []string{"Go"}})

	_, err := profile.AddEducation(Education{Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01"})
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))

	first, err := profile.AddEducation(Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01"})
	assert.NoError(t, err)
	second, err := profile.AddEducation(Education{School: "MIT", Degree: "MSc", FieldOfStudy: "CS", From: "2018-09-01"})
	assert.NoError(t, err)

	assert.Len(t, profile.Education, 2)
	assert.Equal(t, second.ID, profile.Education[0].ID)
	assert.Equal(t, first.ID, profile.Education[1].ID)
}

// TestRemoveEducation 测试按标识删除教育经历
func TestRemoveEducation(t *testing.T) {
	profile := NewProfile("user-1", ProfileFields{Status: "dev", Skills: []string{"Go"}})
	edu, _ := profile.AddEducation(Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01"})

	err := profile.RemoveEducation("missing")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecordNotFound))

	err = profile.RemoveEducation(edu.ID)
	assert.NoError(t, err)
	assert.Empty(t, profile.Education)
}
