package model

import (
	"strings"
	"time"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/google/uuid"
)

// Profile 是一个整体持久化的聚合，每个用户至多一份。
// 工作经历和教育经历没有独立的属主，鉴权一律针对档案属主。
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Company        string       `json:"company,omitempty"`
	Status         string       `json:"status"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Skills         []string     `json:"skills"`
	GithubUsername string       `json:"github_username,omitempty"`
	Social         SocialLinks  `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Version        int64        `json:"-"` // 乐观锁版本号，仅存储层使用
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

// ProfileFields 是创建或更新档案时整体覆盖的标量字段集合
type ProfileFields struct {
	Company        string
	Status         string
	Website        string
	Location       string
	Bio            string
	Skills         []string
	GithubUsername string
	Social         SocialLinks
}

// NewProfile 为用户创建新档案
func NewProfile(userID string, fields ProfileFields) *Profile {
	now := time.Now()
	p := &Profile{
		ID:         uuid.NewString(),
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.ApplyFields(fields)
	return p
}

// ApplyFields 只覆盖请求中提供的标量字段，省略的字段保持不变，
// 子集合（经历、教育）不受影响。
func (p *Profile) ApplyFields(fields ProfileFields) {
	if fields.Company != "" {
		p.Company = fields.Company
	}
	if fields.Status != "" {
		p.Status = fields.Status
	}
	if fields.Website != "" {
		p.Website = fields.Website
	}
	if fields.Location != "" {
		p.Location = fields.Location
	}
	if fields.Bio != "" {
		p.Bio = fields.Bio
	}
	if len(fields.Skills) > 0 {
		p.Skills = fields.Skills
	}
	if fields.GithubUsername != "" {
		p.GithubUsername = fields.GithubUsername
	}
	if fields.Social.Youtube != "" {
		p.Social.Youtube = fields.Social.Youtube
	}
	if fields.Social.Twitter != "" {
		p.Social.Twitter = fields.Social.Twitter
	}
	if fields.Social.Facebook != "" {
		p.Social.Facebook = fields.Social.Facebook
	}
	if fields.Social.Linkedin != "" {
		p.Social.Linkedin = fields.Social.Linkedin
	}
	if fields.Social.Instagram != "" {
		p.Social.Instagram = fields.Social.Instagram
	}
	p.UpdatedAt = time.Now()
}

// AddExperience 在档案头部插入一条工作经历
func (p *Profile) AddExperience(exp Experience) (*Experience, error) {
	if strings.TrimSpace(exp.Title) == "" {
		return nil, errors.New(errors.ErrValidation, "title is required")
	}
	if strings.TrimSpace(exp.Company) == "" {
		return nil, errors.New(errors.ErrValidation, "company is required")
	}
	if strings.TrimSpace(exp.From) == "" {
		return nil, errors.New(errors.ErrValidation, "from date is required")
	}
	exp.ID = uuid.NewString()
	p.Experience = append([]Experience{exp}, p.Experience...)
	return &exp, nil
}

// RemoveExperience 删除指定的工作经历。
// 找不到即报错，绝不把"未命中"当成下标使用。
func (p *Profile) RemoveExperience(expID string) error {
	for i, exp := range p.Experience {
		if exp.ID == expID {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrRecordNotFound, "experience not found")
}

// AddEducation 在档案头部插入一条教育经历
func (p *Profile) AddEducation(edu Education) (*Education, error) {
	if strings.TrimSpace(edu.School) == "" {
		return nil, errors.New(errors.ErrValidation, "school is required")
	}
	if strings.TrimSpace(edu.Degree) == "" {
		return nil, errors.New(errors.ErrValidation, "degree is required")
	}
	if strings.TrimSpace(edu.FieldOfStudy) == "" {
		return nil, errors.New(errors.ErrValidation, "field of study is required")
	}
	if strings.TrimSpace(edu.From) == "" {
		return nil, errors.New(errors.ErrValidation, "from date is required")
	}
	edu.ID = uuid.NewString()
	p.Education = append([]Education{edu}, p.Education...)
	return &edu, nil
}

// RemoveEducation 删除指定的教育经历
func (p *Profile) RemoveEducation(eduID string) error {
	for i, edu := range p.Education {
		if edu.ID == eduID {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrRecordNotFound, "education not found")
}
