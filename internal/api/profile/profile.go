package profile

import (
	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/service"
	"github.com/forxynet/DevConnector/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 处理与开发者档案相关的HTTP请求
type ProfileHandler struct {
	profileService service.ProfileServiceInterface
	githubService  service.GithubServiceInterface
}

func NewProfileHandler(
	profileService service.ProfileServiceInterface,
	githubService service.GithubServiceInterface,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		githubService:  githubService,
	}
}

// GetMine 获取当前用户的档案
func (h *ProfileHandler) GetMine(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUserID(c.GetString("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "")
}

// Upsert 创建或更新当前用户的档案
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var profileData struct {
		Company        string            `json:"company"`
		Status         string            `json:"status" binding:"required,not_blank"`
		Website        string            `json:"website"`
		Location       string            `json:"location"`
		Bio            string            `json:"bio"`
		Skills         []string          `json:"skills" binding:"required,min=1"`
		GithubUsername string            `json:"github_username"`
		Social         model.SocialLinks `json:"social"`
	}

	if err := c.ShouldBindJSON(&profileData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	callerID := c.GetString("user_id")
	profile, err := h.profileService.UpsertProfile(callerID, model.ProfileFields{
		Company:        profileData.Company,
		Status:         profileData.Status,
		Website:        profileData.Website,
		Location:       profileData.Location,
		Bio:            profileData.Bio,
		Skills:         profileData.Skills,
		GithubUsername: profileData.GithubUsername,
		Social:         profileData.Social,
	})
	if err != nil {
		util.Logger.Error("保存档案失败", zap.Error(err), zap.String("user_id", callerID))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "档案保存成功")
}

// List 获取全部档案
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileService.ListProfiles()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取档案列表失败", err))
		return
	}
	errors.HandleSuccess(c, profiles, "")
}

// GetByUserID 按用户ID获取档案
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUserID(c.Param("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "")
}

// AddExperience 在当前用户的档案上添加工作经历
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var expData struct {
		Title       string `json:"title" binding:"required,not_blank"`
		Company     string `json:"company" binding:"required,not_blank"`
		Location    string `json:"location"`
		From        string `json:"from" binding:"required,not_blank"`
		To          string `json:"to"`
		Current     bool   `json:"current"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&expData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	callerID := c.GetString("user_id")
	profile, err := h.profileService.AddExperience(callerID, callerID, model.Experience{
		Title:       expData.Title,
		Company:     expData.Company,
		Location:    expData.Location,
		From:        expData.From,
		To:          expData.To,
		Current:     expData.Current,
		Description: expData.Description,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "工作经历添加成功")
}

// RemoveExperience 从当前用户的档案上删除工作经历
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	callerID := c.GetString("user_id")
	profile, err := h.profileService.RemoveExperience(callerID, callerID, c.Param("exp_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "工作经历删除成功")
}

// AddEducation 在当前用户的档案上添加教育经历
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var eduData struct {
		School       string `json:"school" binding:"required,not_blank"`
		Degree       string `json:"degree" binding:"required,not_blank"`
		FieldOfStudy string `json:"field_of_study" binding:"required,not_blank"`
		From         string `json:"from" binding:"required,not_blank"`
		To           string `json:"to"`
		Current      bool   `json:"current"`
		Description  string `json:"description"`
	}

	if err := c.ShouldBindJSON(&eduData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	callerID := c.GetString("user_id")
	profile, err := h.profileService.AddEducation(callerID, callerID, model.Education{
		School:       eduData.School,
		Degree:       eduData.Degree,
		FieldOfStudy: eduData.FieldOfStudy,
		From:         eduData.From,
		To:           eduData.To,
		Current:      eduData.Current,
		Description:  eduData.Description,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "教育经历添加成功")
}

// RemoveEducation 从当前用户的档案上删除教育经历
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	callerID := c.GetString("user_id")
	profile, err := h.profileService.RemoveEducation(callerID, callerID, c.Param("edu_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, profile, "教育经历删除成功")
}

// DeleteAccount 级联删除当前用户的帖子、档案和账户
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	callerID := c.GetString("user_id")
	if err := h.profileService.DeleteAccount(callerID); err != nil {
		util.Logger.Error("删除账户失败", zap.Error(err), zap.String("user_id", callerID))
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "账户删除成功")
}

// GetGithubRepos 获取指定用户名的GitHub公开仓库
func (h *ProfileHandler) GetGithubRepos(c *gin.Context) {
	repos, err := h.githubService.GetUserRepos(c.Param("username"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, repos, "")
}
