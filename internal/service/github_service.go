package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forxynet/DevConnector/config"
	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/util"
	"go.uber.org/zap"
)

// GithubRepo 是对外返回的仓库信息
type GithubRepo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
}

// GithubService 从 GitHub 拉取用户的公开仓库，只读，
// 不参与任何聚合一致性逻辑。
type GithubService struct {
	client *http.Client
}

func NewGithubService() *GithubService {
	return &GithubService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUserRepos 获取用户最近创建的公开仓库
func (s *GithubService) GetUserRepos(username string) ([]GithubRepo, error) {
	url := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc",
		config.AppConfig.GitHubAPIBaseURL, username)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build github request", err)
	}
	req.Header.Set("User-Agent", "devconnector-backend")
	if config.AppConfig.GitHubToken != "" {
		req.Header.Set("Authorization", "token "+config.AppConfig.GitHubToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		util.Logger.Error("请求 GitHub 失败", zap.Error(err), zap.String("username", username))
		return nil, errors.Wrap(errors.ErrInternal, "failed to reach github", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.New(errors.ErrResourceNotFound, "no github profile found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrInternal,
			fmt.Sprintf("github returned status %d", resp.StatusCode))
	}

	var repos []GithubRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to decode github response", err)
	}
	return repos, nil
}

type GithubServiceInterface interface {
	GetUserRepos(username string) ([]GithubRepo, error)
}

var _ GithubServiceInterface = (*GithubService)(nil)
